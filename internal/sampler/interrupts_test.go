package sampler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInterrupts = `           CPU0       CPU1
  0:         36          0   IO-APIC   2-edge      timer
  1:        120         30   IO-APIC   1-edge      i8042
  8:          0          0   IO-APIC   8-edge      rtc0
 12:        400          5   IO-APIC  12-edge      i8042
 16:         10         20   IO-APIC  16-fasteoi   xhci_hcd:usb1
NMI:          0          0   Non-maskable interrupts
`

func TestSumInterrupts(t *testing.T) {
	total, matched, err := sumInterrupts(strings.NewReader(sampleInterrupts), []string{"i8042", "xhci_hcd"})
	require.NoError(t, err)
	assert.Equal(t, 3, matched)
	assert.Equal(t, uint64(120+30+400+5+10+20), total)
}

func TestSumInterruptsNoMatch(t *testing.T) {
	total, matched, err := sumInterrupts(strings.NewReader(sampleInterrupts), []string{"gpio-keys"})
	require.NoError(t, err)
	assert.Zero(t, matched)
	assert.Zero(t, total)
}
