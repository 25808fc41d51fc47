// Package errors provides coded domain errors shared by every idletrack
// package. Each package declares its own codes in an errors.go file and
// builds errors through a Factory.
package errors

// ErrorCode identifies an error type. Codes are stable strings that appear
// in logs and may be matched with HasCode.
type ErrorCode string

// Error is a domain error carrying a code and optional context.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory defines methods for creating domain errors
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
