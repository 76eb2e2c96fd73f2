package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique identifier for specific error conditions in FlightStatus.
type ErrorCode int

const (
	ErrCodeUnknown       ErrorCode = 1000
	ErrCodeConfigInvalid ErrorCode = 1001
	ErrCodeConfigRead    ErrorCode = 1002

	// Gyro sample sources
	ErrCodeSourceOpen      ErrorCode = 2001
	ErrCodeSourceParse     ErrorCode = 2002
	ErrCodeSourceExhausted ErrorCode = 2003

	// Telemetry socket
	ErrCodeTelemetryBind    ErrorCode = 3001
	ErrCodeTelemetryRequest ErrorCode = 3002

	// Modbus export
	ErrCodeExportConnect ErrorCode = 4001
	ErrCodeExportWrite   ErrorCode = 4002

	// State machine
	ErrCodeTransitionRejected ErrorCode = 5001
)

// FlightError is a custom error type that provides structured error information,
// including an error code, the operation being performed, and the underlying cause.
type FlightError struct {
	// Code is the specific error code.
	Code ErrorCode
	// Msg is a human-readable description of the error.
	Msg string
	// Operation describes the action being performed when the error occurred.
	Operation string
	// Err is the underlying error that caused this error, if any.
	Err error
}

// Error returns a formatted string representation of the error.
func (e *FlightError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %s (cause: %v)", e.Code, e.Operation, e.Msg, e.Err)
	}
	return fmt.Sprintf("[%d] %s: %s", e.Code, e.Operation, e.Msg)
}

// Unwrap returns the underlying error.
func (e *FlightError) Unwrap() error {
	return e.Err
}

// New creates a new FlightError with the specified code, operation, message, and underlying error.
func New(code ErrorCode, op, msg string, err error) error {
	return &FlightError{
		Code:      code,
		Msg:       msg,
		Operation: op,
		Err:       err,
	}
}

// Is reports whether any FlightError in err's chain carries code.
func Is(err error, code ErrorCode) bool {
	var fe *FlightError
	for err != nil {
		if !stderrors.As(err, &fe) {
			return false
		}
		if fe.Code == code {
			return true
		}
		err = fe.Err
	}
	return false
}

// Personal.AI order the ending
