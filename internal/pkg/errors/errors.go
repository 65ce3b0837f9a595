package errors

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrInvalidRoot is returned when the scan root is missing, unreadable or not a directory.
	ErrInvalidRoot = errors.New("invalid scan root")
	// ErrScanInterrupted is returned when a run is cancelled before it completes.
	ErrScanInterrupted = errors.New("scan interrupted")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// New creates a new instance of the base error
func New(msg string) error {
	return fmt.Errorf("%s: %s", msg, filePath())
}

// Wrap creates a new error of the wrapped error
func Wrap(err error, msg string) error {
	return fmt.Errorf("%s %s \ncaused by: %w", msg, filePath(), err)
}

// Is checks if the error is equal to the target
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As returns the wrapped error
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Errorf formats an error and appends the call site. %w verbs are honoured.
func Errorf(format string, args ...interface{}) error {
	args = append(args, filePath())
	return fmt.Errorf(format+` %s`, args...)
}

func filePath() string {
	pc, f, l, ok := runtime.Caller(2)
	fn := `unknown`
	if ok {
		fn = runtime.FuncForPC(pc).Name()
	}
	return fmt.Sprintf("at %s\n\t%s:%d", fn, f, l)
}
