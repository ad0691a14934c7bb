package pattern

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by Error.
var (
	ErrEmptySignature   = errors.New("blank driver signature")
	ErrLeadingWildcard  = errors.New("driver signature cannot begin with wildcard")
	ErrTrailingWildcard = errors.New("driver signature cannot end with wildcard")
	ErrSignatureTooLong = errors.New("driver signature too long")
	ErrNoDriver         = errors.New("driver signature with no name")
	ErrSyntax           = errors.New("invalid signature token")
	ErrUnterminated     = errors.New("new driver name without ending signature")
)

// Error is a signature compile failure attributed to a driver.
type Error struct {
	Driver string
	Token  string // offending token, if any
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Driver == "":
		return e.Err.Error()
	case e.Token != "":
		return fmt.Sprintf("%v %q in %s", e.Err, e.Token, e.Driver)
	default:
		return fmt.Sprintf("%v in %s", e.Err, e.Driver)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
