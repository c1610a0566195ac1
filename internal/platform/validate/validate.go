// Package validate holds field checks shared across the domain services.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Error marks input rejected by a business rule. Handlers translate it
// to a 400 response; anything else unrecognized is a server fault.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

// Errorf builds a validation Error from a format string.
func Errorf(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// IsError reports whether err is (or wraps) a validation Error.
func IsError(err error) bool {
	var v *Error
	return errors.As(err, &v)
}

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	// Moroccan numbers: 0XXXXXXXXX or +212XXXXXXXXX, mobile and landline prefixes.
	phoneRe = regexp.MustCompile(`^(\+212|0)[5-7][0-9]{8}$`)
	cinRe   = regexp.MustCompile(`^[A-Z]{1,2}[0-9]{3,8}$`)
)

func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Errorf("%s is required", field)
	}
	return nil
}

func Email(value string) error {
	if value == "" {
		return nil
	}
	if !emailRe.MatchString(value) {
		return Errorf("invalid email: %s", value)
	}
	return nil
}

func MoroccanPhone(value string) error {
	if value == "" {
		return nil
	}
	if !phoneRe.MatchString(strings.ReplaceAll(value, " ", "")) {
		return Errorf("invalid phone number: %s", value)
	}
	return nil
}

func CIN(value string) error {
	if !cinRe.MatchString(value) {
		return Errorf("invalid CIN: %s", value)
	}
	return nil
}

func NotInFuture(field string, value time.Time) error {
	if value.After(time.Now()) {
		return Errorf("%s cannot be in the future", field)
	}
	return nil
}

func InFuture(field string, value time.Time) error {
	if !value.After(time.Now()) {
		return Errorf("%s must be in the future", field)
	}
	return nil
}

func NonNegative(field string, value float64) error {
	if value < 0 {
		return Errorf("%s cannot be negative", field)
	}
	return nil
}
