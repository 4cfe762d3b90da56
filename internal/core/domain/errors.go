package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfFollow         = errors.New("users cannot follow themselves")
	ErrAlreadyFollowing   = errors.New("already following user")
	ErrNotFollowing       = errors.New("not following user")
	ErrForbidden          = errors.New("access forbidden")

	// ErrIntegrity matches every *IntegrityError through errors.Is.
	ErrIntegrity = errors.New("integrity violation")
)

// ViolationKind names the constraint a write broke.
type ViolationKind string

const (
	ViolationUnique     ViolationKind = "unique"
	ViolationNotNull    ViolationKind = "not_null"
	ViolationForeignKey ViolationKind = "foreign_key"
	ViolationCheck      ViolationKind = "check"
)

// IntegrityError is returned by a store when a write breaks a constraint it
// enforces. Entity is the singular entity name ("user", "message", "follow")
// and Field the offending column(s) or constraint name, when known.
type IntegrityError struct {
	Kind   ViolationKind
	Entity string
	Field  string
	Err    error
}

func (e *IntegrityError) Error() string {
	target := e.Entity
	if e.Field != "" {
		target += "." + e.Field
	}
	if target == "" {
		return fmt.Sprintf("%s violation", e.Kind)
	}
	return fmt.Sprintf("%s violation on %s", e.Kind, target)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

// AsIntegrity unwraps err into an *IntegrityError when it is one.
func AsIntegrity(err error) (*IntegrityError, bool) {
	var ie *IntegrityError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// IsViolation reports whether err is an integrity violation of the given kind.
func IsViolation(err error, kind ViolationKind) bool {
	ie, ok := AsIntegrity(err)
	return ok && ie.Kind == kind
}
