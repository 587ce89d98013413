package app

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an intent was rejected. Every rejection is
// local and recoverable: validation precedes mutation, so a rejected
// intent never changes shared state.
type ErrorKind string

const (
	// KindValidation marks a malformed or out-of-range intent payload.
	KindValidation ErrorKind = "validation"
	// KindAuthorization marks a player acting out of turn or on someone
	// else's resource.
	KindAuthorization ErrorKind = "authorization"
	// KindStateConflict marks an intent incompatible with the current
	// phase.
	KindStateConflict ErrorKind = "state_conflict"
	// KindResourceExhausted marks insufficient influence or tokens.
	KindResourceExhausted ErrorKind = "resource_exhausted"
)

// Code returns the numeric code carried on the wire for the kind.
func (k ErrorKind) Code() int {
	switch k {
	case KindValidation:
		return 400
	case KindAuthorization:
		return 403
	case KindStateConflict:
		return 409
	case KindResourceExhausted:
		return 422
	}
	return 500
}

// RuleError is a typed intent rejection.
type RuleError struct {
	Kind ErrorKind
	msg  string
}

func (e *RuleError) Error() string { return e.msg }

// NewRuleError builds a typed rejection; the ports layer uses it for
// transport-level checks that happen before a use-case runs.
func NewRuleError(kind ErrorKind, msg string) *RuleError {
	return &RuleError{Kind: kind, msg: msg}
}

func validationErr(format string, args ...interface{}) *RuleError {
	return &RuleError{Kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

func authorizationErr(format string, args ...interface{}) *RuleError {
	return &RuleError{Kind: KindAuthorization, msg: fmt.Sprintf(format, args...)}
}

func stateConflictErr(format string, args ...interface{}) *RuleError {
	return &RuleError{Kind: KindStateConflict, msg: fmt.Sprintf(format, args...)}
}

func resourceErr(format string, args ...interface{}) *RuleError {
	return &RuleError{Kind: KindResourceExhausted, msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind from a rejection, defaulting to
// validation for untyped errors.
func KindOf(err error) ErrorKind {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindValidation
}

var (
	// ErrNotYourTurn rejects a roll or selection from a non-active player.
	ErrNotYourTurn = authorizationErr("not your turn")
	// ErrGameHalted rejects any intent after an internal inconsistency
	// froze the session.
	ErrGameHalted = stateConflictErr("session halted after internal inconsistency")
)
