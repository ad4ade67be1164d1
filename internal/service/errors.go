package service

import (
	"errors"

	"github.com/ppldoc/superadmin-console/internal/config"
	"github.com/ppldoc/superadmin-console/internal/session"
	"github.com/ppldoc/superadmin-console/internal/validation"
	"github.com/ppldoc/superadmin-console/pkg/hms"
)

// ErrNotImplemented is returned by operations the console declares but the
// backend does not offer yet. No request is sent.
var ErrNotImplemented = errors.New("operation not implemented")

// Notification texts for failures without a server-provided message.
const (
	MsgSessionEnded   = "Your session has ended. Please sign in again."
	MsgRetry          = "Something went wrong, please retry."
	MsgUnreachable    = "Unable to reach the server. Please try again."
	MsgNotImplemented = "This action is not available yet."
	MsgFixFields      = "Please correct the highlighted fields."
)

// ValidationError blocks a submit before any request is made.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Errors.Error()
}

// ConflictError is a recognised business rejection from the backend, such
// as a duplicate email. The session stays valid and the form stays open.
type ConflictError struct {
	Notice string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Notice
}

// Outcome is how the shell reacts to a failed operation.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeUnauthenticated
	OutcomeConflict
	OutcomeTransient
	OutcomeValidation
	OutcomeNotImplemented
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeConflict:
		return "conflict"
	case OutcomeTransient:
		return "transient"
	case OutcomeValidation:
		return "validation"
	case OutcomeNotImplemented:
		return "not_implemented"
	}
	return "unknown"
}

// Classification is the result of Classify.
type Classification struct {
	Outcome Outcome
	Message string
	Fields  validation.Errors
}

// Classify maps an operation error to an outcome. policy decides whether an
// unrecognised backend rejection ends the session (config.FailurePolicyLogout)
// or is reported as retryable.
func Classify(err error, policy string) Classification {
	if err == nil {
		return Classification{Outcome: OutcomeOK}
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return Classification{Outcome: OutcomeValidation, Message: MsgFixFields, Fields: verr.Errors}
	}
	var cerr *ConflictError
	if errors.As(err, &cerr) {
		return Classification{Outcome: OutcomeConflict, Message: cerr.Notice}
	}
	if errors.Is(err, ErrNotImplemented) {
		return Classification{Outcome: OutcomeNotImplemented, Message: MsgNotImplemented}
	}
	if errors.Is(err, hms.ErrUnauthorized) || errors.Is(err, hms.ErrMissingToken) ||
		errors.Is(err, session.ErrNotFound) {
		return Classification{Outcome: OutcomeUnauthenticated, Message: MsgSessionEnded}
	}

	var apiErr *hms.APIError
	if errors.As(err, &apiErr) {
		if policy == config.FailurePolicyTransient {
			return Classification{Outcome: OutcomeTransient, Message: MsgRetry}
		}
		return Classification{Outcome: OutcomeUnauthenticated, Message: MsgSessionEnded}
	}
	return Classification{Outcome: OutcomeTransient, Message: MsgUnreachable}
}
