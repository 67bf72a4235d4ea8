package models

import "fmt"

// Status is the tagged view of a SessionState.
type Status int

const (
	StatusInitializing Status = iota
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// SessionState is the process-wide authentication state.
type SessionState struct {
	User    *UserProfile
	Loading bool
}

// InitialSessionState is the state before the stored token has been checked.
func InitialSessionState() SessionState {
	return SessionState{Loading: true}
}

func (s SessionState) Status() Status {
	switch {
	case s.Loading:
		return StatusInitializing
	case s.User != nil:
		return StatusAuthenticated
	default:
		return StatusAnonymous
	}
}

// Authenticated is shorthand for Status() == StatusAuthenticated.
func (s SessionState) Authenticated() bool {
	return s.Status() == StatusAuthenticated
}

// Equal compares states by value, including the profile contents.
func (s SessionState) Equal(o SessionState) bool {
	if s.Loading != o.Loading {
		return false
	}
	if s.User == nil || o.User == nil {
		return s.User == o.User
	}
	return *s.User == *o.User
}

// VerificationOutcome is the result of checking a stored token at startup.
type VerificationOutcome int

const (
	OutcomeNoToken VerificationOutcome = iota
	OutcomeValid
	OutcomeInvalid
)

func (o VerificationOutcome) String() string {
	switch o {
	case OutcomeNoToken:
		return "no_token"
	case OutcomeValid:
		return "valid"
	case OutcomeInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Verification carries the outcome plus the profile (Valid) or the reason
// the token was rejected (Invalid).
type Verification struct {
	Outcome VerificationOutcome
	Profile *UserProfile
	Err     error
}
