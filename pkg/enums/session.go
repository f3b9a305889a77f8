package enums

import "fmt"

// SessionStatus maps to the session_status enum on help_sessions.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

var validSessionStatuses = []SessionStatus{
	SessionStatusActive,
	SessionStatusCompleted,
	SessionStatusCancelled,
}

// IsValid reports whether the value matches the canonical session status enum.
func (s SessionStatus) IsValid() bool {
	for _, candidate := range validSessionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the session lifecycle.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}

// ParseSessionStatus converts raw input into SessionStatus.
func ParseSessionStatus(value string) (SessionStatus, error) {
	for _, candidate := range validSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session status %q", value)
}

// SessionCloser records which party finalized a session.
type SessionCloser string

const (
	SessionCloserRequester SessionCloser = "requester"
	SessionCloserHelper    SessionCloser = "helper"
)

var validSessionClosers = []SessionCloser{
	SessionCloserRequester,
	SessionCloserHelper,
}

// IsValid reports whether the value matches the canonical session closer enum.
func (c SessionCloser) IsValid() bool {
	for _, candidate := range validSessionClosers {
		if candidate == c {
			return true
		}
	}
	return false
}
