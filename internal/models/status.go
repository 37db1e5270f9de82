package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatus is returned whenever a value outside the six complaint
// statuses is parsed, scanned from the database or written to it.
var ErrUnknownStatus = errors.New("models: unknown complaint status")

// Status is the lifecycle state of a Complaint. The set is closed.
type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusAssigned    Status = "assigned"
	StatusInProgress  Status = "in_progress"
	StatusResolved    Status = "resolved"
	StatusClosed      Status = "closed"
)

// AllStatuses returns every status in canonical display order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusUnderReview,
		StatusAssigned,
		StatusInProgress,
		StatusResolved,
		StatusClosed,
	}
}

// ParseStatus converts s (case-insensitive) into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// Valid reports whether s is one of the six known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Closed reports whether the complaint no longer needs work.
func (s Status) Closed() bool {
	return s == StatusResolved || s == StatusClosed
}

// Label is the human-readable form, e.g. "under review".
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

func (s Status) String() string { return string(s) }

// UnmarshalText lets JSON bodies and query binding reject unknown statuses.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value implements driver.Valuer.
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
	}
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *Status) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrUnknownStatus, src)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
