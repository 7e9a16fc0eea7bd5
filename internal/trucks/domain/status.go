package domain

import "strings"

// StatusKind tags the permit states the service understands. Anything else
// seen in permit data is StatusOther and keeps its raw text.
type StatusKind int

const (
	StatusOther StatusKind = iota
	StatusApproved
	StatusRequested
	StatusExpired
)

// Canonical permit status strings.
const (
	Approved  = "APPROVED"
	Requested = "REQUESTED"
	Expired   = "EXPIRED"
)

// Status is a permit status: one of the known kinds or an opaque value.
type Status struct {
	kind StatusKind
	raw  string
}

var (
	StatusApprovedValue  = Status{kind: StatusApproved, raw: Approved}
	StatusRequestedValue = Status{kind: StatusRequested, raw: Requested}
	StatusExpiredValue   = Status{kind: StatusExpired, raw: Expired}
)

// ParseStatus normalises permit data. Known statuses are matched
// case-insensitively; unknown ones pass through trimmed but otherwise as-is.
func ParseStatus(s string) Status {
	trimmed := strings.TrimSpace(s)
	switch strings.ToUpper(trimmed) {
	case Approved:
		return StatusApprovedValue
	case Requested:
		return StatusRequestedValue
	case Expired:
		return StatusExpiredValue
	default:
		return Status{kind: StatusOther, raw: trimmed}
	}
}

// LookupFilterStatus resolves a query filter. Filters are exact and
// case-sensitive against the closed set, so "approved" is not a filter.
func LookupFilterStatus(s string) (Status, bool) {
	switch s {
	case Approved:
		return StatusApprovedValue, true
	case Requested:
		return StatusRequestedValue, true
	case Expired:
		return StatusExpiredValue, true
	default:
		return Status{}, false
	}
}

// Kind returns the tagged kind.
func (s Status) Kind() StatusKind { return s.kind }

// String returns the wire value.
func (s Status) String() string { return s.raw }

// IsApproved reports whether the permit is currently approved.
func (s Status) IsApproved() bool { return s.kind == StatusApproved }

// Equal compares by wire value, which is exact for known kinds.
func (s Status) Equal(o Status) bool { return s.raw == o.raw }
