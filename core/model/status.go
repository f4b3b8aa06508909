package model

import "fmt"

// StatusKind enumerates the reconciliation states of a device record.
type StatusKind int

const (
	// StatusPending is the state of a freshly loaded record.
	StatusPending StatusKind = iota
	// StatusSynchronized means the target holds the desired tag for the id.
	StatusSynchronized
	// StatusNew means the id is absent from the target.
	StatusNew
	// StatusMismatched means the target holds a different tag for the id.
	StatusMismatched
	// StatusToDelete marks a record whose id must be removed from the target.
	StatusToDelete
)

func (k StatusKind) String() string {
	switch k {
	case StatusPending:
		return "pending"
	case StatusSynchronized:
		return "synchronized"
	case StatusNew:
		return "new"
	case StatusMismatched:
		return "mismatched"
	case StatusToDelete:
		return "to_delete"
	}
	return "unknown"
}

// Status is a reconciliation state. Observed carries the tag seen in the target
// and is only meaningful for StatusMismatched.
type Status struct {
	Kind     StatusKind `json:"kind"`
	Observed string     `json:"observed,omitempty"`
}

// Pending returns the initial status.
func Pending() Status { return Status{Kind: StatusPending} }

// Synchronized returns the matched status.
func Synchronized() Status { return Status{Kind: StatusSynchronized} }

// New returns the status for an id missing from the target.
func New() Status { return Status{Kind: StatusNew} }

// Mismatched returns the status for an id whose target tag differs.
func Mismatched(observed string) Status {
	return Status{Kind: StatusMismatched, Observed: observed}
}

// ToDelete returns the deletion status.
func ToDelete() Status { return Status{Kind: StatusToDelete} }

// Diverged reports whether the status keeps a category from matching the target.
func (s Status) Diverged() bool {
	switch s.Kind {
	case StatusNew, StatusMismatched, StatusToDelete:
		return true
	}
	return false
}

func (s Status) String() string {
	if s.Kind == StatusMismatched {
		return fmt.Sprintf("%s(%s)", s.Kind, s.Observed)
	}
	return s.Kind.String()
}

// MarshalText renders the status for JSON and YAML output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
