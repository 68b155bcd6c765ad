package domain

import "time"

// Assignment is an immutable audit record of a routing decision. One row is
// appended per assignment change, including the initial automatic routing.
type Assignment struct {
	ID         string
	QueryID    string
	AssignedTo string
	AssignedBy *string
	AssignedAt time.Time
}

// StatusChange is an immutable audit record of a lifecycle transition.
// OldStatus is nil for the initial "new" entry written at creation.
type StatusChange struct {
	ID        string
	QueryID   string
	OldStatus *QueryStatus
	NewStatus QueryStatus
	ChangedBy *string
	ChangedAt time.Time
	Notes     *string
}
