package events

import (
	"time"

	"github.com/spec-kit/query-triage/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventQueryCreated         EventType = "query_created"
	EventQueryStatusChanged   EventType = "query_status_changed"
	EventQueryAssigned        EventType = "query_assigned"
	EventQueryPriorityChanged EventType = "query_priority_changed"
	EventQueriesBulkUpdated   EventType = "queries_bulk_updated"
	EventQueryDeleted         EventType = "query_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	QueryID   string      `json:"query_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// QueryCreatedPayload payload.
type QueryCreatedPayload struct {
	Channel    domain.QueryChannel  `json:"channel"`
	Tags       []string             `json:"tags"`
	Priority   domain.QueryPriority `json:"priority"`
	AssignedTo *string              `json:"assigned_to,omitempty"`
}

// QueryStatusChangedPayload payload.
type QueryStatusChangedPayload struct {
	OldStatus domain.QueryStatus `json:"old_status"`
	NewStatus domain.QueryStatus `json:"new_status"`
}

// QueryAssignedPayload payload.
type QueryAssignedPayload struct {
	OldAssignee *string `json:"old_assignee,omitempty"`
	AssignedTo  string  `json:"assigned_to"`
}

// QueryPriorityChangedPayload payload.
type QueryPriorityChangedPayload struct {
	OldPriority domain.QueryPriority `json:"old_priority"`
	NewPriority domain.QueryPriority `json:"new_priority"`
}

// QueriesBulkUpdatedPayload payload.
type QueriesBulkUpdatedPayload struct {
	Action   string `json:"action"`
	Affected int64  `json:"affected"`
}
