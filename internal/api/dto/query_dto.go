package dto

import (
	"time"

	"github.com/spec-kit/query-triage/internal/domain"
)

// CreateQueryRequest payload.
type CreateQueryRequest struct {
	Channel     domain.QueryChannel `json:"channel"`
	SenderName  string              `json:"sender_name"`
	SenderEmail *string             `json:"sender_email"`
	Subject     *string             `json:"subject"`
	Content     string              `json:"content"`
}

// UpdateQueryRequest payload; absent fields are left untouched.
type UpdateQueryRequest struct {
	Status     *domain.QueryStatus   `json:"status"`
	Priority   *domain.QueryPriority `json:"priority"`
	AssignedTo *string               `json:"assigned_to"`
	Tags       []string              `json:"tags"`
}

// BulkRequest payload.
type BulkRequest struct {
	Action     string              `json:"action"`
	QueryIDs   []string            `json:"query_ids"`
	AssignedTo *string             `json:"assigned_to"`
	Status     *domain.QueryStatus `json:"status"`
}

// QueryResponse is the standard query representation.
type QueryResponse struct {
	ID           string               `json:"id"`
	Channel      domain.QueryChannel  `json:"channel"`
	SenderName   string               `json:"sender_name"`
	SenderEmail  *string              `json:"sender_email"`
	Subject      *string              `json:"subject"`
	Content      string               `json:"content"`
	Tags         []string             `json:"tags"`
	Priority     domain.QueryPriority `json:"priority"`
	Status       domain.QueryStatus   `json:"status"`
	AssignedTo   *string              `json:"assigned_to"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	ResolvedAt   *time.Time           `json:"resolved_at"`
	ResponseTime *int64               `json:"response_time"`
}

// QueryDetailResponse adds the full histories, newest-first.
type QueryDetailResponse struct {
	QueryResponse
	Assignments   []AssignmentResponse   `json:"assignments"`
	StatusHistory []StatusChangeResponse `json:"status_history"`
}

// AssignmentResponse is an assignment history entry.
type AssignmentResponse struct {
	ID         string    `json:"id"`
	QueryID    string    `json:"query_id"`
	AssignedTo string    `json:"assigned_to"`
	AssignedAt time.Time `json:"assigned_at"`
}

// StatusChangeResponse is a status history entry.
type StatusChangeResponse struct {
	ID        string              `json:"id"`
	QueryID   string              `json:"query_id"`
	OldStatus *domain.QueryStatus `json:"old_status"`
	NewStatus domain.QueryStatus  `json:"new_status"`
	ChangedAt time.Time           `json:"changed_at"`
	Notes     *string             `json:"notes,omitempty"`
}

// TeamResponse is a handling-team directory entry.
type TeamResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BulkResponse reports how many rows a bulk operation touched.
type BulkResponse struct {
	Affected int64 `json:"affected"`
}
