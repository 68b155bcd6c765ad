package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/query-triage/internal/domain"
	"github.com/spec-kit/query-triage/internal/events"
	"github.com/spec-kit/query-triage/internal/repository"
	"github.com/spec-kit/query-triage/internal/triage"
	apperrors "github.com/spec-kit/query-triage/pkg/util/errorutil"
)

// Bulk actions accepted by BulkApply.
const (
	BulkActionAssign       = "assign"
	BulkActionUpdateStatus = "update_status"
)

// QueryService coordinates query triage and lifecycle tracking. It owns the
// diff-and-append semantics: every observed change to status or assignment
// produces exactly one immutable history record.
type QueryService struct {
	queries       repository.QueryRepository
	assignments   repository.AssignmentRepository
	statusHistory repository.StatusHistoryRepository
	teams         repository.TeamRepository
	dispatcher    events.Dispatcher
	now           func() time.Time
}

// QueryDependencies bundles repositories for query service.
type QueryDependencies struct {
	QueryRepo         repository.QueryRepository
	AssignmentRepo    repository.AssignmentRepository
	StatusHistoryRepo repository.StatusHistoryRepository
	TeamRepo          repository.TeamRepository
	Dispatcher        events.Dispatcher

	// Now overrides the wall clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// QueryCreateInput describes query creation payload.
type QueryCreateInput struct {
	Channel     domain.QueryChannel
	SenderName  string
	SenderEmail *string
	Subject     *string
	Content     string
}

// QueryUpdateInput describes a partial update. Nil fields are not touched.
type QueryUpdateInput struct {
	Status     *domain.QueryStatus
	Priority   *domain.QueryPriority
	AssignedTo *string
	Tags       []string
}

// IsEmpty reports whether no field was provided.
func (i QueryUpdateInput) IsEmpty() bool {
	return i.Status == nil && i.Priority == nil && i.AssignedTo == nil && i.Tags == nil
}

// BulkInput describes a bulk operation payload.
type BulkInput struct {
	Action     string
	IDs        []string
	AssignedTo *string
	Status     *domain.QueryStatus
}

// QueryListFilter describes listing filters.
type QueryListFilter struct {
	Status     *domain.QueryStatus
	Priority   *domain.QueryPriority
	Channel    *domain.QueryChannel
	AssignedTo *string
	Tag        *string
	SearchTerm *string
	SortBy     string
	SortOrder  string
}

// QueryDetail is a query plus its full history, newest-first.
type QueryDetail struct {
	Query         *domain.Query
	Assignments   []domain.Assignment
	StatusHistory []domain.StatusChange
}

// NewQueryService constructs the service.
func NewQueryService(deps QueryDependencies) *QueryService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &QueryService{
		queries:       deps.QueryRepo,
		assignments:   deps.AssignmentRepo,
		statusHistory: deps.StatusHistoryRepo,
		teams:         deps.TeamRepo,
		dispatcher:    deps.Dispatcher,
		now:           now,
	}
}

// Create triages an inbound message and persists it. The classifier, scorer
// and router run in sequence; the stored row starts in status "new" with the
// initial assignment and status history records written alongside it.
func (s *QueryService) Create(ctx context.Context, input QueryCreateInput) (*domain.Query, error) {
	if input.Channel == "" || strings.TrimSpace(input.SenderName) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewValidationError("channel, sender_name and content are required", nil)
	}
	if !input.Channel.Valid() {
		return nil, apperrors.NewValidationError("unknown channel", map[string]any{"channel": string(input.Channel)})
	}

	subject := ""
	if input.Subject != nil {
		subject = *input.Subject
	}
	tags := triage.DetectTags(input.Content, subject)
	priority := triage.DetectPriority(input.Content, subject, tags)
	team := triage.SuggestAssignment(tags, priority)

	now := s.now().UTC()
	query := &domain.Query{
		ID:          uuid.NewString(),
		Channel:     input.Channel,
		SenderName:  input.SenderName,
		SenderEmail: input.SenderEmail,
		Subject:     input.Subject,
		Content:     input.Content,
		Tags:        tags,
		Priority:    priority,
		Status:      domain.QueryStatusNew,
		AssignedTo:  &team,
	}

	initial := repository.HistoryAppends{
		StatusChanges: []domain.StatusChange{{
			ID:        uuid.NewString(),
			QueryID:   query.ID,
			OldStatus: nil,
			NewStatus: domain.QueryStatusNew,
			ChangedAt: now,
		}},
		Assignments: []domain.Assignment{{
			ID:         uuid.NewString(),
			QueryID:    query.ID,
			AssignedTo: team,
			AssignedAt: now,
		}},
	}

	if err := s.queries.Create(ctx, query, initial); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(events.Event{
		Type:    events.EventQueryCreated,
		QueryID: query.ID,
		Payload: events.QueryCreatedPayload{
			Channel:    query.Channel,
			Tags:       query.Tags,
			Priority:   query.Priority,
			AssignedTo: query.AssignedTo,
		},
	})
	return query, nil
}

// Update applies a partial update to a query. The diff against the current
// row and the history appends run in one transaction under a row lock, so
// concurrent updates to the same query cannot duplicate or lose history.
// Re-entering "resolved" recomputes response time from the original
// created_at, not from the latest transition.
func (s *QueryService) Update(ctx context.Context, id string, input QueryUpdateInput) (*domain.Query, error) {
	if input.IsEmpty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(*input.Status)})
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": string(*input.Priority)})
	}

	var statusEvent *events.QueryStatusChangedPayload
	var assignEvent *events.QueryAssignedPayload
	var priorityEvent *events.QueryPriorityChangedPayload

	updated, err := s.queries.Mutate(ctx, id, func(current *domain.Query) (repository.QueryChanges, repository.HistoryAppends, error) {
		now := s.now().UTC()
		var changes repository.QueryChanges
		var history repository.HistoryAppends
		// Stamp the row with the same instant the history and resolution
		// timestamps are derived from.
		changes.UpdatedAt = &now

		if input.Status != nil {
			changes.Status = input.Status
			if *input.Status != current.Status {
				oldStatus := current.Status
				history.StatusChanges = append(history.StatusChanges, domain.StatusChange{
					ID:        uuid.NewString(),
					QueryID:   current.ID,
					OldStatus: &oldStatus,
					NewStatus: *input.Status,
					ChangedAt: now,
				})
				statusEvent = &events.QueryStatusChangedPayload{OldStatus: oldStatus, NewStatus: *input.Status}

				if *input.Status == domain.QueryStatusResolved {
					// Whole minutes since the original creation instant,
					// even when the query was resolved before.
					minutes := int64(now.Sub(current.CreatedAt).Minutes())
					resolvedAt := now
					changes.ResolvedAt = &resolvedAt
					changes.ResponseTime = &minutes
				}
			}
		}

		if input.Priority != nil {
			changes.Priority = input.Priority
			if *input.Priority != current.Priority {
				priorityEvent = &events.QueryPriorityChangedPayload{OldPriority: current.Priority, NewPriority: *input.Priority}
			}
		}

		if input.AssignedTo != nil {
			changes.AssignedTo = input.AssignedTo
			if current.AssignedTo == nil || *current.AssignedTo != *input.AssignedTo {
				history.Assignments = append(history.Assignments, domain.Assignment{
					ID:         uuid.NewString(),
					QueryID:    current.ID,
					AssignedTo: *input.AssignedTo,
					AssignedAt: now,
				})
				assignEvent = &events.QueryAssignedPayload{OldAssignee: current.AssignedTo, AssignedTo: *input.AssignedTo}
			}
		}

		if input.Tags != nil {
			changes.Tags = input.Tags
		}

		return changes, history, nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("query", map[string]any{"query_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if statusEvent != nil {
		s.publish(events.Event{Type: events.EventQueryStatusChanged, QueryID: id, Payload: *statusEvent})
	}
	if assignEvent != nil {
		s.publish(events.Event{Type: events.EventQueryAssigned, QueryID: id, Payload: *assignEvent})
	}
	if priorityEvent != nil {
		s.publish(events.Event{Type: events.EventQueryPriorityChanged, QueryID: id, Payload: *priorityEvent})
	}
	return updated, nil
}

// BulkApply applies one column update across all matching ids. The bulk path
// deliberately writes no history records; that is a scope limitation carried
// over from the single-statement bulk update it replaces.
func (s *QueryService) BulkApply(ctx context.Context, input BulkInput) (int64, error) {
	if len(input.IDs) == 0 {
		return 0, apperrors.NewValidationError("query_ids required", nil)
	}

	var affected int64
	var err error
	switch input.Action {
	case BulkActionAssign:
		if input.AssignedTo == nil || *input.AssignedTo == "" {
			return 0, apperrors.NewValidationError("assigned_to is required for assign action", nil)
		}
		affected, err = s.queries.BulkAssign(ctx, input.IDs, *input.AssignedTo)
	case BulkActionUpdateStatus:
		if input.Status == nil {
			return 0, apperrors.NewValidationError("status is required for update_status action", nil)
		}
		if !input.Status.Valid() {
			return 0, apperrors.NewValidationError("unknown status", map[string]any{"status": string(*input.Status)})
		}
		affected, err = s.queries.BulkSetStatus(ctx, input.IDs, *input.Status)
	default:
		return 0, apperrors.NewValidationError("unknown bulk action", map[string]any{"action": input.Action})
	}
	if err != nil {
		return 0, apperrors.MapError(err)
	}

	s.publish(events.Event{
		Type:    events.EventQueriesBulkUpdated,
		Payload: events.QueriesBulkUpdatedPayload{Action: input.Action, Affected: affected},
	})
	return affected, nil
}

// Get returns a single query without history.
func (s *QueryService) Get(ctx context.Context, id string) (*domain.Query, error) {
	query, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("query", map[string]any{"query_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return query, nil
}

// GetWithHistory returns a query plus its assignment and status histories,
// each ordered newest-first.
func (s *QueryService) GetWithHistory(ctx context.Context, id string) (*QueryDetail, error) {
	query, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListByQuery(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	statusHistory, err := s.statusHistory.ListByQuery(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &QueryDetail{Query: query, Assignments: assignments, StatusHistory: statusHistory}, nil
}

// List returns queries matching the filter.
func (s *QueryService) List(ctx context.Context, filter QueryListFilter) ([]domain.Query, error) {
	result, err := s.queries.List(ctx, repository.QueryFilter{
		Status:     filter.Status,
		Priority:   filter.Priority,
		Channel:    filter.Channel,
		AssignedTo: filter.AssignedTo,
		Tag:        filter.Tag,
		SearchTerm: filter.SearchTerm,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Delete removes a query; its history rows cascade.
func (s *QueryService) Delete(ctx context.Context, id string) error {
	if err := s.queries.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("query", map[string]any{"query_id": id})
		}
		return apperrors.MapError(err)
	}
	s.publish(events.Event{Type: events.EventQueryDeleted, QueryID: id})
	return nil
}

// ListTeams returns the handling-team directory.
func (s *QueryService) ListTeams(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

func (s *QueryService) publish(event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	_ = s.dispatcher.Publish(context.Background(), event)
}
