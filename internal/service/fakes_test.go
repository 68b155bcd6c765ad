package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/query-triage/internal/domain"
	"github.com/spec-kit/query-triage/internal/repository"
)

// fakeStore backs all repository interfaces with in-memory state so service
// tests can exercise the diff-and-append logic without a database.
type fakeStore struct {
	mu            sync.Mutex
	now           func() time.Time
	queries       map[string]*domain.Query
	statusChanges []domain.StatusChange
	assignments   []domain.Assignment
	teams         []domain.Team
}

func newFakeStore(now func() time.Time) *fakeStore {
	if now == nil {
		now = time.Now
	}
	return &fakeStore{
		now:     now,
		queries: make(map[string]*domain.Query),
		teams: []domain.Team{
			{ID: "team-1", Name: "Support Team", Email: "support@company.com"},
			{ID: "team-2", Name: "Sales Team", Email: "sales@company.com"},
			{ID: "team-3", Name: "Technical Team", Email: "tech@company.com"},
		},
	}
}

func (f *fakeStore) Create(_ context.Context, query *domain.Query, initial repository.HistoryAppends) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := cloneQuery(query)
	cp.CreatedAt = f.now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	f.queries[query.ID] = cp
	f.statusChanges = append(f.statusChanges, initial.StatusChanges...)
	f.assignments = append(f.assignments, initial.Assignments...)
	query.CreatedAt = cp.CreatedAt
	query.UpdatedAt = cp.UpdatedAt
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*domain.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	query, ok := f.queries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneQuery(query), nil
}

// List mirrors the repository contract: equality filters, tag membership,
// case-insensitive substring search over content/subject/sender_name, and a
// sort whitelist that falls back to created_at DESC.
func (f *fakeStore) List(_ context.Context, filter repository.QueryFilter) ([]domain.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Query
	for _, query := range f.queries {
		if filter.Status != nil && query.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && query.Priority != *filter.Priority {
			continue
		}
		if filter.Channel != nil && query.Channel != *filter.Channel {
			continue
		}
		if filter.AssignedTo != nil {
			if query.AssignedTo == nil || *query.AssignedTo != *filter.AssignedTo {
				continue
			}
		}
		if filter.Tag != nil && *filter.Tag != "" && !hasTagValue(query.Tags, *filter.Tag) {
			continue
		}
		if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
			if !matchesSearch(query, *filter.SearchTerm) {
				continue
			}
		}
		result = append(result, *cloneQuery(query))
	}
	sortQueries(result, filter.SortBy, filter.SortOrder)
	return result, nil
}

func hasTagValue(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func matchesSearch(query *domain.Query, term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if strings.Contains(strings.ToLower(query.Content), needle) {
		return true
	}
	if query.Subject != nil && strings.Contains(strings.ToLower(*query.Subject), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(query.SenderName), needle)
}

func sortQueries(result []domain.Query, sortBy, sortOrder string) {
	asc := strings.EqualFold(sortOrder, "ASC")
	key := func(q domain.Query) string {
		switch sortBy {
		case "updated_at":
			return q.UpdatedAt.Format(time.RFC3339Nano)
		case "priority":
			return string(q.Priority)
		case "status":
			return string(q.Status)
		case "sender_name":
			return q.SenderName
		case "created_at":
		default:
			// unknown keys fall back to created_at
		}
		return q.CreatedAt.Format(time.RFC3339Nano)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if asc {
			return key(result[i]) < key(result[j])
		}
		return key(result[i]) > key(result[j])
	})
}

func (f *fakeStore) Mutate(_ context.Context, id string, fn repository.MutateFunc) (*domain.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	query, ok := f.queries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	changes, history, err := fn(cloneQuery(query))
	if err != nil {
		return nil, err
	}

	if changes.Status != nil {
		query.Status = *changes.Status
	}
	if changes.Priority != nil {
		query.Priority = *changes.Priority
	}
	if changes.AssignedTo != nil {
		assignedTo := *changes.AssignedTo
		query.AssignedTo = &assignedTo
	}
	if changes.Tags != nil {
		query.Tags = append([]string(nil), changes.Tags...)
	}
	if changes.ResolvedAt != nil {
		resolvedAt := *changes.ResolvedAt
		query.ResolvedAt = &resolvedAt
	}
	if changes.ResponseTime != nil {
		responseTime := *changes.ResponseTime
		query.ResponseTime = &responseTime
	}
	if changes.UpdatedAt != nil {
		query.UpdatedAt = *changes.UpdatedAt
	} else {
		query.UpdatedAt = f.now().UTC()
	}

	f.statusChanges = append(f.statusChanges, history.StatusChanges...)
	f.assignments = append(f.assignments, history.Assignments...)
	return cloneQuery(query), nil
}

func (f *fakeStore) BulkAssign(_ context.Context, ids []string, assignedTo string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var affected int64
	for _, id := range ids {
		if query, ok := f.queries[id]; ok {
			value := assignedTo
			query.AssignedTo = &value
			affected++
		}
	}
	return affected, nil
}

func (f *fakeStore) BulkSetStatus(_ context.Context, ids []string, status domain.QueryStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var affected int64
	for _, id := range ids {
		if query, ok := f.queries[id]; ok {
			query.Status = status
			affected++
		}
	}
	return affected, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.queries[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.queries, id)
	remainingStatus := f.statusChanges[:0]
	for _, change := range f.statusChanges {
		if change.QueryID != id {
			remainingStatus = append(remainingStatus, change)
		}
	}
	f.statusChanges = remainingStatus
	remainingAssignments := f.assignments[:0]
	for _, assignment := range f.assignments {
		if assignment.QueryID != id {
			remainingAssignments = append(remainingAssignments, assignment)
		}
	}
	f.assignments = remainingAssignments
	return nil
}

// ListByQuery on the fake mirrors the repository contract: newest-first.
func (f *fakeStore) statusHistoryRepo() repository.StatusHistoryRepository {
	return fakeStatusHistory{f}
}

func (f *fakeStore) assignmentRepo() repository.AssignmentRepository {
	return fakeAssignments{f}
}

func (f *fakeStore) teamRepo() repository.TeamRepository {
	return fakeTeams{f}
}

type fakeStatusHistory struct{ store *fakeStore }

func (r fakeStatusHistory) ListByQuery(_ context.Context, queryID string) ([]domain.StatusChange, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.StatusChange
	for i := len(r.store.statusChanges) - 1; i >= 0; i-- {
		if r.store.statusChanges[i].QueryID == queryID {
			result = append(result, r.store.statusChanges[i])
		}
	}
	return result, nil
}

type fakeAssignments struct{ store *fakeStore }

func (r fakeAssignments) ListByQuery(_ context.Context, queryID string) ([]domain.Assignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Assignment
	for i := len(r.store.assignments) - 1; i >= 0; i-- {
		if r.store.assignments[i].QueryID == queryID {
			result = append(result, r.store.assignments[i])
		}
	}
	return result, nil
}

type fakeTeams struct{ store *fakeStore }

func (r fakeTeams) GetByID(_ context.Context, id string) (*domain.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, team := range r.store.teams {
		if team.ID == id {
			cp := team
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r fakeTeams) List(_ context.Context) ([]domain.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]domain.Team(nil), r.store.teams...), nil
}

func cloneQuery(query *domain.Query) *domain.Query {
	cp := *query
	cp.Tags = append([]string(nil), query.Tags...)
	if query.SenderEmail != nil {
		v := *query.SenderEmail
		cp.SenderEmail = &v
	}
	if query.Subject != nil {
		v := *query.Subject
		cp.Subject = &v
	}
	if query.AssignedTo != nil {
		v := *query.AssignedTo
		cp.AssignedTo = &v
	}
	if query.ResolvedAt != nil {
		v := *query.ResolvedAt
		cp.ResolvedAt = &v
	}
	if query.ResponseTime != nil {
		v := *query.ResponseTime
		cp.ResponseTime = &v
	}
	return &cp
}
