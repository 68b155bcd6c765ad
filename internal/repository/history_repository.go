package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/query-triage/internal/domain"
)

// AssignmentRepository reads assignment history. Appends happen inside the
// query repository's transactions so history rows commit with the column
// updates they describe.
type AssignmentRepository interface {
	ListByQuery(ctx context.Context, queryID string) ([]domain.Assignment, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository builds repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) ListByQuery(ctx context.Context, queryID string) ([]domain.Assignment, error) {
	const query = `
        SELECT id, query_id, assigned_to, assigned_by, assigned_at
        FROM assignments WHERE query_id=$1 ORDER BY assigned_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, queryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Assignment
	for rows.Next() {
		var assignment domain.Assignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.QueryID,
			&assignment.AssignedTo,
			&assignment.AssignedBy,
			&assignment.AssignedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, assignment)
	}
	return result, rows.Err()
}

// StatusHistoryRepository reads lifecycle transition history.
type StatusHistoryRepository interface {
	ListByQuery(ctx context.Context, queryID string) ([]domain.StatusChange, error)
}

type statusHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewStatusHistoryRepository builds repository.
func NewStatusHistoryRepository(pool *pgxpool.Pool) StatusHistoryRepository {
	return &statusHistoryRepository{pool: pool}
}

func (r *statusHistoryRepository) ListByQuery(ctx context.Context, queryID string) ([]domain.StatusChange, error) {
	const query = `
        SELECT id, query_id, old_status, new_status, changed_by, changed_at, notes
        FROM status_history WHERE query_id=$1 ORDER BY changed_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, queryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusChange
	for rows.Next() {
		var change domain.StatusChange
		if err := rows.Scan(
			&change.ID,
			&change.QueryID,
			&change.OldStatus,
			&change.NewStatus,
			&change.ChangedBy,
			&change.ChangedAt,
			&change.Notes,
		); err != nil {
			return nil, err
		}
		result = append(result, change)
	}
	return result, rows.Err()
}
