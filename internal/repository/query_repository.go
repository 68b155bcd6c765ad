package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/query-triage/internal/domain"
)

// QueryFilter captures listing parameters.
type QueryFilter struct {
	Status     *domain.QueryStatus
	Priority   *domain.QueryPriority
	Channel    *domain.QueryChannel
	AssignedTo *string
	Tag        *string
	SearchTerm *string
	SortBy     string
	SortOrder  string
}

// Sortable columns for listing. Unknown sort keys silently fall back to
// created_at rather than erroring.
var sortColumns = map[string]struct{}{
	"created_at":  {},
	"updated_at":  {},
	"priority":    {},
	"status":      {},
	"sender_name": {},
}

const defaultSortColumn = "created_at"

// resolveSort validates the requested sort key and direction. Unknown keys
// fall back to the default column silently; direction defaults to DESC.
func resolveSort(sortBy, sortOrder string) (string, string) {
	if _, ok := sortColumns[sortBy]; !ok {
		sortBy = defaultSortColumn
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "ASC") {
		direction = "ASC"
	}
	return sortBy, direction
}

// QueryChanges stages column updates for a single mutation. Nil fields are
// left untouched. UpdatedAt lets the caller stamp the row with the same
// instant its other timestamps were derived from; when nil the database
// clock is used.
type QueryChanges struct {
	Status       *domain.QueryStatus
	Priority     *domain.QueryPriority
	AssignedTo   *string
	Tags         []string
	ResolvedAt   *time.Time
	ResponseTime *int64
	UpdatedAt    *time.Time
}

// HistoryAppends collects audit rows written in the same transaction as the
// column updates they describe.
type HistoryAppends struct {
	StatusChanges []domain.StatusChange
	Assignments   []domain.Assignment
}

// MutateFunc inspects the current row, held under a row lock for the
// duration of the transaction, and returns the staged changes plus the
// history records the change implies.
type MutateFunc func(current *domain.Query) (QueryChanges, HistoryAppends, error)

// QueryRepository encapsulates query persistence.
type QueryRepository interface {
	Create(ctx context.Context, query *domain.Query, initial HistoryAppends) error
	GetByID(ctx context.Context, id string) (*domain.Query, error)
	List(ctx context.Context, filter QueryFilter) ([]domain.Query, error)
	Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Query, error)
	BulkAssign(ctx context.Context, ids []string, assignedTo string) (int64, error)
	BulkSetStatus(ctx context.Context, ids []string, status domain.QueryStatus) (int64, error)
	Delete(ctx context.Context, id string) error
}

type queryRepository struct {
	pool *pgxpool.Pool
}

// NewQueryRepository instantiates repository.
func NewQueryRepository(pool *pgxpool.Pool) QueryRepository {
	return &queryRepository{pool: pool}
}

const queryColumns = `id, channel, sender_name, sender_email, subject, content,
               tags, priority, status, assigned_to, created_at, updated_at, resolved_at, response_time`

func (r *queryRepository) Create(ctx context.Context, query *domain.Query, initial HistoryAppends) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insert = `
        INSERT INTO queries (id, channel, sender_name, sender_email, subject, content, tags, priority, status, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, insert,
		query.ID,
		query.Channel,
		query.SenderName,
		query.SenderEmail,
		query.Subject,
		query.Content,
		query.Tags,
		query.Priority,
		query.Status,
		query.AssignedTo,
	).Scan(&query.CreatedAt, &query.UpdatedAt); err != nil {
		return err
	}

	if err := appendHistory(ctx, tx, initial); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *queryRepository) GetByID(ctx context.Context, id string) (*domain.Query, error) {
	query := fmt.Sprintf(`SELECT %s FROM queries WHERE id=$1`, queryColumns)
	return scanQuery(r.pool.QueryRow(ctx, query, id))
}

func (r *queryRepository) List(ctx context.Context, filter QueryFilter) ([]domain.Query, error) {
	base := fmt.Sprintf(`SELECT %s FROM queries`, queryColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Channel != nil {
		args = append(args, *filter.Channel)
		clauses = append(clauses, fmt.Sprintf("channel=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.Tag != nil && *filter.Tag != "" {
		args = append(args, *filter.Tag)
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(content) LIKE %s OR LOWER(subject) LIKE %s OR LOWER(sender_name) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	sortColumn, sortOrder := resolveSort(filter.SortBy, filter.SortOrder)

	query := fmt.Sprintf(`%s WHERE %s ORDER BY %s %s`,
		base, strings.Join(clauses, " AND "), sortColumn, sortOrder)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQueries(rows)
}

func (r *queryRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Query, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	locked := fmt.Sprintf(`SELECT %s FROM queries WHERE id=$1 FOR UPDATE`, queryColumns)
	current, err := scanQuery(tx.QueryRow(ctx, locked, id))
	if err != nil {
		return nil, err
	}

	changes, history, err := fn(current)
	if err != nil {
		return nil, err
	}

	sets := []string{}
	args := []any{}
	stage := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if changes.UpdatedAt != nil {
		stage("updated_at", *changes.UpdatedAt)
	} else {
		sets = append(sets, "updated_at=NOW()")
	}
	if changes.Status != nil {
		stage("status", *changes.Status)
	}
	if changes.Priority != nil {
		stage("priority", *changes.Priority)
	}
	if changes.AssignedTo != nil {
		stage("assigned_to", *changes.AssignedTo)
	}
	if changes.Tags != nil {
		stage("tags", changes.Tags)
	}
	if changes.ResolvedAt != nil {
		stage("resolved_at", *changes.ResolvedAt)
	}
	if changes.ResponseTime != nil {
		stage("response_time", *changes.ResponseTime)
	}

	args = append(args, id)
	update := fmt.Sprintf(`UPDATE queries SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))
	if _, err := tx.Exec(ctx, update, args...); err != nil {
		return nil, err
	}

	if err := appendHistory(ctx, tx, history); err != nil {
		return nil, err
	}

	reload := fmt.Sprintf(`SELECT %s FROM queries WHERE id=$1`, queryColumns)
	updated, err := scanQuery(tx.QueryRow(ctx, reload, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *queryRepository) BulkAssign(ctx context.Context, ids []string, assignedTo string) (int64, error) {
	const query = `UPDATE queries SET assigned_to=$1, updated_at=NOW() WHERE id = ANY($2)`
	cmd, err := r.pool.Exec(ctx, query, assignedTo, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *queryRepository) BulkSetStatus(ctx context.Context, ids []string, status domain.QueryStatus) (int64, error) {
	const query = `UPDATE queries SET status=$1, updated_at=NOW() WHERE id = ANY($2)`
	cmd, err := r.pool.Exec(ctx, query, status, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *queryRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM queries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func appendHistory(ctx context.Context, tx pgx.Tx, history HistoryAppends) error {
	for _, change := range history.StatusChanges {
		const insert = `
            INSERT INTO status_history (id, query_id, old_status, new_status, changed_by, changed_at, notes)
            VALUES ($1,$2,$3,$4,$5,$6,$7)`
		if _, err := tx.Exec(ctx, insert,
			change.ID,
			change.QueryID,
			change.OldStatus,
			change.NewStatus,
			change.ChangedBy,
			change.ChangedAt,
			change.Notes,
		); err != nil {
			return err
		}
	}
	for _, assignment := range history.Assignments {
		const insert = `
            INSERT INTO assignments (id, query_id, assigned_to, assigned_by, assigned_at)
            VALUES ($1,$2,$3,$4,$5)`
		if _, err := tx.Exec(ctx, insert,
			assignment.ID,
			assignment.QueryID,
			assignment.AssignedTo,
			assignment.AssignedBy,
			assignment.AssignedAt,
		); err != nil {
			return err
		}
	}
	return nil
}

func scanQuery(row pgx.Row) (*domain.Query, error) {
	var query domain.Query
	if err := row.Scan(
		&query.ID,
		&query.Channel,
		&query.SenderName,
		&query.SenderEmail,
		&query.Subject,
		&query.Content,
		&query.Tags,
		&query.Priority,
		&query.Status,
		&query.AssignedTo,
		&query.CreatedAt,
		&query.UpdatedAt,
		&query.ResolvedAt,
		&query.ResponseTime,
	); err != nil {
		return nil, err
	}
	return &query, nil
}

func scanQueries(rows pgx.Rows) ([]domain.Query, error) {
	var result []domain.Query
	for rows.Next() {
		var query domain.Query
		if err := rows.Scan(
			&query.ID,
			&query.Channel,
			&query.SenderName,
			&query.SenderEmail,
			&query.Subject,
			&query.Content,
			&query.Tags,
			&query.Priority,
			&query.Status,
			&query.AssignedTo,
			&query.CreatedAt,
			&query.UpdatedAt,
			&query.ResolvedAt,
			&query.ResponseTime,
		); err != nil {
			return nil, err
		}
		result = append(result, query)
	}
	return result, rows.Err()
}
