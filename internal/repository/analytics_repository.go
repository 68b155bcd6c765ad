package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OverviewStats aggregates query volume and latency.
type OverviewStats struct {
	Total           int64            `json:"total"`
	ByStatus        map[string]int64 `json:"by_status"`
	ByPriority      map[string]int64 `json:"by_priority"`
	ByChannel       map[string]int64 `json:"by_channel"`
	AvgResponseTime float64          `json:"avg_response_time"`
}

// ResponseTimeBucket is one day of resolution latency aggregates.
type ResponseTimeBucket struct {
	Date     string  `json:"date"`
	Average  float64 `json:"avg_response_time"`
	Min      int64   `json:"min_response_time"`
	Max      int64   `json:"max_response_time"`
	Resolved int64   `json:"resolved_count"`
}

// ResponseTimeStats summarizes resolution latency in minutes over a window,
// both in aggregate and per day of original creation.
type ResponseTimeStats struct {
	Resolved   int64                `json:"resolved"`
	Average    float64              `json:"average"`
	Min        int64                `json:"min"`
	Max        int64                `json:"max"`
	ByPriority map[string]float64   `json:"by_priority"`
	Daily      []ResponseTimeBucket `json:"daily"`
}

// TrendBucket is a daily query count for one channel/priority combination.
type TrendBucket struct {
	Date     string `json:"date"`
	Channel  string `json:"channel"`
	Priority string `json:"priority"`
	Count    int64  `json:"count"`
}

// TeamPerformance aggregates workload and latency per assigned team.
type TeamPerformance struct {
	TeamID          string  `json:"team_id"`
	TeamName        *string `json:"team_name"`
	Total           int64   `json:"total_queries"`
	Resolved        int64   `json:"resolved_count"`
	AvgResponseTime float64 `json:"avg_response_time"`
}

// AnalyticsRepository computes reporting aggregates over queries.
type AnalyticsRepository interface {
	Overview(ctx context.Context) (*OverviewStats, error)
	TagDistribution(ctx context.Context) (map[string]int64, error)
	ResponseTimes(ctx context.Context, periodDays int) (*ResponseTimeStats, error)
	Trends(ctx context.Context, periodDays int) ([]TrendBucket, error)
	TeamPerformance(ctx context.Context) ([]TeamPerformance, error)
}

type analyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository builds repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) AnalyticsRepository {
	return &analyticsRepository{pool: pool}
}

func (r *analyticsRepository) Overview(ctx context.Context) (*OverviewStats, error) {
	stats := &OverviewStats{
		ByStatus:   map[string]int64{},
		ByPriority: map[string]int64{},
		ByChannel:  map[string]int64{},
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM queries`).Scan(&stats.Total); err != nil {
		return nil, err
	}

	for _, group := range []struct {
		column string
		dest   map[string]int64
	}{
		{"status", stats.ByStatus},
		{"priority", stats.ByPriority},
		{"channel", stats.ByChannel},
	} {
		if err := r.countBy(ctx, group.column, group.dest); err != nil {
			return nil, err
		}
	}

	const avg = `SELECT COALESCE(AVG(response_time), 0) FROM queries WHERE response_time IS NOT NULL`
	if err := r.pool.QueryRow(ctx, avg).Scan(&stats.AvgResponseTime); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *analyticsRepository) countBy(ctx context.Context, column string, dest map[string]int64) error {
	// column comes from a fixed caller-side list, never user input.
	rows, err := r.pool.Query(ctx, `SELECT `+column+`, COUNT(*) FROM queries GROUP BY `+column)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		dest[key] = count
	}
	return rows.Err()
}

func (r *analyticsRepository) TagDistribution(ctx context.Context) (map[string]int64, error) {
	const query = `SELECT tag, COUNT(*) FROM queries, UNNEST(tags) AS tag GROUP BY tag`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string]int64{}
	for rows.Next() {
		var tag string
		var count int64
		if err := rows.Scan(&tag, &count); err != nil {
			return nil, err
		}
		result[tag] = count
	}
	return result, rows.Err()
}

func (r *analyticsRepository) ResponseTimes(ctx context.Context, periodDays int) (*ResponseTimeStats, error) {
	stats := &ResponseTimeStats{ByPriority: map[string]float64{}}

	const summary = `
        SELECT COUNT(*), COALESCE(AVG(response_time), 0), COALESCE(MIN(response_time), 0), COALESCE(MAX(response_time), 0)
        FROM queries
        WHERE response_time IS NOT NULL AND resolved_at >= NOW() - make_interval(days => $1)`
	if err := r.pool.QueryRow(ctx, summary, periodDays).Scan(&stats.Resolved, &stats.Average, &stats.Min, &stats.Max); err != nil {
		return nil, err
	}

	const byPriority = `
        SELECT priority, AVG(response_time)
        FROM queries
        WHERE response_time IS NOT NULL AND resolved_at >= NOW() - make_interval(days => $1)
        GROUP BY priority`
	rows, err := r.pool.Query(ctx, byPriority, periodDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var priority string
		var avg float64
		if err := rows.Scan(&priority, &avg); err != nil {
			return nil, err
		}
		stats.ByPriority[priority] = avg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Buckets group by the day the query was created, matching the basis
	// response_time itself is computed from.
	const daily = `
        SELECT to_char(created_at::date, 'YYYY-MM-DD'),
               AVG(response_time), MIN(response_time), MAX(response_time), COUNT(*)
        FROM queries
        WHERE response_time IS NOT NULL AND resolved_at >= NOW() - make_interval(days => $1)
        GROUP BY created_at::date
        ORDER BY created_at::date DESC`
	dailyRows, err := r.pool.Query(ctx, daily, periodDays)
	if err != nil {
		return nil, err
	}
	defer dailyRows.Close()
	for dailyRows.Next() {
		var bucket ResponseTimeBucket
		if err := dailyRows.Scan(&bucket.Date, &bucket.Average, &bucket.Min, &bucket.Max, &bucket.Resolved); err != nil {
			return nil, err
		}
		stats.Daily = append(stats.Daily, bucket)
	}
	return stats, dailyRows.Err()
}

func (r *analyticsRepository) Trends(ctx context.Context, periodDays int) ([]TrendBucket, error) {
	const query = `
        SELECT to_char(created_at::date, 'YYYY-MM-DD'), channel, priority, COUNT(*)
        FROM queries
        WHERE created_at >= NOW() - make_interval(days => $1)
        GROUP BY created_at::date, channel, priority
        ORDER BY created_at::date DESC`
	rows, err := r.pool.Query(ctx, query, periodDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TrendBucket
	for rows.Next() {
		var bucket TrendBucket
		if err := rows.Scan(&bucket.Date, &bucket.Channel, &bucket.Priority, &bucket.Count); err != nil {
			return nil, err
		}
		result = append(result, bucket)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) TeamPerformance(ctx context.Context) ([]TeamPerformance, error) {
	const query = `
        SELECT q.assigned_to, t.name,
               COUNT(*),
               COUNT(*) FILTER (WHERE q.status = 'resolved'),
               COALESCE(AVG(q.response_time), 0)
        FROM queries q
        LEFT JOIN teams t ON q.assigned_to = t.id
        WHERE q.assigned_to IS NOT NULL
        GROUP BY q.assigned_to, t.name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TeamPerformance
	for rows.Next() {
		var perf TeamPerformance
		if err := rows.Scan(&perf.TeamID, &perf.TeamName, &perf.Total, &perf.Resolved, &perf.AvgResponseTime); err != nil {
			return nil, err
		}
		result = append(result, perf)
	}
	return result, rows.Err()
}
