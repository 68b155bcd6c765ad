package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/query-triage/internal/repository"
)

// fakeAnalytics records the window each report was asked for.
type fakeAnalytics struct {
	responseTimePeriod int
	trendPeriod        int
}

func (f *fakeAnalytics) Overview(_ context.Context) (*repository.OverviewStats, error) {
	return &repository.OverviewStats{}, nil
}

func (f *fakeAnalytics) TagDistribution(_ context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (f *fakeAnalytics) ResponseTimes(_ context.Context, periodDays int) (*repository.ResponseTimeStats, error) {
	f.responseTimePeriod = periodDays
	return &repository.ResponseTimeStats{
		Daily: []repository.ResponseTimeBucket{{Date: "2024-05-01", Resolved: 2}},
	}, nil
}

func (f *fakeAnalytics) Trends(_ context.Context, periodDays int) ([]repository.TrendBucket, error) {
	f.trendPeriod = periodDays
	return []repository.TrendBucket{{Date: "2024-05-01", Channel: "email", Priority: "high", Count: 3}}, nil
}

func (f *fakeAnalytics) TeamPerformance(_ context.Context) ([]repository.TeamPerformance, error) {
	return []repository.TeamPerformance{{TeamID: "team-1", Total: 4, Resolved: 2}}, nil
}

func newAnalyticsService(t *testing.T) (*AnalyticsService, *fakeAnalytics) {
	t.Helper()
	fake := &fakeAnalytics{}
	return NewAnalyticsService(fake, nil, zap.NewNop(), 0), fake
}

func TestResponseTimesPeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		period     int
		wantPeriod int
	}{
		{name: "explicit period passes through", period: 14, wantPeriod: 14},
		{name: "zero falls back to default", period: 0, wantPeriod: DefaultResponseTimePeriodDays},
		{name: "negative falls back to default", period: -3, wantPeriod: DefaultResponseTimePeriodDays},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, fake := newAnalyticsService(t)
			stats, err := svc.ResponseTimes(context.Background(), tt.period)
			if err != nil {
				t.Fatalf("ResponseTimes: %v", err)
			}
			if fake.responseTimePeriod != tt.wantPeriod {
				t.Errorf("period = %d, want %d", fake.responseTimePeriod, tt.wantPeriod)
			}
			if len(stats.Daily) != 1 || stats.Daily[0].Date != "2024-05-01" {
				t.Errorf("Daily = %v, want one bucket for 2024-05-01", stats.Daily)
			}
		})
	}
}

func TestTrendsPeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		period     int
		wantPeriod int
	}{
		{name: "explicit period passes through", period: 7, wantPeriod: 7},
		{name: "zero falls back to default", period: 0, wantPeriod: DefaultTrendPeriodDays},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, fake := newAnalyticsService(t)
			buckets, err := svc.Trends(context.Background(), tt.period)
			if err != nil {
				t.Fatalf("Trends: %v", err)
			}
			if fake.trendPeriod != tt.wantPeriod {
				t.Errorf("period = %d, want %d", fake.trendPeriod, tt.wantPeriod)
			}
			if len(buckets) != 1 || buckets[0].Channel != "email" || buckets[0].Count != 3 {
				t.Errorf("buckets = %v, want the email/high bucket", buckets)
			}
		})
	}
}

func TestTeamPerformance(t *testing.T) {
	t.Parallel()

	svc, _ := newAnalyticsService(t)
	result, err := svc.TeamPerformance(context.Background())
	if err != nil {
		t.Fatalf("TeamPerformance: %v", err)
	}
	if len(result) != 1 || result[0].TeamID != "team-1" || result[0].Resolved != 2 {
		t.Errorf("result = %v, want team-1 with 2 resolved", result)
	}
}
