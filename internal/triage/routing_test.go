package triage

import (
	"testing"

	"github.com/spec-kit/query-triage/internal/domain"
)

func TestSuggestAssignment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tags     []Tag
		priority domain.QueryPriority
		want     string
	}{
		{"technical tag", []Tag{TagQuestion, TagTechnical}, domain.QueryPriorityMedium, TeamTechnical},
		{"bug report tag", []Tag{TagBugReport}, domain.QueryPriorityHigh, TeamTechnical},
		{"request tag", []Tag{TagRequest}, domain.QueryPriorityMedium, TeamSales},
		{"refund tag", []Tag{TagRefund}, domain.QueryPriorityLow, TeamSales},
		{"complaint tag", []Tag{TagComplaint}, domain.QueryPriorityMedium, TeamSupport},
		{"high priority without routing tag", []Tag{TagQuestion}, domain.QueryPriorityHigh, TeamSupport},
		{"default fallback", []Tag{TagCompliment}, domain.QueryPriorityLow, TeamSupport},
		// Rule order: bug_report routes technical even when the query is
		// also high priority or a complaint.
		{"bug report beats priority rule", []Tag{TagComplaint, TagBugReport}, domain.QueryPriorityHigh, TeamTechnical},
		{"refund beats complaint", []Tag{TagComplaint, TagRefund}, domain.QueryPriorityMedium, TeamSales},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SuggestAssignment(tt.tags, tt.priority)
			if got != tt.want {
				t.Errorf("SuggestAssignment(%v, %q) = %q, want %q", tt.tags, tt.priority, got, tt.want)
			}
		})
	}
}

func TestSuggestAssignmentIsPure(t *testing.T) {
	t.Parallel()

	tags := []Tag{TagQuestion, TagTechnical}
	first := SuggestAssignment(tags, domain.QueryPriorityMedium)
	for i := 0; i < 10; i++ {
		if got := SuggestAssignment(tags, domain.QueryPriorityMedium); got != first {
			t.Fatalf("run %d: SuggestAssignment = %q, want %q", i, got, first)
		}
	}
}
