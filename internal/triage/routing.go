package triage

import "github.com/spec-kit/query-triage/internal/domain"

// Well-known team ids seeded by migration.
const (
	TeamSupport   = "team-1"
	TeamSales     = "team-2"
	TeamTechnical = "team-3"
)

// routingRule matches a query's tags/priority against a destination team.
// Rules are evaluated in order; the first match wins.
type routingRule struct {
	tags     []Tag
	priority domain.QueryPriority
	team     string
}

var routingRules = []routingRule{
	{tags: []Tag{TagTechnical, TagBugReport}, team: TeamTechnical},
	{tags: []Tag{TagRequest, TagRefund}, team: TeamSales},
	{tags: []Tag{TagComplaint}, priority: domain.QueryPriorityHigh, team: TeamSupport},
}

// SuggestAssignment routes a classified query to a handling team. Pure
// function of its inputs; the fallback destination is the support team.
func SuggestAssignment(tags []Tag, priority domain.QueryPriority) string {
	for _, rule := range routingRules {
		if rule.priority != "" && priority == rule.priority {
			return rule.team
		}
		for _, tag := range rule.tags {
			if hasTag(tags, tag) {
				return rule.team
			}
		}
	}
	return TeamSupport
}
