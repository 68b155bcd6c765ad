package triage

import (
	"regexp"
	"strings"

	"github.com/spec-kit/query-triage/internal/domain"
)

// Urgency signal tables. High rules are evaluated before low rules, so text
// carrying both signals always resolves to high.
var (
	highPriorityKeywords = []string{"urgent", "asap", "immediately", "critical", "emergency", "broken", "down", "not working"}
	lowPriorityKeywords  = []string{"whenever", "no rush", "someday", "maybe"}

	highPriorityTags = []Tag{TagComplaint, TagBugReport}
	lowPriorityTags  = []Tag{TagCompliment, TagFeedback}

	exclamationRun = regexp.MustCompile(`!!+`)
	shoutingRun    = regexp.MustCompile(`[A-Z]{5,}`)
)

// DetectPriority scores text and its detected tags into a priority level.
// Shouting markers (repeated exclamation points, runs of capitals) are read
// from the raw content so casing survives the check.
func DetectPriority(content, subject string, tags []Tag) domain.QueryPriority {
	text := strings.ToLower(content + " " + subject)

	for _, keyword := range highPriorityKeywords {
		if strings.Contains(text, keyword) {
			return domain.QueryPriorityHigh
		}
	}
	for _, tag := range highPriorityTags {
		if hasTag(tags, tag) {
			return domain.QueryPriorityHigh
		}
	}
	if exclamationRun.MatchString(content) || shoutingRun.MatchString(content) {
		return domain.QueryPriorityHigh
	}

	for _, keyword := range lowPriorityKeywords {
		if strings.Contains(text, keyword) {
			return domain.QueryPriorityLow
		}
	}
	for _, tag := range lowPriorityTags {
		if hasTag(tags, tag) {
			return domain.QueryPriorityLow
		}
	}

	return domain.QueryPriorityMedium
}
