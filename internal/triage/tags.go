package triage

import "strings"

// Tag is a category label attached to a query by keyword detection.
type Tag = string

// Closed tag vocabulary.
const (
	TagQuestion       Tag = "question"
	TagRequest        Tag = "request"
	TagComplaint      Tag = "complaint"
	TagCompliment     Tag = "compliment"
	TagFeedback       Tag = "feedback"
	TagBugReport      Tag = "bug_report"
	TagFeatureRequest Tag = "feature_request"
	TagRefund         Tag = "refund"
	TagTechnical      Tag = "technical"
)

// tagRule associates a tag with the phrases that trigger it. Rules are
// evaluated in declaration order; matching is case-insensitive substring
// containment, not word-boundary matching, so short keywords can match
// inside unrelated words. That looseness is intentional.
type tagRule struct {
	tag      Tag
	keywords []string
}

var tagRules = []tagRule{
	{TagQuestion, []string{"question", "how", "what", "why", "when", "where", "can you", "do you", "?"}},
	{TagRequest, []string{"request", "please", "can i", "would like", "need", "want", "order"}},
	{TagComplaint, []string{"complaint", "unhappy", "disappointed", "terrible", "awful", "horrible", "bad", "worst", "angry", "frustrated", "upset"}},
	{TagCompliment, []string{"great", "excellent", "amazing", "love", "thank you", "thanks", "wonderful", "fantastic", "awesome"}},
	{TagFeedback, []string{"feedback", "suggestion", "opinion", "think", "feel"}},
	{TagBugReport, []string{"bug", "error", "broken", "not working", "issue", "problem", "crash", "glitch"}},
	{TagFeatureRequest, []string{"feature", "add", "implement", "would be nice", "could you add"}},
	{TagRefund, []string{"refund", "return", "money back", "cancel", "reimbursement"}},
	{TagTechnical, []string{"technical", "api", "integration", "code", "developer", "technical support"}},
}

// DetectTags classifies free text into a set of category tags. The result is
// never empty: if no keyword matches, the default "question" tag is returned.
func DetectTags(content, subject string) []Tag {
	text := strings.ToLower(content + " " + subject)

	var detected []Tag
	for _, rule := range tagRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				detected = append(detected, rule.tag)
				break
			}
		}
	}

	if len(detected) == 0 {
		detected = append(detected, TagQuestion)
	}
	return detected
}

func hasTag(tags []Tag, tag Tag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
