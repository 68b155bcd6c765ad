package triage

import (
	"reflect"
	"testing"
)

func TestDetectTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		subject string
		want    []Tag
	}{
		{
			name:    "bug report with urgency",
			content: "This is URGENT!! My app is broken",
			want:    []Tag{TagBugReport},
		},
		{
			name:    "compliment",
			content: "Thank you for the great service, you guys are amazing",
			want:    []Tag{TagCompliment},
		},
		{
			name:    "technical question",
			content: "How do I integrate your API?",
			want:    []Tag{TagQuestion, TagTechnical},
		},
		{
			name:    "refund request",
			content: "I would like a refund for my last order",
			want:    []Tag{TagRequest, TagRefund},
		},
		{
			name:    "no keyword falls back to question",
			content: "zzz",
			want:    []Tag{TagQuestion},
		},
		{
			name:    "subject contributes to matching",
			content: "see title",
			subject: "Dashboard crash",
			want:    []Tag{TagBugReport},
		},
		{
			name:    "substring match inside unrelated word",
			content: "showtime tickets",
			want:    []Tag{TagQuestion}, // "how" inside "showtime"
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DetectTags(tt.content, tt.subject)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectTags(%q, %q) = %v, want %v", tt.content, tt.subject, got, tt.want)
			}
		})
	}
}

func TestDetectTagsNeverEmpty(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"", " ", "xyzzy", "12345"} {
		if got := DetectTags(content, ""); len(got) == 0 {
			t.Errorf("DetectTags(%q, \"\") returned empty tag set", content)
		}
	}
}

func TestDetectTagsDeterministic(t *testing.T) {
	t.Parallel()

	const content = "I have a problem with the API and I need help, please"
	first := DetectTags(content, "help")
	for i := 0; i < 10; i++ {
		if got := DetectTags(content, "help"); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: DetectTags = %v, want %v", i, got, first)
		}
	}
}
