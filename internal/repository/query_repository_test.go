package repository

import "testing"

func TestResolveSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		wantCol   string
		wantDir   string
	}{
		{"known column descending", "updated_at", "DESC", "updated_at", "DESC"},
		{"known column ascending", "priority", "asc", "priority", "ASC"},
		{"sender name", "sender_name", "ASC", "sender_name", "ASC"},
		{"unknown column falls back", "bogus_column", "ASC", "created_at", "ASC"},
		{"empty sort falls back", "", "", "created_at", "DESC"},
		{"injection attempt falls back", "created_at; DROP TABLE queries", "", "created_at", "DESC"},
		{"unknown direction defaults to DESC", "status", "sideways", "status", "DESC"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			col, dir := resolveSort(tt.sortBy, tt.sortOrder)
			if col != tt.wantCol || dir != tt.wantDir {
				t.Errorf("resolveSort(%q, %q) = (%q, %q), want (%q, %q)",
					tt.sortBy, tt.sortOrder, col, dir, tt.wantCol, tt.wantDir)
			}
		})
	}
}
