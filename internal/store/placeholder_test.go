package store

import "testing"

// TestTranslatePlaceholders covers the ?-to-$N rewrite, including
// literals that must be left alone.
func TestTranslatePlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no placeholders",
			input: "SELECT * FROM users",
			want:  "SELECT * FROM users",
		},
		{
			name:  "single placeholder",
			input: "SELECT * FROM users WHERE id = ?",
			want:  "SELECT * FROM users WHERE id = $1",
		},
		{
			name:  "multiple placeholders",
			input: "INSERT INTO settings (user_id, setting_key, setting_value) VALUES (?, ?, ?)",
			want:  "INSERT INTO settings (user_id, setting_key, setting_value) VALUES ($1, $2, $3)",
		},
		{
			name:  "question mark inside string literal",
			input: "SELECT * FROM reports WHERE title = 'why?' AND id = ?",
			want:  "SELECT * FROM reports WHERE title = 'why?' AND id = $1",
		},
		{
			name:  "escaped quote inside literal",
			input: "SELECT * FROM reports WHERE remarks = 'it''s ok?' AND id = ?",
			want:  "SELECT * FROM reports WHERE remarks = 'it''s ok?' AND id = $1",
		},
		{
			name:  "many placeholders keep order",
			input: "UPDATE tasks SET title = ?, status = ? WHERE id = ? AND assigned_to = ?",
			want:  "UPDATE tasks SET title = $1, status = $2 WHERE id = $3 AND assigned_to = $4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translatePlaceholders(tt.input)
			if got != tt.want {
				t.Errorf("translatePlaceholders(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
