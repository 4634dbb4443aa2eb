package api

import "testing"

func TestParseStartingAfter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"5", 5},
		{"123", 123},
		{"abc", 0},
		{"-3", 0},
		{"1x", 0},
	}
	for _, tt := range tests {
		if got := parseStartingAfter(tt.in); got != tt.want {
			t.Fatalf("parseStartingAfter(%q): got %d, want %d", tt.in, got, tt.want)
		}
	}
}
