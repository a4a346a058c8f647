package input

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/venuegrid/internal/dateutil"
)

func TestParseJump(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)    // Monday
	current := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC) // Friday

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr error
	}{
		{name: "iso date", input: "2025-04-01", want: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		{name: "today uses now", input: "today", want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{name: "plus offset from current", input: "+3", want: time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)},
		{name: "minus offset", input: "-14", want: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{name: "next weekday", input: "tue", want: time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)},
		{name: "same weekday is a week ahead", input: "Friday", want: time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC)},
		{name: "blank", input: "  ", wantErr: ErrEmptyInput},
		{name: "bad offset", input: "+x", wantErr: dateutil.ErrInvalidDateFormat},
		{name: "garbage", input: "soon", wantErr: dateutil.ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJump(tt.input, current, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseJump(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPromptMatchingCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty lists all", input: "", want: len(JumpSuggestions)},
		{name: "prefix", input: "to", want: 2},
		{name: "full", input: "tomorrow", want: 1},
		{name: "none", input: "x", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PromptMatchingCommands(tt.input, JumpSuggestions)
			if len(got) != tt.want {
				t.Fatalf("matches = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestPromptAutocomplete(t *testing.T) {
	value, ok := PromptAutocomplete("tom", JumpSuggestions)
	if !ok {
		t.Fatal("expected a match")
	}
	if value != "tomorrow" {
		t.Fatalf("value = %q, want %q", value, "tomorrow")
	}

	if _, ok := PromptAutocomplete("", JumpSuggestions); ok {
		t.Fatal("expected no autocomplete for empty input")
	}
}
