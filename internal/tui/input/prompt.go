// Package input parses what the user types into the TUI prompt.
package input

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/javiermolinar/venuegrid/internal/dateutil"
)

// ErrEmptyInput is returned for a blank prompt.
var ErrEmptyInput = errors.New("nothing to jump to")

// PromptCommand describes a prompt suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
}

// JumpSuggestions are shown under the date prompt.
var JumpSuggestions = []PromptCommand{
	{Name: "today", Description: "Jump to today"},
	{Name: "tomorrow", Description: "Jump to tomorrow"},
	{Name: "+7", Description: "One week ahead"},
	{Name: "-7", Description: "One week back"},
}

// ParseJump resolves a date prompt relative to current. It accepts
// YYYY-MM-DD, today, tomorrow, yesterday, a weekday name for the next such
// day, and +N/-N day offsets.
func ParseJump(s string, current, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Time{}, ErrEmptyInput
	}

	if s[0] == '+' || s[0] == '-' {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, dateutil.ErrInvalidDateFormat
		}
		return dateutil.TruncateToDay(current).AddDate(0, 0, n), nil
	}

	if wd, ok := weekday(s); ok {
		day := dateutil.TruncateToDay(current)
		ahead := (int(wd) - int(day.Weekday()) + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		return day.AddDate(0, 0, ahead), nil
	}

	return dateutil.ParseDate(s, now)
}

func weekday(s string) (time.Weekday, bool) {
	if len(s) < 3 {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.HasPrefix(strings.ToLower(d.String()), s) {
			return d, true
		}
	}
	return 0, false
}

// PromptMatchingCommands returns suggestions that start with the current input.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	prefix := strings.ToLower(strings.TrimSpace(input))
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching suggestion and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	if strings.TrimSpace(input) == "" {
		return "", false
	}
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name, true
}
