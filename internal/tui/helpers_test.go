package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediconnect/mediconnect/pkg/domain"
)

func TestEditKey(t *testing.T) {
	tests := []struct {
		name string
		text string
		msg  tea.KeyMsg
		want string
	}{
		{"rune", "ab", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}, "abc"},
		{"paste", "a", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b\nc")}, "ab c"},
		{"backspace", "héé", tea.KeyMsg{Type: tea.KeyBackspace}, "hé"},
		{"backspace empty", "", tea.KeyMsg{Type: tea.KeyBackspace}, ""},
		{"clear", "abc", tea.KeyMsg{Type: tea.KeyCtrlU}, ""},
		{"enter ignored", "abc", tea.KeyMsg{Type: tea.KeyEnter}, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := editKey(tt.text, tt.msg); got != tt.want {
				t.Errorf("editKey(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestEditKeyClampsLength(t *testing.T) {
	full := strings.Repeat("x", maxInputLen)
	if got := editKey(full, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}); got != full {
		t.Error("rune appended past the limit")
	}
	got := editKey(full[:maxInputLen-2], tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abcd")})
	if len(got) != maxInputLen || !strings.HasSuffix(got, "ab") {
		t.Errorf("paste not clamped: len %d", len(got))
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("hello", 10); got != "hello" {
		t.Errorf("got %q", got)
	}
	if got := truncStr("hello world", 6); got != "hello…" {
		t.Errorf("got %q", got)
	}
	if got := truncStr("hello", 0); got != "" {
		t.Errorf("got %q", got)
	}
	if got := pad("ab", 4); got != "ab  " {
		t.Errorf("pad = %q", got)
	}
}

func TestCycle(t *testing.T) {
	opts := withAll([]string{"SCHEDULED", "COMPLETED"})
	steps := []string{"SCHEDULED", "COMPLETED", "", "SCHEDULED"}
	cur := ""
	for _, want := range steps {
		cur = cycle(opts, cur)
		if cur != want {
			t.Fatalf("cycle = %q, want %q", cur, want)
		}
	}
	if got := cycle(opts, "GONE"); got != "" {
		t.Errorf("unknown value should restart, got %q", got)
	}
	if got := cycle(nil, "x"); got != "" {
		t.Errorf("empty opts = %q", got)
	}
	if filterLabel("") != "all" || filterLabel("COMPLETED") != "completed" {
		t.Error("filterLabel")
	}
}

func TestFormatDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 22, 30, 0, 0, time.Local)
	day := func(d int) domain.Date {
		return domain.NewDate(time.Date(2025, 6, 15+d, 0, 0, 0, 0, time.Local))
	}
	tests := []struct {
		date domain.Date
		want string
	}{
		{domain.Date{}, "N/A"},
		{day(0), "Sun Jun 15, 2025 (today)"},
		{day(1), "Mon Jun 16, 2025 (tomorrow)"},
		{day(-1), "Sat Jun 14, 2025 (yesterday)"},
		{day(3), "Wed Jun 18, 2025 (in 3d)"},
		{day(10), "Wed Jun 25, 2025"},
	}
	for _, tt := range tests {
		if got := formatDate(tt.date, now); got != tt.want {
			t.Errorf("formatDate(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("got %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("got %q", got)
	}
	if got := truncateToHeight("one", 3); got != "one" {
		t.Errorf("got %q", got)
	}
}

func TestBookingDates(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local)
	dates := bookingDates(now)
	if len(dates) != bookingDays+1 || dates[0] != "" {
		t.Fatalf("dates = %v", dates)
	}
	if dates[1] != "2025-06-16" || dates[bookingDays] != "2025-07-15" {
		t.Errorf("range = %s..%s", dates[1], dates[bookingDays])
	}
}

func TestListStateKeys(t *testing.T) {
	var l listState
	l.handleKey(key("j"), 3)
	l.handleKey(key("j"), 3)
	l.handleKey(key("j"), 3)
	if l.cursor != 2 {
		t.Errorf("cursor = %d, want 2", l.cursor)
	}
	l.handleKey(key("/"), 3)
	l.handleKey(key("ab"), 3)
	if !l.searching || l.query != "ab" || l.cursor != 0 {
		t.Errorf("search state = %+v", l)
	}
	l.handleKey(key("esc"), 3)
	if l.searching || l.query != "" {
		t.Errorf("esc should end and clear the search, got %+v", l)
	}
	if used := l.handleKey(key("esc"), 3); used {
		t.Error("esc with nothing to clear should fall through")
	}
	l.handleKey(key("enter"), 0)
	if l.detail {
		t.Error("detail opened on an empty list")
	}
}
