package tui

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mediconnect/mediconnect/pkg/domain"
)

// formatDate renders a backend date, with a relative hint for nearby days.
func formatDate(d domain.Date, now time.Time) string {
	if d.IsZero() {
		return "N/A"
	}
	s := d.Format("Mon Jan 2, 2006")
	days := int(math.Round(domain.NewDate(d.Time).Sub(domain.NewDate(now).Time).Hours() / 24))
	switch {
	case days == 0:
		return s + " (today)"
	case days == 1:
		return s + " (tomorrow)"
	case days == -1:
		return s + " (yesterday)"
	case days > 1 && days < 7:
		return fmt.Sprintf("%s (in %dd)", s, days)
	}
	return s
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// oneLine collapses newlines and runs of whitespace.
func oneLine(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// orNA returns s, or "N/A" when blank.
func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// pad right-pads s to width runes.
func pad(s string, width int) string {
	s = truncStr(s, width)
	if n := utf8.RuneCountInString(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

// cycle returns the element after current in opts, wrapping to the first.
// An unknown current starts at the first element.
func cycle(opts []string, current string) string {
	if len(opts) == 0 {
		return ""
	}
	for i, o := range opts {
		if o == current {
			return opts[(i+1)%len(opts)]
		}
	}
	return opts[0]
}

// withAll prepends "" (meaning no filter) to a list of filter values.
func withAll(vals []string) []string {
	return append([]string{""}, vals...)
}

// filterLabel renders a filter value, "" meaning all.
func filterLabel(v string) string {
	if v == "" {
		return "all"
	}
	return strings.ToLower(v)
}

// statLine renders labelled counters on one line.
func statLine(pairs ...any) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, statValueStyle.Render(fmt.Sprint(pairs[i+1]))+" "+dimStyle.Render(fmt.Sprint(pairs[i])))
	}
	return " " + strings.Join(parts, metaStyle.Render("  .  "))
}

// sectionTitle renders a section header line.
func sectionTitle(s string) string {
	return " " + sectionHeaderStyle.Render(strings.ToUpper(s))
}

// separator renders a dim rule across width.
func separator(width int) string {
	w := width - 2
	if w < 4 {
		w = 4
	}
	return " " + metaStyle.Render(strings.Repeat("─", w))
}
