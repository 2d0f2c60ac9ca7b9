package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in search and form inputs.
const maxInputLen = 2000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "ctrl+u":
		return ""
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// editKey applies a key message to text. Pasted runes arrive as one
// message and are appended together.
func editKey(text string, msg tea.KeyMsg) string {
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 1 {
		room := maxInputLen - utf8.RuneCountInString(text)
		runes := msg.Runes
		if room <= 0 {
			return text
		}
		if len(runes) > room {
			runes = runes[:room]
		}
		return text + strings.ReplaceAll(string(runes), "\n", " ")
	}
	return editRune(text, msg.String())
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderSearch renders the search line of a list page.
func renderSearch(query string, editing bool) string {
	switch {
	case editing:
		return " " + searchStyle.Render("/ "+query+"█")
	case query != "":
		return " " + searchStyle.Render("/ "+query)
	default:
		return " " + dimStyle.Render("/ search...")
	}
}
