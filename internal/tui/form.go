package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediconnect/mediconnect/internal/form"
)

// validate checks every form in the TUI.
var validate = form.New()

// formField is one input. key matches the struct field the value is
// validated as, so validation messages land under the right input.
type formField struct {
	key     string
	label   string
	value   string
	secret  bool
	options []string
	hint    string
}

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// formModel is a vertical list of inputs with focus, inline validation
// messages and a status line.
type formModel struct {
	title  string
	fields []formField
	focus  int
	errs   form.Errors
	status string
	failed bool
	busy   bool
}

func newFormModel(title string, fields ...formField) formModel {
	return formModel{title: title, fields: fields}
}

// handleKey edits the focused field. Submitting is left to the caller.
func (f *formModel) handleKey(msg tea.KeyMsg) formAction {
	if f.busy || len(f.fields) == 0 {
		return formNone
	}
	n := len(f.fields)
	cur := &f.fields[f.focus]
	switch msg.String() {
	case "ctrl+s":
		return formSubmit
	case "esc":
		return formCancel
	case "tab", "down":
		f.focus = (f.focus + 1) % n
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + n) % n
	case "enter":
		if f.focus == n-1 {
			return formSubmit
		}
		f.focus++
	case "left", "right", " ":
		if len(cur.options) > 0 {
			cur.value = cycleOption(cur.options, cur.value, msg.String() == "left")
			return formNone
		}
		if msg.String() == " " {
			cur.value = editKey(cur.value, msg)
		}
	default:
		if len(cur.options) == 0 {
			cur.value = editKey(cur.value, msg)
		}
	}
	return formNone
}

func cycleOption(opts []string, current string, backwards bool) string {
	idx := 0
	for i, o := range opts {
		if o == current {
			idx = i
			break
		}
	}
	if backwards {
		idx = (idx - 1 + len(opts)) % len(opts)
	} else {
		idx = (idx + 1) % len(opts)
	}
	return opts[idx]
}

// value returns the trimmed value of the field with key, or "".
func (f *formModel) value(key string) string {
	for _, fl := range f.fields {
		if fl.key == key {
			if fl.secret {
				return fl.value
			}
			return strings.TrimSpace(fl.value)
		}
	}
	return ""
}

func (f *formModel) set(key, v string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].value = v
			return
		}
	}
}

// check validates target and keeps the messages for rendering. It reports
// whether the form may be submitted.
func (f *formModel) check(target any) bool {
	f.errs = validate.Check(target)
	f.status, f.failed = "", false
	if len(f.errs) > 0 {
		f.fail("Please fix the highlighted fields")
		return false
	}
	return true
}

func (f *formModel) fail(msg string) {
	f.status, f.failed, f.busy = msg, true, false
}

func (f *formModel) succeed(msg string) {
	f.status, f.failed, f.busy = msg, false, false
}

func (f *formModel) View() string {
	var b strings.Builder
	if f.title != "" {
		b.WriteString(" " + titleStyle.Render(f.title) + "\n\n")
	}
	for i, fl := range f.fields {
		focused := i == f.focus
		label := dimStyle.Render(pad(fl.label, 18))
		if focused {
			label = accentStyle.Render(pad(fl.label, 18))
		}
		val := fl.value
		if fl.secret {
			val = strings.Repeat("•", len([]rune(val)))
		}
		switch {
		case len(fl.options) > 0:
			shown := val
			if shown == "" {
				shown = "-"
			}
			val = "‹ " + shown + " ›"
		case focused:
			val += "█"
		}
		style := normalStyle
		if focused {
			style = selectedStyle
		}
		line := " " + label + style.Render(val)
		if fl.value == "" && fl.hint != "" && len(fl.options) == 0 {
			line += inputPlaceholderStyle.Render(" " + fl.hint)
		}
		b.WriteString(line + "\n")
		if msg, ok := f.errs[fl.key]; ok {
			b.WriteString(" " + strings.Repeat(" ", 18) + errorStyle.Render(msg) + "\n")
		}
	}
	b.WriteString("\n")
	switch {
	case f.busy:
		b.WriteString(" " + dimStyle.Render("submitting...") + "\n")
	case f.status != "" && f.failed:
		b.WriteString(" " + errorStyle.Render(f.status) + "\n")
	case f.status != "":
		b.WriteString(" " + okStyle.Render(f.status) + "\n")
	}
	return b.String()
}

func formHelp() string {
	return helpBar(helpEntry("tab", "next"), helpEntry("←/→", "choose"), helpEntry("ctrl+s", "submit"), helpEntry("esc", "cancel"))
}
