package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediconnect/mediconnect/internal/fetch"
	"github.com/mediconnect/mediconnect/pkg/client"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

// listState is cursor, search and detail state shared by every list page.
type listState struct {
	cursor    int
	query     string
	searching bool
	detail    bool
}

// handleKey applies navigation, search and detail keys for a list of n
// items. It reports whether the key was used.
func (l *listState) handleKey(msg tea.KeyMsg, n int) bool {
	key := msg.String()
	if l.searching {
		switch key {
		case "enter":
			l.searching = false
		case "esc":
			l.searching = false
			l.query = ""
		default:
			l.query = editKey(l.query, msg)
		}
		l.cursor = 0
		return true
	}
	if l.detail {
		switch key {
		case "esc", "enter", "backspace":
			l.detail = false
			return true
		}
		return false
	}
	switch key {
	case "j", "down":
		if l.cursor < n-1 {
			l.cursor++
		}
	case "k", "up":
		if l.cursor > 0 {
			l.cursor--
		}
	case "g", "home":
		l.cursor = 0
	case "G", "end":
		l.cursor = max(n-1, 0)
	case "/":
		l.searching = true
	case "enter":
		if n > 0 {
			l.detail = true
		}
	case "esc":
		if l.query == "" {
			return false
		}
		l.query = ""
		l.cursor = 0
	default:
		return false
	}
	return true
}

func (l *listState) clamp(n int) {
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	if n == 0 {
		l.detail = false
	}
}

// collection is a fetched, searchable list.
type collection[T interface{ Matches(string) bool }] struct {
	res  fetch.Resource[T]
	list listState
	// keep narrows the searched items further, e.g. by status.
	keep func(T) bool
}

// items is the data narrowed by the search query and keep.
func (c *collection[T]) items() []T {
	out := domain.Search(c.res.Data(), c.list.query)
	if c.keep != nil {
		out = domain.Filter(out, c.keep)
	}
	return out
}

func (c *collection[T]) selected() (T, bool) {
	items := c.items()
	if c.list.cursor < 0 || c.list.cursor >= len(items) {
		var zero T
		return zero, false
	}
	return items[c.list.cursor], true
}

// update applies a load result and keeps the cursor in range.
func (c *collection[T]) update(msg tea.Msg) bool {
	if !c.res.Update(msg) {
		return false
	}
	c.list.clamp(len(c.items()))
	return true
}

func (c *collection[T]) handleKey(msg tea.KeyMsg) bool {
	used := c.list.handleKey(msg, len(c.items()))
	c.list.clamp(len(c.items()))
	return used
}

// status renders the loading or error line, or "" when there is neither.
func (c *collection[T]) status() string {
	return loadStatus(c.res.Loading(), c.res.Err(), c.res.Name())
}

func loadStatus(loading bool, err error, name string) string {
	switch {
	case err != nil:
		return " " + errorStyle.Render("error: "+client.Message(err)) + "  " + helpEntry("r", "retry")
	case loading:
		return " " + dimStyle.Render("loading "+name+"...")
	}
	return ""
}

// render draws the list, or the selected item's detail when open.
func (c *collection[T]) render(height int, row func(item T, selected bool) string, detail func(item T) string) string {
	var b strings.Builder
	if s := c.status(); s != "" {
		b.WriteString(s + "\n")
	}
	if c.list.detail {
		if item, ok := c.selected(); ok {
			b.WriteString(detail(item))
			return b.String()
		}
	}
	b.WriteString(renderSearch(c.list.query, c.list.searching) + "\n")

	items := c.items()
	if len(items) == 0 {
		if !c.res.Loading() {
			msg := "No " + c.res.Name() + " found"
			if c.list.query != "" {
				msg += " matching your search"
			}
			b.WriteString("\n " + dimStyle.Render(msg) + "\n")
		}
		return b.String()
	}

	b.WriteString(" " + metaStyle.Render(fmt.Sprintf("%d of %d", len(items), len(c.res.Data()))) + "\n")

	rows := height - 4
	if rows < 3 {
		rows = 3
	}
	start := 0
	if c.list.cursor >= rows {
		start = c.list.cursor - rows + 1
	}
	end := min(start+rows, len(items))
	for i := start; i < end; i++ {
		line := row(items[i], i == c.list.cursor)
		if i == c.list.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// cursorMark is the gutter marker for list rows.
func cursorMark(selected bool) string {
	if selected {
		return accentStyle.Render("▸ ")
	}
	return "  "
}

// detailLine renders one "label  value" line of a detail view.
func detailLine(label, value string) string {
	return "   " + dimStyle.Render(pad(label, 16)) + normalStyle.Render(orNA(value)) + "\n"
}
