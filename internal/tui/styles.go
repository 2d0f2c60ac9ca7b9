package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mediconnect/mediconnect/pkg/domain"
)

// Shimmer animation for the MEDICONNECT logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders the logo as a slow wave of teal light.
// Deep teal (#12393f) -> bright aqua (#5eead4).
func renderShimmerLogo(frame int) string {
	const text = "MEDICONNECT"
	n := len(text)

	var out strings.Builder
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18
		b = math.Min(1.0, math.Max(0.05, b))

		r := clampByte(18 + b*(94-18))
		g := clampByte(57 + b*(234-57))
		bl := clampByte(63 + b*(212-63))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out.WriteString(s.Render(string(text[i])))

		if i < n-1 {
			out.WriteString(" ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Search / accent
	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5eead4")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5eead4")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878")).
				Bold(true)

	statValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#2dd4bf")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	// Status colors for appointments and prescriptions
	statusColors = map[string]lipgloss.Color{
		domain.StatusScheduled:     lipgloss.Color("#60a0e0"),
		domain.StatusConfirmed:     lipgloss.Color("#60a0e0"),
		domain.StatusPending:       lipgloss.Color("#d4a844"),
		domain.StatusCompleted:     lipgloss.Color("#4ade80"),
		domain.StatusCanceled:      lipgloss.Color("#e06060"),
		domain.StatusCancelled:     lipgloss.Color("#e06060"),
		domain.PrescriptionActive:  lipgloss.Color("#4ade80"),
		domain.PrescriptionExpired: lipgloss.Color("#e06060"),
	}

	// Role colors
	roleColors = map[domain.Role]lipgloss.Color{
		domain.RolePatient: lipgloss.Color("#43e88c"),
		domain.RoleDoctor:  lipgloss.Color("#3ecce4"),
		domain.RoleAdmin:   lipgloss.Color("#d4a844"),
	}
)

// StatusStyle returns a bold style colored for an appointment or
// prescription status.
func StatusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[strings.ToUpper(status)]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// StatusBadge renders a status as a short colored label, e.g. "SCHEDULED".
func StatusBadge(status string) string {
	if status == "" {
		return metaStyle.Render("-")
	}
	return StatusStyle(status).Render(strings.ToUpper(status))
}

// RoleStyle returns a bold style colored for the role.
func RoleStyle(r domain.Role) lipgloss.Style {
	if c, ok := roleColors[r]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// RoleBadge returns a colored badge for the role, e.g. "[doctor]".
func RoleBadge(r domain.Role) string {
	if r == "" {
		return ""
	}
	return RoleStyle(r).Render("[" + r.LoginSegment() + "]")
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries with the standard spacing.
func helpBar(entries ...string) string {
	return " " + strings.Join(entries, "  ")
}

// helpView renders the help overlay.
func helpView(apiURL string) string {
	title := titleStyle.Render("M E D I C O N N E C T")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	keys := []struct{ key, desc string }{
		{"j/k", "move through lists"},
		{"/", "search the current list"},
		{"enter", "open details or submit"},
		{"r", "refresh"},
		{"esc", "back"},
		{"ctrl+l", "log out"},
		{"q", "quit"},
	}
	commands := []struct{ cmd, desc string }{
		{"mediconnect", "Open the client"},
		{"mediconnect logout", "Forget the saved session"},
		{"mediconnect --version", "Show version"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-10s", k.key)), descStyle.Render(k.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s %s\n", sectionStyle.Render("Backend"), dimStyle.Render(apiURL))
	return b.String()
}
