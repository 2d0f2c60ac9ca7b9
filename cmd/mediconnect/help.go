package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

func printHelp(out io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5eead4")).
		Bold(true).
		Render("M E D I C O N N E C T")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Appointments, prescriptions and records for patients, doctors and admins.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"mediconnect", "Open the client at the patient login"},
		{"mediconnect /doctor-login", "Open the client at any route"},
		{"mediconnect logout", "Clear your saved session"},
		{"mediconnect --version", "Show version"},
		{"mediconnect help", "You are here"},
	}
	env := []struct{ name, desc string }{
		{"MEDICONNECT_API_URL", "Backend base URL (default http://localhost:8080/api)"},
		{"MEDICONNECT_REQUEST_TIMEOUT", "Per-request timeout (default 30s)"},
		{"MEDICONNECT_LOG_LEVEL", "trace, debug, info, warn or error"},
		{"MEDICONNECT_STATE_DIR", "Session and log directory (default ~/.mediconnect)"},
		{"MEDICONNECT_METRICS_ADDR", "Serve Prometheus metrics on this address"},
	}

	fmt.Fprintf(out, "\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-26s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(out, "\n  Environment:\n")
	for _, e := range env {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-28s", e.name)), descStyle.Render(e.desc))
	}
	fmt.Fprintln(out)
}
