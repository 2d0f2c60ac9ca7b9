package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediconnect/mediconnect/internal/guard"
	"github.com/mediconnect/mediconnect/internal/session"
	"github.com/mediconnect/mediconnect/pkg/client"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

// page is one mounted route.
type page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (page, tea.Cmd)
	View() string
	Help() string
	// Editing reports that the page captures plain keys (text input,
	// confirmations), so global shortcuts must not fire.
	Editing() bool
	// Close cancels whatever the page still has in flight.
	Close()
}

// pageEnv is what a page gets when it is mounted. ctx lives as long as the
// page and carries the session store.
type pageEnv struct {
	ctx     context.Context
	client  *client.Client
	session domain.Session
	route   guard.Route
	now     func() time.Time
	width   int
	height  int
}

// resize keeps the page's size current.
func (e *pageEnv) resize(msg tea.Msg) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		e.width, e.height = ws.Width, ws.Height
	}
}

func (e pageEnv) store() *session.Store {
	return session.FromContext(e.ctx)
}

// back leaves a sub-page for its parent. Top-level pages stay put.
func (e pageEnv) back() tea.Cmd {
	if parent := guard.Parent(e.route.Path); parent != e.route.Path {
		return navigate(parent)
	}
	return nil
}

// navigateMsg asks the router to show path.
type navigateMsg struct {
	path string
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// navigateAfter navigates to path once d has passed, unless the page that
// asked has been unmounted by then.
func navigateAfter(ctx context.Context, d time.Duration, path string) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		if ctx.Err() != nil {
			return nil
		}
		return navigateMsg{path: path}
	})
}

// mutationMsg reports the outcome of a create, update or delete.
type mutationMsg struct {
	done string
	err  error
}

// mutate runs fn in the background and reports it as a mutationMsg. Nothing
// is reported once the page has gone away.
func mutate(ctx context.Context, done string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return mutationMsg{done: done, err: err}
	}
}

// newPage builds the view for env.route.
func newPage(env pageEnv) page {
	switch env.route.Page {
	case guard.PageRegister:
		return newRegisterPage(env)
	case guard.PagePatientDashboard:
		return newPatientDashboard(env)
	case guard.PagePatientDoctors:
		return newPatientDoctorsPage(env)
	case guard.PagePatientAppointments:
		return newPatientAppointmentsPage(env)
	case guard.PagePatientPrescriptions:
		return newPatientPrescriptionsPage(env)
	case guard.PageDoctorDashboard:
		return newDoctorDashboard(env)
	case guard.PageDoctorAppointments:
		return newDoctorAppointmentsPage(env)
	case guard.PageDoctorPatients:
		return newDoctorPatientsPage(env)
	case guard.PageDoctorPrescriptions:
		return newDoctorPrescriptionsPage(env)
	case guard.PageAdminDashboard:
		return newAdminDashboard(env)
	case guard.PageAdminDoctors:
		return newAdminDoctorsPage(env)
	case guard.PageAdminPatients:
		return newAdminPatientsPage(env)
	case guard.PageAdminAppointments:
		return newAdminAppointmentsPage(env)
	case guard.PageAdminSpecializations:
		return newAdminSpecializationsPage(env)
	case guard.PageAdminPrescriptions:
		return newAdminPrescriptionsPage(env)
	default:
		return newLoginPage(env)
	}
}

// confirmState holds a pending y/n question.
type confirmState struct {
	prompt string
	action tea.Cmd
}

func (c *confirmState) active() bool { return c.action != nil }

func (c *confirmState) ask(prompt string, action tea.Cmd) {
	c.prompt, c.action = prompt, action
}

// answer resolves the question. Only "y" runs the action.
func (c *confirmState) answer(key string) tea.Cmd {
	action := c.action
	c.prompt, c.action = "", nil
	if key == "y" || key == "Y" {
		return action
	}
	return nil
}

func (c *confirmState) view() string {
	return " " + warnStyle.Render(c.prompt) + " " + helpEntry("y", "yes") + "  " + helpEntry("n", "no")
}

// notice is a one-line result shown above a page's list.
type notice struct {
	text  string
	isErr bool
}

// report records the outcome of an action: done on success, the error's
// user-facing message otherwise.
func (n *notice) report(done string, err error) {
	if err != nil {
		n.text, n.isErr = client.Message(err), true
		return
	}
	n.text, n.isErr = done, false
}

func (n *notice) clear() { n.text, n.isErr = "", false }

func (n notice) view() string {
	switch {
	case n.text == "":
		return ""
	case n.isErr:
		return " " + errorStyle.Render("error: "+n.text) + "\n"
	default:
		return " " + okStyle.Render(n.text) + "\n"
	}
}
