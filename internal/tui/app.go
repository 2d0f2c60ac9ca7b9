package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mediconnect/mediconnect/internal/guard"
	"github.com/mediconnect/mediconnect/internal/session"
	"github.com/mediconnect/mediconnect/pkg/client"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

// validatedMsg carries the outcome of the startup session check.
type validatedMsg struct {
	state session.State
}

// loggedOutMsg follows ctrl+l. The session is cleared whatever err says.
type loggedOutMsg struct {
	err error
}

// greetingMsg carries the display name for the header.
type greetingMsg struct {
	username string
	name     string
}

// chrome is the lines the header and help bar take: logo(1) + welcome(1) +
// blank(1) + blank(1) + help(1).
const chrome = 5

// App is the root Bubbletea model. It owns the router: every navigation
// goes through the route guard before a page is mounted.
type App struct {
	ctx    context.Context
	client *client.Client
	store  *session.Store
	now    func() time.Time

	route   guard.Route
	page    page
	cancel  context.CancelFunc
	waiting bool
	pending string

	helpOpen bool
	greeting string
	greetFor string
	flash    string
	width    int
	height   int
	frame    int // logo shimmer animation frame
}

// NewApp creates the TUI. ctx must carry the session store; startPath is
// the first route to show once the guard allows it.
func NewApp(ctx context.Context, c *client.Client, startPath string) App {
	a := App{
		ctx:    ctx,
		client: c,
		store:  session.FromContext(ctx),
		now:    time.Now,
	}
	a, _ = a.show(startPath)
	return a
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.validate(), shimmerTickCmd()}
	if a.page != nil {
		cmds = append(cmds, a.page.Init())
	}
	return tea.Batch(cmds...)
}

func (a App) validate() tea.Cmd {
	store, ctx := a.store, a.ctx
	return func() tea.Msg {
		return validatedMsg{state: store.Validate(ctx)}
	}
}

func (a App) bodyHeight() int {
	return max(a.height-chrome, 5)
}

// show runs the guard for path and mounts the page it allows.
func (a App) show(path string) (App, tea.Cmd) {
	route, _ := guard.Lookup(path)
	st := a.store.State()
	switch guard.Check(st, route) {
	case guard.Wait:
		a.unmount()
		a.route = route
		a.waiting, a.pending = true, path
		return a, nil
	case guard.Redirect:
		if route.Path != guard.DefaultPath {
			return a.show(guard.DefaultPath)
		}
	}
	a.waiting, a.pending = false, ""
	a.unmount()

	ctx, cancel := context.WithCancel(a.ctx)
	a.cancel = cancel
	a.route = route
	a.page = newPage(pageEnv{
		ctx:     ctx,
		client:  a.client,
		session: st.Session,
		route:   route,
		now:     a.now,
		width:   a.width,
		height:  a.bodyHeight(),
	})
	greet := a.greet(st.Session)
	return a, tea.Batch(a.page.Init(), greet)
}

func (a *App) unmount() {
	if a.page != nil {
		a.page.Close()
		a.page = nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// greet refreshes the header name when the signed-in user changes.
func (a *App) greet(sess domain.Session) tea.Cmd {
	if !sess.Authenticated {
		a.greeting, a.greetFor = "", ""
		return nil
	}
	if a.greetFor == sess.Username {
		return nil
	}
	a.greetFor = sess.Username
	a.greeting = domain.GreetingName("", "", sess.Username)
	c, ctx := a.client, a.ctx
	return func() tea.Msg {
		me, err := lookupSelf(ctx, c, sess)
		if err != nil {
			return nil
		}
		return greetingMsg{username: sess.Username, name: me.Name}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.page != nil {
			var cmd tea.Cmd
			a.page, cmd = a.page.Update(tea.WindowSizeMsg{Width: msg.Width, Height: a.bodyHeight()})
			return a, cmd
		}
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case navigateMsg:
		a.flash = ""
		return a.show(msg.path)

	case validatedMsg:
		st := msg.state
		if a.waiting {
			return a.show(a.pending)
		}
		if a.route.Page == guard.PageLogin && st.Authenticated() {
			return a.show(st.Session.Role.Home())
		}
		if guard.Check(st, a.route) != guard.Render {
			return a.show(guard.DefaultPath)
		}
		return a, a.greet(st.Session)

	case loggedOutMsg:
		a.flash = "Signed out"
		return a.show(guard.DefaultPath)

	case greetingMsg:
		if msg.username == a.greetFor {
			a.greeting = msg.name
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}
		if a.page == nil || !a.page.Editing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "?":
				a.helpOpen = true
				return a, nil
			case "ctrl+l":
				if a.store.State().Authenticated() {
					return a, a.logout()
				}
				return a, nil
			}
		}
		a.flash = ""
	}

	if a.page == nil {
		return a, nil
	}
	var cmd tea.Cmd
	a.page, cmd = a.page.Update(msg)
	return a, cmd
}

func (a App) logout() tea.Cmd {
	store, ctx := a.store, a.ctx
	return func() tea.Msg {
		return loggedOutMsg{err: store.Logout(ctx)}
	}
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	header := center(logo, a.width)

	var who []string
	if st := a.store.State(); st.Authenticated() && !a.route.Public {
		who = append(who, normalStyle.Render("Welcome, "+a.greeting), RoleBadge(st.Session.Role))
	}
	who = append(who, titleStyle.Render(a.route.Title))
	header += "\n" + center(strings.Join(who, "  "), a.width)

	var body, help string
	switch {
	case a.helpOpen:
		body = helpView(a.client.BaseURL())
		help = helpBar(helpEntry("esc", "close"), helpEntry("q", "quit"))
	case a.waiting || a.page == nil:
		body = "\n " + dimStyle.Render("Checking authentication...")
		help = helpBar(helpEntry("ctrl+c", "quit"))
	default:
		body = a.page.View()
		help = a.page.Help()
		if !a.page.Editing() {
			global := []string{helpEntry("?", "help"), helpEntry("q", "quit")}
			if a.store.State().Authenticated() {
				global = append([]string{helpEntry("ctrl+l", "logout")}, global...)
			}
			help += "  " + strings.Join(global, "  ")
		}
	}
	if a.flash != "" {
		body = " " + okStyle.Render(a.flash) + "\n" + body
	}

	body = strings.TrimRight(truncateToHeight(body, a.bodyHeight()), "\n")
	return fmt.Sprintf("%s\n\n%s\n\n%s", header, body, help)
}

// center pads s to sit in the middle of width.
func center(s string, width int) string {
	p := (width - lipgloss.Width(s)) / 2
	if p < 0 {
		p = 0
	}
	return strings.Repeat(" ", p) + s
}
