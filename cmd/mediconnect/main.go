package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/mediconnect/mediconnect/internal/config"
	"github.com/mediconnect/mediconnect/internal/guard"
	"github.com/mediconnect/mediconnect/internal/logger"
	"github.com/mediconnect/mediconnect/internal/metrics"
	"github.com/mediconnect/mediconnect/internal/session"
	"github.com/mediconnect/mediconnect/internal/tui"
	"github.com/mediconnect/mediconnect/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	startPath := guard.DefaultPath
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(out, "mediconnect "+version)
			return nil
		case "help", "--help", "-h":
			printHelp(out)
			return nil
		case "logout":
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			return runLogout(ctx, cfg, out)
		default:
			if !strings.HasPrefix(args[0], "/") {
				printHelp(out)
				return fmt.Errorf("unknown command %q", args[0])
			}
			startPath = args[0]
		}
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logFile, err := logger.OpenFile(cfg.LogFile())
	if err != nil {
		return err
	}
	defer logFile.Close() //nolint:errcheck
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: logFile})
	log.Info().Str("version", version).Str("api", cfg.APIURL).Msg("starting")

	reg := prometheus.NewRegistry()
	recorder := metrics.New(reg)
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, reg); err != nil {
				log.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics server stopped")
			}
		}()
	}

	c := newClient(cfg, log, recorder)
	store := session.NewStore(c,
		session.WithCookieFile(session.NewCookieFile(cfg.SessionFile())),
		session.WithLogger(log),
	)

	app := tui.NewApp(session.NewContext(ctx, store), c, startPath)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui error: %w", err)
	}
	log.Info().Msg("exiting")
	return nil
}

func newClient(cfg *config.Config, log zerolog.Logger, obs client.Observer) *client.Client {
	opts := []client.Option{
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(log),
	}
	if obs != nil {
		opts = append(opts, client.WithObserver(obs))
	}
	return client.New(cfg.APIURL, opts...)
}

// runLogout ends the saved session: the backend is told when it can be
// reached, and the saved cookie is removed either way.
func runLogout(ctx context.Context, cfg *config.Config, out io.Writer) error {
	file := session.NewCookieFile(cfg.SessionFile())
	if !file.Exists() {
		fmt.Fprintln(out, "Already logged out.")
		return nil
	}

	c := client.New(cfg.APIURL, client.WithTimeout(min(cfg.RequestTimeout, 5*time.Second)))
	store := session.NewStore(c, session.WithCookieFile(file))
	if err := store.Logout(ctx); err != nil {
		fmt.Fprintf(out, "Could not reach %s, cleared the local session only.\n", cfg.APIURL)
	}
	if file.Exists() {
		return fmt.Errorf("remove session file %s", file.Path())
	}
	fmt.Fprintln(out, "Logged out.")
	return nil
}
