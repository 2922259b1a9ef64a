package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/session"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// TaskAPI is the part of api.Client the commands use.
type TaskAPI interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Profile(ctx context.Context) (*models.User, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, in models.TaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.Stats, error)
}

type App struct {
	api    TaskAPI
	state  *session.State
	reader *bufio.Reader
	out    io.Writer
	logger logging.Logger

	// shown is the list printed by the last successful "list".
	shown []models.Task

	closers []io.Closer
}

// NewApp opens the local session store, restores a saved session and builds
// the API client.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(logging.FormatText, os.Stderr)
	if err != nil {
		return nil, err
	}

	provider, err := session.OpenSQLiteProvider(ctx, cfg.SessionDSN)
	if err != nil {
		return nil, err
	}

	state := session.NewState(provider)
	if err := state.Restore(ctx); err != nil {
		logger.Warn(ctx, "could not restore session", "error", err)
	}

	client, err := api.NewClient(cfg.ServerURL, state, cfg.RequestTimeout)
	if err != nil {
		provider.Close()
		return nil, err
	}

	a := newApp(client, state, os.Stdin, os.Stdout, logger.With("module", "cli"))
	a.closers = append(a.closers, provider)
	return a, nil
}

func newApp(c TaskAPI, state *session.State, in io.Reader, out io.Writer, logger logging.Logger) *App {
	return &App{
		api:    c,
		state:  state,
		reader: bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

// Run blocks in the REPL until the user exits, input ends or ctx is done.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to TaskKeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.state.IsAuthenticated()
}

func (a *App) status() string {
	if s := a.state.Current(); s != nil {
		return s.User.Name
	}
	return "guest"
}

// requireAuth prints a hint and returns session.ErrNotSignedIn when nobody
// is logged in.
func (a *App) requireAuth() error {
	if err := a.state.RequireAuth(); err != nil {
		fmt.Fprintln(a.out, "Please log in first (login or register).")
		return err
	}
	return nil
}

// report prints a failed command. A rejected token ends the local session.
func (a *App) report(ctx context.Context, action string, err error) error {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		fmt.Fprintf(a.out, "%s failed: %s\n", action, apiErr.Message)
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintf(a.out, "%s failed: server unavailable\n", action)
	default:
		fmt.Fprintf(a.out, "%s failed: %v\n", action, err)
	}

	if errors.Is(err, common.ErrorUnauthorized) && a.state.IsAuthenticated() {
		if err := a.state.SignOut(ctx); err != nil {
			a.logger.Warn(ctx, "sign out failed", "error", err)
		}
		a.shown = nil
		fmt.Fprintln(a.out, "Session expired, please log in again.")
	}

	a.logger.Debug(ctx, "command failed", "action", action, "error", err)
	return err
}
