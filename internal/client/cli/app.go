package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/spf13/pflag"
)

// API is the part of client.APIClient the commands use.
type API interface {
	Signup(ctx context.Context, req models.SignupRequest) error
	Login(ctx context.Context, userName, password string) (*models.Profile, error)
	Logout(ctx context.Context) error
	Todos(ctx context.Context) ([]models.Todo, error)
	AddTodo(ctx context.Context, task string, completed bool) (int64, error)
	SetCompleted(ctx context.Context, id int64, completed bool) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Export(ctx context.Context) (*models.ExportLink, error)
	Download(ctx context.Context, url string, w io.Writer) (int64, error)
}

type command struct {
	args    string
	summary string
	run     func(ctx context.Context, args []string) error
}

type App struct {
	api    API
	reader *bufio.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
}

func NewApp(c *config.Config) (*App, error) {
	store, err := client.NewFileSessionStore(c.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("session dir: %w", err)
	}

	api := client.NewAPIClient(c.ServerURL, c.RequestTimeout, store)
	return newApp(api, os.Stdin, os.Stdout, os.Stderr), nil
}

func newApp(api API, in io.Reader, out, errOut io.Writer) *App {
	return &App{api: api, reader: bufio.NewReader(in), out: out, errOut: errOut, now: time.Now}
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"signup":  {"[--first NAME] [--middle NAME] [--last NAME] [--username USER]", "create an account", a.signup},
		"login":   {"[--username USER]", "log in and save the session", a.login},
		"logout":  {"", "revoke and forget the saved session", a.logout},
		"list":    {"[--pending]", "list your tasks", a.list},
		"add":     {"[--done] TASK...", "add a task", a.add},
		"done":    {"ID", "mark a task completed", a.markDone},
		"undo":    {"ID", "mark a task pending", a.markPending},
		"rm":      {"ID", "delete a task", a.remove},
		"profile": {"", "show your profile and task stats", a.profile},
		"export":  {"[--out FILE]", "export your data and download it", a.export},
	}
}

// Run executes the subcommand in args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cmd, ok := a.commands()[args[0]]
	if !ok {
		fmt.Fprintf(a.errOut, "Unknown command: %s\n", args[0])
		a.usage()
		return 2
	}

	if err := cmd.run(ctx, args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(a.errOut, "Error:", describe(err))
		return 1
	}
	return 0
}

func (a *App) usage() {
	cmds := a.commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.errOut, "Usage: taskkeeper-cli [-a URL] [-s DIR] [-t SECONDS] [-c FILE] COMMAND [ARGS]")
	fmt.Fprintln(a.errOut, "Commands:")
	for _, name := range names {
		fmt.Fprintf(a.errOut, "  %-8s %-45s %s\n", name, cmds[name].args, cmds[name].summary)
	}
}

func (a *App) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// describe turns client errors into one line for the terminal.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotLoggedIn):
		return "not logged in, run 'taskkeeper-cli login' first"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	case errors.As(err, &apiErr):
		return apiErr.Error()
	default:
		return err.Error()
	}
}
