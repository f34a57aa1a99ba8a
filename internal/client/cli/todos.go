package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

var (
	errTaskRequired = errors.New("task text is required")
	errTaskID       = errors.New("a single numeric task id is required")
)

func taskID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errTaskID
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, errTaskID
	}
	return id, nil
}

func checkbox(t models.Todo) string {
	if t.Done() {
		return "[x]"
	}
	return "[ ]"
}

func (a *App) list(ctx context.Context, args []string) error {
	var pending bool

	fs := a.flagSet("list")
	fs.BoolVar(&pending, "pending", false, "show only pending tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}

	todos, err := a.api.Todos(ctx)
	if err != nil {
		return err
	}

	shown := 0
	for _, t := range todos {
		if pending && t.Done() {
			continue
		}
		fmt.Fprintf(a.out, "%s %4d  %s\n", checkbox(t), t.ID, t.Task)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(a.out, "No tasks.")
	}
	return nil
}

func (a *App) add(ctx context.Context, args []string) error {
	var done bool

	fs := a.flagSet("add")
	fs.BoolVar(&done, "done", false, "add the task as already completed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	task := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if task == "" {
		return errTaskRequired
	}

	id, err := a.api.AddTodo(ctx, task, done)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added task %d.\n", id)
	return nil
}

func (a *App) setCompleted(ctx context.Context, name string, args []string, completed bool) error {
	fs := a.flagSet(name)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := taskID(fs.Args())
	if err != nil {
		return err
	}

	t, err := a.api.SetCompleted(ctx, id, completed)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %4d  %s\n", checkbox(*t), t.ID, t.Task)
	return nil
}

func (a *App) markDone(ctx context.Context, args []string) error {
	return a.setCompleted(ctx, "done", args, true)
}

func (a *App) markPending(ctx context.Context, args []string) error {
	return a.setCompleted(ctx, "undo", args, false)
}

func (a *App) remove(ctx context.Context, args []string) error {
	fs := a.flagSet("rm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := taskID(fs.Args())
	if err != nil {
		return err
	}

	if err := a.api.DeleteTodo(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Deleted task %d.\n", id)
	return nil
}
