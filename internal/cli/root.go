package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/tasks-api/internal/board"
	"github.com/phrazzld/tasks-api/internal/client"
	"github.com/spf13/cobra"
)

// APIURLEnv overrides the default API address.
const APIURLEnv = "TASKS_API_URL"

// DefaultAPIURL is used when neither the flag nor the environment variable is set.
const DefaultAPIURL = "http://localhost:5000"

// API is what the commands need from the server: the board operations plus
// a health probe.
type API interface {
	board.TaskAPI
	Health(ctx context.Context) (*client.Health, error)
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	out     io.Writer
	newAPI  func(baseURL string) API
	apiURL  string
	timeout time.Duration
	verbose bool
}

// NewRootCommand creates the root cobra command. newAPI builds the API for the
// resolved base URL; nil uses the HTTP client.
func NewRootCommand(out io.Writer, newAPI func(baseURL string) API) *RootCommand {
	if newAPI == nil {
		newAPI = func(baseURL string) API { return client.New(baseURL) }
	}
	root := &RootCommand{out: out, newAPI: newAPI}

	root.cmd = &cobra.Command{
		Use:   "taskctl",
		Short: "A command-line client for the task list",
		Long: `taskctl shows and edits the shared task list.

EXAMPLES:
  taskctl list                 # Show all tasks, newest first
  taskctl add buy milk         # Add a task
  taskctl toggle 3             # Flip the completed flag of task 3
  taskctl rm 3                 # Delete task 3
  taskctl health               # Check that the server is up

CONFIGURATION:
  TASKS_API_URL                API base URL (default: http://localhost:5000)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.cmd.SetOut(out)

	flags := root.cmd.PersistentFlags()
	flags.StringVar(&root.apiURL, "api", "", "API base URL (overrides "+APIURLEnv+")")
	flags.DurationVar(&root.timeout, "timeout", 10*time.Second, "Timeout for the whole command")
	flags.BoolVarP(&root.verbose, "verbose", "v", false, "Log requests to stderr")

	root.cmd.AddCommand(
		root.listCommand(),
		root.addCommand(),
		root.toggleCommand(),
		root.removeCommand(),
		root.healthCommand(),
	)
	return root
}

// Execute runs the command tree with the given arguments.
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	return r.cmd.ExecuteContext(ctx)
}

func (r *RootCommand) baseURL() string {
	if r.apiURL != "" {
		return r.apiURL
	}
	if env := os.Getenv(APIURLEnv); env != "" {
		return env
	}
	return DefaultAPIURL
}

func (r *RootCommand) logger() *slog.Logger {
	level := slog.LevelError
	if r.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// session prepares a board and a context bounded by --timeout.
func (r *RootCommand) session(cmd *cobra.Command) (context.Context, context.CancelFunc, API, *board.Board) {
	ctx, cancel := context.WithTimeout(cmd.Context(), r.timeout)
	api := r.newAPI(r.baseURL())
	return ctx, cancel, api, board.New(api, r.logger())
}

// loadBoard loads the list, turning a failure into the board's message.
func loadBoard(ctx context.Context, b *board.Board) error {
	if err := b.Load(ctx); err != nil {
		return errors.New(b.Snapshot().Err)
	}
	return nil
}

func (r *RootCommand) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show all tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, _, b := r.session(cmd)
			defer cancel()

			if err := loadBoard(ctx, b); err != nil {
				return err
			}
			Render(r.out, b.Snapshot())
			return nil
		},
	}
}

func (r *RootCommand) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, _, b := r.session(cmd)
			defer cancel()

			b.SetDraft(strings.Join(args, " "))
			if strings.TrimSpace(b.Snapshot().Draft) == "" {
				return fmt.Errorf("title cannot be blank")
			}
			if err := b.Create(ctx); err != nil {
				return errors.New(b.Snapshot().Err)
			}
			Render(r.out, b.Snapshot())
			return nil
		},
	}
}

func (r *RootCommand) toggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the completed flag of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel, _, b := r.session(cmd)
			defer cancel()

			if err := loadBoard(ctx, b); err != nil {
				return err
			}
			if !hasTask(b.Snapshot(), id) {
				return fmt.Errorf("task %d not found", id)
			}
			if err := b.Toggle(ctx, id); err != nil {
				r.logger().Debug("toggle failed", "task_id", id, "error", err)
				fmt.Fprintln(r.out, "Toggle failed; showing the server's current list.")
			}
			Render(r.out, b.Snapshot())
			return nil
		},
	}
}

func (r *RootCommand) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel, _, b := r.session(cmd)
			defer cancel()

			if err := loadBoard(ctx, b); err != nil {
				return err
			}
			b.Delete(ctx, id)
			Render(r.out, b.Snapshot())
			return nil
		},
	}
}

func (r *RootCommand) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, api, _ := r.session(cmd)
			defer cancel()

			h, err := api.Health(ctx)
			if err != nil {
				return fmt.Errorf("server unreachable: %w", err)
			}
			fmt.Fprintf(r.out, "%s (%s)\n", h.Status, h.Timestamp)
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task ID %q", arg)
	}
	return id, nil
}

func hasTask(v board.View, id int64) bool {
	for _, item := range v.Items {
		if item.Task.ID == id {
			return true
		}
	}
	return false
}
