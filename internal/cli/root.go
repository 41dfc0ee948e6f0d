// Package cli wires configuration, storage and the interactive program behind
// the mindr command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/mindr/internal/config"
	"github.com/sandeepkv93/mindr/internal/storage"
	"github.com/sandeepkv93/mindr/internal/todo"
	"github.com/sandeepkv93/mindr/internal/update"
)

type options struct {
	configPath string
	todoFile   string
	backend    string
	logFile    string
	verbose    bool

	logger *slog.Logger
}

func Execute() error {
	return NewRoot().Execute()
}

// runTUI is replaced in tests, where no terminal is available.
var runTUI = func(ctx context.Context, m update.Model) (update.Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return m, err
	}
	fm, ok := final.(update.Model)
	if !ok {
		return m, fmt.Errorf("unexpected model type %T", final)
	}
	return fm, nil
}

func NewRoot() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "mindr",
		Short:         "Keyboard driven todo list for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = newStderrLogger(cmd.ErrOrStderr(), opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(commandContext(cmd), opts)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "configuration file (default ~/.config/mindr/mindr.conf)")
	flags.StringVar(&opts.todoFile, "todo-file", "", "todo list location, overrides [storage] path")
	flags.StringVar(&opts.backend, "storage", "", "storage backend, file or sqlite; overrides [storage] backend")
	flags.StringVar(&opts.logFile, "log-file", "", "write JSON logs here while the interface is open")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages to stderr")

	root.AddCommand(
		listCmd(opts),
		addCmd(opts),
		configCmd(opts),
	)
	return root
}

func runInteractive(ctx context.Context, opts *options) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	keys, err := cfg.KeyMap()
	if err != nil {
		return err
	}
	store, repo, err := opts.openStore(ctx, cfg, opts.logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	uiLogger, closeLog, err := newUILogger(opts.logFile)
	if err != nil {
		return err
	}
	defer closeLog()
	store.SetLogger(uiLogger)

	m := update.NewModel(cfg, keys, store, update.WithLogger(uiLogger), update.WithContext(ctx))
	uiLogger.Info("interface started", "config", cfg.File, "records", store.Len())
	final, err := runTUI(ctx, m)
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	uiLogger.Info("interface stopped", "state", final.State.String())
	return final.Err
}

// loadConfig reads the configuration and applies command line overrides.
func (o *options) loadConfig() (config.Config, error) {
	path := o.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	cfg, err := config.Load(path, o.logger)
	if err != nil {
		return config.Config{}, err
	}
	if o.backend != "" {
		b, err := config.ParseBackend(o.backend)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Storage.Backend = b
	}
	if o.todoFile != "" {
		cfg.Storage.Path = o.todoFile
	}
	return cfg, nil
}

func (o *options) openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*todo.Store, storage.Repository, error) {
	path, err := cfg.TodoPath()
	if err != nil {
		return nil, nil, err
	}
	repo, err := storage.Open(string(cfg.Storage.Backend), path, logger)
	if err != nil {
		return nil, nil, err
	}
	store := todo.New(repo, cfg.SelectionStyle, todo.WithLogger(logger))
	if err := store.Load(ctx); err != nil {
		_ = repo.Close()
		return nil, nil, err
	}
	return store, repo, nil
}

// PrintError reports a fatal error the way every mindr command does.
func PrintError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprint(w, "mindr: ")
	_, _ = fmt.Fprintln(w, err)
}

// Main runs the command line and returns the process exit status.
func Main() int {
	if err := Execute(); err != nil {
		PrintError(os.Stderr, err)
		return 1
	}
	return 0
}
