// Package cli implements the inspector command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inspector/internal/logging"
	"github.com/mesh-intelligence/inspector/internal/paths"
	"github.com/mesh-intelligence/inspector/pkg/inspector"
	"github.com/mesh-intelligence/inspector/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	database  string
	jsonMode  bool
}

// app carries the state one command invocation resolves before running.
type app struct {
	flags     rootFlags
	settings  settings
	configDir string
	cfg       types.Config
	logger    *slog.Logger
	closeLog  func() error
	inspector inspector.Inspector

	// newInspector is replaced in tests.
	newInspector func(opts ...inspector.Option) inspector.Inspector
}

// NewRootCmd creates the top-level "inspector" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{newInspector: inspector.New})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "inspector",
		Short:   "Browse tables and rows of an embedded object database",
		Long:    "Inspector lists the tables and columns of an object database file and\nprints pages of rows with every value rendered as text.",
		Version: inspector.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.database, "database", "", "database file (default: config database or $"+paths.EnvDatabase+")")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newDemoCmd(a))
	root.AddCommand(newTablesCmd(a))
	root.AddCommand(newColumnsCmd(a))
	root.AddCommand(newCountCmd(a))
	root.AddCommand(newRowsCmd(a))

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode maps an error to a process exit code. Failures to reach the
// database or the filesystem are system errors; everything else is the
// caller's to fix.
func exitCode(err error) int {
	var pathErr *os.PathError
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrConnection), errors.As(err, &pathErr):
		return exitSysError
	default:
		return exitUserError
	}
}

// prepare resolves configuration and builds the inspector. Commands that
// read a database call it first.
func (a *app) prepare() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	s, err := loadSettings(configDir)
	if err != nil {
		return err
	}
	path, err := paths.ResolveDatabase(a.flags.database, s.Database, configDir)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", s.Timezone, err)
	}
	logger, closeLog, err := logging.New(s.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	a.configDir = configDir
	a.settings = s
	a.cfg = types.Config{Backend: s.Backend, Path: path}
	a.logger = logger
	a.closeLog = closeLog
	a.inspector = a.newInspector(inspector.WithLogger(logger), inspector.WithLocation(loc))
	logger.Debug("configuration resolved", "config_dir", configDir, "backend", s.Backend, "database", path)
	return nil
}

// finish releases what prepare acquired.
func (a *app) finish() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog()
	a.closeLog = nil
	return err
}

// readCmd wraps a command body that reads the database.
func (a *app) readCmd(body func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := a.prepare(); err != nil {
			return err
		}
		defer func() {
			if cerr := a.finish(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return body(cmd, args)
	}
}
