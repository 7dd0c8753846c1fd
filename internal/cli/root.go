// Package cli implements the skilllog command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/skilllog/internal/paths"
	"github.com/mesh-intelligence/skilllog/internal/service"
	"github.com/mesh-intelligence/skilllog/internal/sqlite"
	"github.com/mesh-intelligence/skilllog/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errUsage marks command-line mistakes caught before a command runs.
var errUsage = errors.New("usage error")

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app carries the state of one invocation. The store is opened on first
// use and closed when the invocation ends.
type app struct {
	flags  rootFlags
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logger    *slog.Logger
	configDir string
	cfg       *viper.Viper
	loc       *time.Location

	store *sqlite.Backend
	svc   *service.Service

	// started is set once a command passed argument parsing.
	started bool
}

// Execute runs the CLI with the process arguments and exits.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Run executes one invocation and returns its exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "skilllog:", err)
	if !a.started {
		// Unknown commands and flags never reach a command.
		return exitUserError
	}
	return exitCode(err)
}

// exitCode maps an error to the process exit status: 1 for mistakes the
// user can fix, 2 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errUsage),
		errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrFormat):
		return exitUserError
	default:
		return exitSysError
	}
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "skilllog",
		Short: "A local log of skills and notes",
		Long: `skilllog keeps short notes ("skills") in a local SQLite store and shows
them as a flat list, a pinned list, or grouped by month.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.started = true
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: per-user config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: per-user data dir)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		a.newVersionCmd(),
		a.newInitCmd(),
		a.newAddCmd(),
		a.newMemoCmd(),
		a.newListCmd(),
		a.newShowCmd(),
		a.newEditCmd(),
		a.newPinCmd(),
		a.newDoneCmd(),
		a.newDeleteCmd(),
		a.newExportCmd(),
		a.newImportCmd(),
		a.newCategoriesCmd(),
		a.newTagsCmd(),
		a.newDraftCmd(),
	)
	return root
}

// setup resolves the config directory, loads configuration and builds the
// logger. It does not open the store.
func (a *app) setup() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolving config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	logger, err := newLogger(a.stderr, cfg.GetString(cfgKeyLogLevel), a.flags.verbose)
	if err != nil {
		return err
	}
	loc, err := loadLocation(cfg.GetString(cfgKeyTimezone))
	if err != nil {
		return err
	}

	a.configDir = configDir
	a.cfg = cfg
	a.logger = logger
	a.loc = loc
	logger.Debug("configuration loaded", "config_dir", configDir, "file", cfg.ConfigFileUsed())
	return nil
}

// storeConfig resolves where the store lives.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolving data dir: %w", err)
	}
	return types.Config{DataDir: dataDir, DBFile: a.cfg.GetString(cfgKeyDBFile)}, nil
}

// service opens the store on first use.
func (a *app) service() (*service.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, err
	}
	store, err := sqlite.Open(cfg, sqlite.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	a.store = store
	a.svc = service.New(store, service.WithLogger(a.logger), service.WithLocation(a.loc))
	a.logger.Debug("store opened", "path", store.Path())
	return a.svc, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store, a.svc = nil, nil
	return err
}

// newLogger builds the stderr text logger. --verbose forces debug level.
func newLogger(w io.Writer, level string, verbose bool) (*slog.Logger, error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("%w: log_level %q: %w", types.ErrValidation, level, err)
		}
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// loadLocation reads the timezone setting. Empty means the system zone.
func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", types.ErrValidation, name, err)
	}
	return loc, nil
}
