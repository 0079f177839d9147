package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sadopc/flow/internal/config"
	"github.com/sadopc/flow/internal/store"
)

// Version is reported by --version.
var Version = "dev"

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ~/.config/flow/config.yaml)" type:"path"`
	DB      string           `help:"Database file path, overrides the configured db_path" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	TUI    TUICmd    `cmd:"" name:"tui" default:"1" help:"Open the interactive focus timer (default)"`
	Status StatusCmd `cmd:"" help:"Show focus totals, goal, streak and pomodoro settings"`
	Record RecordCmd `cmd:"" help:"Record a finished focus session"`
	Goal   GoalCmd   `cmd:"" help:"Set the daily focus goal in minutes"`
	Streak StreakCmd `cmd:"" help:"Overwrite the focus streak (use 0 to reset)"`
	Prefs  PrefsCmd  `cmd:"" help:"Show or change pomodoro preferences"`
	Export ExportCmd `cmd:"" help:"Export the current records as JSON or CSV"`
	Init   InitCmd   `cmd:"" help:"Write a default configuration file"`

	ctx        context.Context
	out        io.Writer
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

// Execute parses args and runs the selected command, writing user-facing
// output to stdout.
func Execute(ctx context.Context, args []string, stdout io.Writer) error {
	c := &CLI{ctx: ctx, out: stdout}
	parser, err := kong.New(c,
		kong.Name("flow"),
		kong.Description("Focus timer with pomodoro cycles, daily goals and streaks."),
		kong.Writers(stdout, os.Stderr),
		kong.Vars{"version": Version},
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(c)
}

// AfterApply runs after flag parsing; loads configuration and sets up logging
// once.
func (c *CLI) AfterApply() error {
	path := c.Config
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.DB != "" {
		cfg.DBPath = c.DB
	}
	c.configPath = path
	c.cfg = cfg

	level := cfg.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(c.logger)
	return nil
}

func (c *CLI) context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// openStore opens the configured database, seeding it on first use.
func (c *CLI) openStore(opts ...store.Option) (*store.Store, error) {
	slog.Debug("Opening store", "path", c.cfg.DBPath)
	s, err := store.Open(c.context(), c.cfg.DBPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
