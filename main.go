package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/saathi/internal/commands"
	"github.com/colonyops/saathi/internal/core/config"
	"github.com/colonyops/saathi/internal/core/styles"
	"github.com/colonyops/saathi/internal/printer"
	"github.com/colonyops/saathi/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "saathi",
		Usage:     "A command-line assistant that turns instructions into actions",
		UsageText: "saathi [global options] command [command options]",
		Description: `saathi sends free-text instructions (English, Hindi or Hinglish) to Gemini,
receives a structured plan and runs it: project scaffolding, files, npm and
pip, processes, git, MongoDB and deployments.

Run 'saathi' with no arguments to open the interactive shell.
Run 'saathi ask <instruction>' for a single instruction.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal); defaults to the configured level",
				Sources:     cli.EnvVars("SAATHI_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/saathi.log)",
				Sources:     cli.EnvVars("SAATHI_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SAATHI_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("SAATHI_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "color theme (" + strings.Join(styles.ThemeNames(), ", ") + ")",
				Sources:     cli.EnvVars("SAATHI_THEME"),
				Value:       styles.DefaultTheme,
				Destination: &flags.Theme,
			},
			&cli.StringFlag{
				Name:        "api-key",
				Usage:       "Gemini API key (overrides the configured key)",
				Sources:     cli.EnvVars("GEMINI_API_KEY"),
				Destination: &flags.APIKey,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, cfgErr := config.Load(flags.ConfigPath)
			if cfgErr != nil && !errors.Is(cfgErr, config.ErrConfigLoad) {
				return ctx, fmt.Errorf("load config: %w", cfgErr)
			}
			flags.Config = cfg
			flags.ConfigErr = cfgErr

			level := flags.LogLevel
			if level == "" {
				level = cfg.LogLevel
			}

			// Always log to a file; use explicit path or default to <datadir>/saathi.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "saathi.log")
			}

			logger, closer, err := logutils.New(level, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			if cfgErr != nil {
				log.Warn().Err(cfgErr).Str("path", flags.ConfigPath).Msg("using default config")
			}

			palette, ok := styles.GetPalette(flags.Theme)
			if !ok {
				return ctx, fmt.Errorf("unknown theme %q (available: %s)", flags.Theme, strings.Join(styles.ThemeNames(), ", "))
			}
			styles.SetTheme(palette)

			return printer.NewContext(ctx, printer.New(c.Root().Writer, c.Root().ErrWriter)), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	shellCmd := commands.NewShellCmd(flags)

	app = shellCmd.Register(app)
	app = commands.NewAskCmd(flags).Register(app)
	app = commands.NewPlanCmd(flags).Register(app)
	app = commands.NewHistoryCmd(flags).Register(app)
	app = commands.NewSettingsCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)

	// The interactive shell is the default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'saathi --help' for usage, or 'saathi ask %s'", c.Args().First(), strings.Join(c.Args().Slice(), " "))
		}
		return shellCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1

		if flags.DataDir != "" {
			_ = logutils.AppendFatal(filepath.Join(flags.DataDir, "error.log"), runErr)
		}
	}

	os.Exit(exitCode)
}
