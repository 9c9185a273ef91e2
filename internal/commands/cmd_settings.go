package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/saathi/internal/printer"
)

type SettingsCmd struct {
	flags *Flags
}

// NewSettingsCmd creates the settings command.
func NewSettingsCmd(flags *Flags) *SettingsCmd {
	return &SettingsCmd{flags: flags}
}

// Register adds the settings command to the application.
func (cmd *SettingsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "settings",
		Usage:       "Edit saathi settings",
		UsageText:   "saathi settings",
		Description: "Opens the settings menu. Each change is validated and saved immediately.",
		Action:      cmd.run,
	})
	return app
}

func (cmd *SettingsCmd) run(ctx context.Context, c *cli.Command) error {
	if !isInteractive() {
		return cli.Exit("settings needs an interactive terminal; edit "+cmd.flags.ConfigPath+" instead", 1)
	}
	return editSettings(printer.Ctx(ctx), cmd.flags.Config, cmd.flags.ConfigPath, nil)
}
