package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/saathi/internal/core/planner"
	"github.com/colonyops/saathi/internal/printer"
)

type AskCmd struct {
	flags *Flags
}

// NewAskCmd creates the one-shot instruction command.
func NewAskCmd(flags *Flags) *AskCmd {
	return &AskCmd{flags: flags}
}

// Register adds the ask command to the application.
func (cmd *AskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ask",
		Usage:     "Run a single instruction and exit",
		UsageText: "saathi ask <instruction...>",
		Description: `Sends one instruction to the model, runs the resulting plan and exits.

Processes started in the background are stopped when the command returns.`,
		Action: cmd.run,
	})
	return app
}

func (cmd *AskCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	instruction := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if instruction == "" {
		return cli.Exit("usage: saathi ask <instruction...>", 1)
	}

	sess, statsCloser, err := cmd.flags.newSession(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = statsCloser.Close() }()
	defer func() { _ = sess.Shutdown(context.Background()) }()

	out, err := sess.Handle(ctx, instruction)
	sess.Sync(ctx)

	if errors.Is(err, planner.ErrNoAPIKey) {
		return cli.Exit("no Gemini API key set; run 'saathi settings' or set GEMINI_API_KEY", 1)
	}
	printOutcome(p, out, err)
	if err != nil {
		return cli.Exit("", 1)
	}
	return nil
}
