package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/saathi/internal/core/plan"
	"github.com/colonyops/saathi/internal/printer"
	"github.com/colonyops/saathi/pkg/iojson"
)

type PlanCmd struct {
	flags      *Flags
	runInput   iojson.InputFile
	checkInput iojson.InputFile
}

// NewPlanCmd creates the plan command.
func NewPlanCmd(flags *Flags) *PlanCmd {
	return &PlanCmd{flags: flags}
}

// Register adds the plan command and its subcommands to the application.
func (cmd *PlanCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "plan",
		Usage: "Run or check a plan file without the model",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Execute a plan file",
				UsageText: "saathi plan run [-f plan.json|plan.yaml]",
				Description: `Executes the actions of a JSON or YAML plan in order, in the current directory.

Reads from stdin when no file is given.`,
				Flags:  []cli.Flag{cmd.runInput.Flag()},
				Action: cmd.run,
			},
			{
				Name:        "check",
				Usage:       "Parse and validate a plan file",
				UsageText:   "saathi plan check [-f plan.json|plan.yaml]",
				Description: "Validates every action against its schema and prints what would run.",
				Flags:       []cli.Flag{cmd.checkInput.Flag()},
				Action:      cmd.check,
			},
		},
	})
	return app
}

func (cmd *PlanCmd) load(in *iojson.InputFile) (*plan.Plan, error) {
	data, ext, err := in.Read()
	if err != nil {
		return nil, err
	}
	return plan.Decode(data, ext)
}

func (cmd *PlanCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	pl, err := cmd.load(&cmd.runInput)
	if err != nil {
		return err
	}

	sess, statsCloser, err := cmd.flags.newSession(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = statsCloser.Close() }()
	defer func() { _ = sess.Shutdown(context.Background()) }()

	out, err := sess.Execute(ctx, pl)
	sess.Sync(ctx)

	printOutcome(p, out, err)
	if err != nil {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *PlanCmd) check(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	pl, err := cmd.load(&cmd.checkInput)
	if err != nil {
		return err
	}

	if pl.Context.Description != "" {
		p.Markdown(pl.Context.Description)
	}

	valid := true
	for i, a := range pl.Actions {
		label := fmt.Sprintf("%d. %s", i+1, a.Summary())
		if err := a.Validate(); err != nil {
			valid = false
			p.FailItem(label, err.Error())
			continue
		}
		p.CheckItem(label, "")
	}

	if !valid {
		return cli.Exit("", 1)
	}
	p.Successf("plan is valid (%d actions)", len(pl.Actions))
	return nil
}
