package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/saathi/internal/core/doctor"
	"github.com/colonyops/saathi/internal/core/styles"
	"github.com/colonyops/saathi/internal/printer"
	"github.com/colonyops/saathi/pkg/executil"
	"github.com/colonyops/saathi/pkg/iojson"
)

type DoctorCmd struct {
	flags *Flags
	json  bool
}

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

// Register adds the doctor command to the application.
func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Check tools and settings",
		UsageText:   "saathi doctor [--json]",
		Description: "Checks that git, node, npm and pip are installed and that the configuration is usable.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	results := doctor.RunAll(ctx, []doctor.Check{
		doctor.NewToolsCheck(&executil.RealExecutor{}),
		doctor.NewConfigCheck(cmd.flags.Config, cmd.flags.ConfigPath, cmd.flags.ConfigErr),
	})
	passed, warned, failed := doctor.Summary(results)

	if cmd.json {
		out := struct {
			Healthy bool            `json:"healthy"`
			Summary summaryJSON     `json:"summary"`
			Checks  []doctor.Result `json:"checks"`
		}{
			Healthy: failed == 0,
			Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
			Checks:  results,
		}
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out); err != nil {
			return err
		}
	} else {
		cmd.printText(printer.Ctx(ctx), results, passed, warned, failed)
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *DoctorCmd) printText(p *printer.Printer, results []doctor.Result, passed, warned, failed int) {
	for _, result := range results {
		p.Section(result.Name)
		for _, item := range result.Items {
			switch item.Status {
			case doctor.StatusPass:
				p.CheckItem(item.Label, item.Detail)
			case doctor.StatusWarn:
				p.WarnItem(item.Label, item.Detail)
			case doctor.StatusFail:
				p.FailItem(item.Label, item.Detail)
			}
		}
	}

	p.Printf("")
	p.Printf("%s  %s  %s",
		styles.SuccessStyle.Render(fmt.Sprintf("%d passed", passed)),
		styles.WarningStyle.Render(fmt.Sprintf("%d warnings", warned)),
		styles.ErrorStyle.Render(fmt.Sprintf("%d failed", failed)),
	)
}
