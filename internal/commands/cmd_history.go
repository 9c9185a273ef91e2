package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/saathi/internal/core/history"
	"github.com/colonyops/saathi/internal/printer"
	"github.com/colonyops/saathi/internal/store/jsonfile"
	"github.com/colonyops/saathi/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags
	json  bool
	limit int
	clear bool
}

// NewHistoryCmd creates the history command.
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application.
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "Show saved instructions",
		UsageText: "saathi history [--json] [--limit n] [--clear]",
		Description: `Lists instructions saved from earlier sessions, newest first.

Instructions are saved when the autoSave setting is on.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.json,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum entries to show (0 for all)",
				Value:       20,
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "delete the saved history",
				Destination: &cmd.clear,
			},
		},
		Action: cmd.run,
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show one saved instruction",
				UsageText: "saathi history show [--json] <id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.json,
					},
				},
				Action: cmd.show,
			},
		},
	})
	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	store := jsonfile.NewHistoryStore(cmd.flags.HistoryPath())

	if cmd.clear {
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		p.Successf("History cleared")
		return nil
	}

	entries, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if cmd.limit > 0 && len(entries) > cmd.limit {
		entries = entries[:cmd.limit]
	}

	if cmd.json {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, entries)
	}

	if len(entries) == 0 {
		p.Infof("No saved history")
		return nil
	}

	for _, e := range entries {
		p.Printf("%s %s", e.Command, p.MutedText(fmt.Sprintf("%s · %s · %s", e.Type, humanize.Time(e.Timestamp), e.ID)))
		if e.Description != "" {
			p.Muted("  " + e.Description)
		}
	}
	return nil
}

func (cmd *HistoryCmd) show(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("usage: saathi history show <id>", 1)
	}

	entry, err := jsonfile.NewHistoryStore(cmd.flags.HistoryPath()).Get(ctx, id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return cli.Exit(fmt.Sprintf("no history entry %q", id), 1)
		}
		return fmt.Errorf("read history: %w", err)
	}

	if cmd.json {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, entry)
	}

	p := printer.Ctx(ctx)
	p.Printf("%s", entry.Command)
	p.Printf("  type  %s", entry.Type)
	p.Printf("  when  %s (%s)", entry.Timestamp.Format("2006-01-02 15:04:05"), humanize.Time(entry.Timestamp))
	p.Printf("  id    %s", entry.ID)
	if entry.Description != "" {
		p.Markdown(entry.Description)
	}
	return nil
}
