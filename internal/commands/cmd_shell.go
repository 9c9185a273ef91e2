package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/saathi/internal/assistant"
	"github.com/colonyops/saathi/internal/core/planner"
	"github.com/colonyops/saathi/internal/core/registry"
	"github.com/colonyops/saathi/internal/core/styles"
	"github.com/colonyops/saathi/internal/printer"
	"github.com/colonyops/saathi/pkg/logutils"
)

const helpText = `# saathi

Type what you want done, in English, Hindi or Hinglish. The instruction is
turned into a plan and every step runs in the current directory.

| Command | |
|---|---|
| ` + "`help`" + ` | show this help |
| ` + "`info`" + ` | directory, running processes, watchers and recent history |
| ` + "`settings`" + ` | change the API key, language, log level and more |
| ` + "`cd <dir>`" + ` | change the session directory |
| ` + "`exit`" + ` | stop every process and watcher, then quit |

Examples:

- *create a node project called shop with express*
- *ek file banao notes.txt jisme "hello" likha ho*
- *start the dev server in the background*
`

type ShellCmd struct {
	flags *Flags
	in    io.Reader
}

// NewShellCmd creates the interactive shell command.
func NewShellCmd(flags *Flags) *ShellCmd {
	return &ShellCmd{flags: flags, in: os.Stdin}
}

// Register adds the shell command to the application.
func (cmd *ShellCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "shell",
		Usage:     "Start the interactive assistant (default)",
		UsageText: "saathi shell",
		Description: `Reads instructions line by line, asks the model for a plan and runs it.

Built-in commands: help, info, settings, cd, exit.`,
		Action: cmd.Run,
	})
	return app
}

// Run starts the read-eval loop. It returns when stdin closes, the user
// types exit or the process is interrupted; every tracked resource is
// released before it returns.
func (cmd *ShellCmd) Run(ctx context.Context, c *cli.Command) (err error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := printer.Ctx(ctx)
	if w, _, werr := term.GetSize(int(os.Stdout.Fd())); werr == nil {
		p.SetWidth(w)
	}

	if cmd.flags.ConfigErr != nil {
		p.Warnf("using default settings: %v", cmd.flags.ConfigErr)
	}

	sess, statsCloser, err := cmd.flags.newSession(ctx, func(ev registry.Event) { printEvent(p, ev) })
	if err != nil {
		return err
	}
	defer func() { _ = statsCloser.Close() }()

	defer func() {
		if r := recover(); r != nil {
			fatal := fmt.Errorf("panic: %v\n%s", r, debug.Stack())
			if ferr := logutils.AppendFatal(cmd.flags.ErrorLogPath(), fatal); ferr != nil {
				log.Error().Err(ferr).Msg("write error log")
			}
			log.Error().Interface("panic", r).Msg("shell crashed")
			_ = sess.Shutdown(context.Background())
			err = cli.Exit(fmt.Sprintf("saathi crashed: %v (details in %s)", r, cmd.flags.ErrorLogPath()), 1)
		}
	}()

	if !cmd.flags.hasAPIKey() {
		p.Warnf("no Gemini API key set; use 'settings' or GEMINI_API_KEY")
	}

	fmt.Fprintln(p.Out(), styles.BannerStyle.Render("saathi · type 'help' for commands"))

	input := newLineReader(cmd.in)

	for {
		sess.MarkAwaitingInput()
		cmd.prompt(p, sess)
		input.Next()

		line, ok := cmd.waitLine(ctx, p, sess, input)
		if !ok {
			fmt.Fprintln(p.Out())
			break
		}
		if exit := cmd.eval(ctx, p, sess, strings.TrimSpace(line)); exit {
			break
		}
	}

	p.Infof("stopping processes and watchers")
	if serr := sess.Shutdown(context.Background()); serr != nil {
		p.Warnf("cleanup: %v", serr)
	}
	return nil
}

// waitLine applies background events until the next line arrives. It
// reports false at EOF or when ctx is cancelled.
func (cmd *ShellCmd) waitLine(ctx context.Context, p *printer.Printer, sess *assistant.Session, input *lineReader) (string, bool) {
	for {
		select {
		case ev := <-sess.Registry().Events():
			fmt.Fprintln(p.Out())
			sess.HandleEvent(ctx, ev)
			cmd.prompt(p, sess)
		case line, ok := <-input.Lines():
			return line, ok
		case <-ctx.Done():
			return "", false
		}
	}
}

func (cmd *ShellCmd) prompt(p *printer.Printer, sess *assistant.Session) {
	fmt.Fprint(p.Out(), styles.MutedStyle.Render(sess.Cwd())+"\n"+styles.PromptStyle.Render("saathi> "))
}

// eval runs one line of input and reports whether the shell should exit.
func (cmd *ShellCmd) eval(ctx context.Context, p *printer.Printer, sess *assistant.Session, line string) bool {
	name, arg, _ := strings.Cut(line, " ")

	switch strings.ToLower(name) {
	case "":
		return false
	case "exit", "quit":
		return true
	case "help":
		p.Markdown(helpText)
	case "info":
		cmd.info(p, sess)
	case "settings":
		cmd.settings(ctx, p, sess)
	case "cd":
		if err := sess.Chdir(strings.TrimSpace(arg)); err != nil {
			p.Errorf("%v", err)
		}
	default:
		out, err := sess.Handle(ctx, line)
		if errors.Is(err, planner.ErrNoAPIKey) {
			p.Errorf("no Gemini API key set; run 'settings' to add one")
			return false
		}
		printOutcome(p, out, err)
	}
	return false
}

func (cmd *ShellCmd) info(p *printer.Printer, sess *assistant.Session) {
	cfg := sess.Config()

	p.Section("Session")
	p.Printf("  directory  %s", sess.Cwd())
	p.Printf("  language   %s", cfg.Language)
	p.Printf("  model      %s", cfg.Model)

	p.Section("Processes")
	printProcesses(p, sess.Processes())

	reg := sess.Registry()
	if watchers := reg.Watchers(); len(watchers) > 0 {
		p.Section("Watchers")
		for _, w := range watchers {
			line := "  " + w.Path
			if w.Pattern != "" {
				line += " " + p.MutedText(w.Pattern)
			}
			p.Printf("%s", line)
		}
	}
	if conns := reg.Conns(); len(conns) > 0 {
		p.Section("Connections")
		for _, c := range conns {
			p.Printf("  %s %s", c.DBType, p.MutedText(c.ConnString))
		}
	}

	p.Section("Recent commands")
	recent := sess.History().Recent(5)
	if len(recent) == 0 {
		p.Muted("  nothing yet")
	}
	for _, e := range recent {
		p.Printf("  %s %s", e.Command, p.MutedText(fmt.Sprintf("(%s, %s)", e.Type, humanize.Time(e.Timestamp))))
	}
	p.Printf("")
}

func (cmd *ShellCmd) settings(ctx context.Context, p *printer.Printer, sess *assistant.Session) {
	if !isInteractive() {
		p.Errorf("settings needs an interactive terminal")
		return
	}

	err := editSettings(p, sess.Config(), cmd.flags.ConfigPath, func(key string) {
		cfg := sess.Config()
		switch key {
		case "apiKey", "model":
			pl, err := newPlanner(ctx, cmd.flags.apiKey(), cfg.Model)
			if err != nil {
				p.Errorf("%v", err)
				return
			}
			sess.SetPlanner(pl)
		case "autoSave":
			sess.History().SetPersist(cfg.AutoSave)
		case "historyLimit":
			sess.History().SetLimit(cfg.HistoryLimit)
		case "logLevel":
			p.Infof("the new log level applies from the next start")
		}
	})
	if err != nil {
		p.Errorf("%v", err)
	}
}

// lineReader reads one line per request so interactive forms can use the
// terminal between requests. The goroutine stays blocked in Read when the
// shell returns mid-request; the process exits right after.
type lineReader struct {
	req   chan struct{}
	lines chan string
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{req: make(chan struct{}, 1), lines: make(chan string)}
	go func() {
		defer close(lr.lines)
		sc := bufio.NewScanner(r)
		for range lr.req {
			if !sc.Scan() {
				return
			}
			lr.lines <- sc.Text()
		}
	}()
	return lr
}

// Next requests the next line; it arrives on Lines. Lines is closed at EOF.
func (lr *lineReader) Next() { lr.req <- struct{}{} }

func (lr *lineReader) Lines() <-chan string { return lr.lines }

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
