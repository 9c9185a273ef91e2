// Package printer writes styled status lines for commands and the shell.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/colonyops/saathi/internal/core/styles"
)

type ctxKey struct{}

// Printer writes styled output. Errors and warnings go to the error writer.
type Printer struct {
	out   io.Writer
	err   io.Writer
	width int
}

// New creates a printer writing to out and errOut.
func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, err: errOut, width: 80}
}

// NewContext attaches p to ctx.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer attached to ctx, or one writing to stdout/stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout, os.Stderr)
}

// Out returns the standard output writer.
func (p *Printer) Out() io.Writer { return p.out }

// SetWidth sets the wrap width used for markdown.
func (p *Printer) SetWidth(w int) {
	if w > 0 {
		p.width = w
	}
}

func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, styles.SuccessStyle.Render("✔ "+msg))
}

func (p *Printer) Successf(format string, args ...any) {
	p.Success(fmt.Sprintf(format, args...))
}

func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintln(p.out, styles.InfoStyle.Render("• "+fmt.Sprintf(format, args...)))
}

func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintln(p.err, styles.WarningStyle.Render("! "+fmt.Sprintf(format, args...)))
}

func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintln(p.err, styles.ErrorStyle.Render("✘ "+fmt.Sprintf(format, args...)))
}

// Muted prints secondary text such as command output.
func (p *Printer) Muted(text string) {
	if text == "" {
		return
	}
	fmt.Fprintln(p.out, styles.MutedStyle.Render(text))
}

// MutedText renders text in the muted style without printing it.
func (p *Printer) MutedText(text string) string {
	return styles.MutedStyle.Render(text)
}

// Section prints a header followed by a divider.
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, styles.HeaderStyle.Render(title))
	fmt.Fprintln(p.out, styles.DividerStyle.Render(strings.Repeat("─", min(len(title)+4, p.width))))
}

func (p *Printer) CheckItem(label, detail string) {
	p.item(styles.SuccessStyle.Render("✔"), label, detail)
}

func (p *Printer) WarnItem(label, detail string) {
	p.item(styles.WarningStyle.Render("!"), label, detail)
}

func (p *Printer) FailItem(label, detail string) {
	p.item(styles.ErrorStyle.Render("✘"), label, detail)
}

func (p *Printer) item(icon, label, detail string) {
	if detail == "" {
		fmt.Fprintf(p.out, "  %s %s\n", icon, label)
		return
	}
	fmt.Fprintf(p.out, "  %s %s %s\n", icon, label, styles.MutedStyle.Render(detail))
}

// Markdown renders md with glamour.
func (p *Printer) Markdown(md string) {
	fmt.Fprint(p.out, styles.RenderMarkdown(md, p.width))
}
