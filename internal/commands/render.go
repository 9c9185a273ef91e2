package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/colonyops/saathi/internal/assistant"
	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/deploy"
	"github.com/colonyops/saathi/internal/core/fileops"
	"github.com/colonyops/saathi/internal/core/procs"
	"github.com/colonyops/saathi/internal/core/registry"
	"github.com/colonyops/saathi/internal/printer"
)

// printOutcome prints the plan description, every action result and the
// error that stopped the plan, if any.
func printOutcome(p *printer.Printer, out *assistant.Outcome, err error) {
	if out != nil && out.Plan != nil && out.Plan.Context.Description != "" {
		p.Markdown(out.Plan.Context.Description)
	}

	if out != nil {
		for _, res := range out.Results {
			printResult(p, res, "")
		}
		if out.Skipped > 0 {
			p.Warnf("skipped %d action(s) of unknown type", out.Skipped)
		}
	}

	if err != nil {
		p.Errorf("%v", err)
	}
}

func printResult(p *printer.Printer, res action.Result, indent string) {
	label := res.Message
	if label == "" {
		label = strings.TrimSpace(string(res.Kind) + " " + res.Action)
	}

	if res.Success {
		p.Successf("%s%s", indent, label)
	} else {
		p.Errorf("%s%s", indent, label)
	}

	if res.Notice != "" {
		p.Warnf("%s%s", indent, res.Notice)
	}
	if res.Cwd != "" {
		p.Infof("%snow in %s", indent, res.Cwd)
	}
	p.Muted(res.Output)
	if res.Content != "" {
		p.Printf("%s", res.Content)
	}
	printData(p, res.Data)

	for _, step := range res.Steps {
		printResult(p, step, indent+"  ")
	}
}

func printData(p *printer.Printer, data any) {
	switch v := data.(type) {
	case nil:
	case []fileops.Entry:
		for _, e := range v {
			if e.IsDir {
				p.Printf("  %s/", e.Name)
				continue
			}
			p.Printf("  %s %s", e.Name, p.MutedText(humanize.Bytes(uint64(max(e.Size, 0)))))
		}
	case []procs.Info:
		printProcesses(p, v)
	case []deploy.Uploaded:
		for _, u := range v {
			p.Printf("  s3://%s/%s %s", u.Bucket, u.Key, p.MutedText(humanize.Bytes(uint64(max(u.Size, 0)))))
		}
	default:
		bits, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			p.Printf("%v", v)
			return
		}
		p.Muted(string(bits))
	}
}

func printProcesses(p *printer.Printer, list []procs.Info) {
	if len(list) == 0 {
		p.Muted("  no running processes")
		return
	}
	now := time.Now()
	for _, info := range list {
		up := strings.TrimSpace(humanize.RelTime(now.Add(-time.Duration(info.UptimeSeconds*float64(time.Second))), now, "", ""))
		line := fmt.Sprintf("  %s (pid %d) %s", info.Name, info.PID, p.MutedText("up "+up+": "+info.Command))
		if info.LogFile != "" {
			line += p.MutedText(" > " + info.LogFile)
		}
		p.Printf("%s", line)
	}
}

// printEvent reports a background event applied by the shell loop.
func printEvent(p *printer.Printer, ev registry.Event) {
	switch ev.Kind {
	case registry.EventProcessExited:
		if ev.ExitCode == 0 {
			p.Infof("process %s exited", ev.Name)
			return
		}
		p.Warnf("process %s exited with code %d", ev.Name, ev.ExitCode)
	case registry.EventWatchChange:
		p.Muted(fmt.Sprintf("%s %s", strings.ToLower(ev.Op), ev.Path))
	}
}
