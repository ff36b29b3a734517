package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"OsmoTools/internal/generator"
	"OsmoTools/internal/scanner"
	"OsmoTools/pkg/logx"
)

// Runner is the interactive menu shown when osmotools starts without a subcommand.
type Runner struct {
	app *App
	in  *bufio.Reader
}

func NewRunner(a *App, in io.Reader) *Runner {
	return &Runner{app: a, in: bufio.NewReader(in)}
}

func (r *Runner) prompt() string {
	text, _ := r.in.ReadString('\n')
	return strings.TrimSpace(text)
}

func (r *Runner) askInt(question string, def int) int {
	fmt.Fprint(r.app.Out, question)
	if n, err := strconv.Atoi(r.prompt()); err == nil && n > 0 {
		return n
	}
	return def
}

func (r *Runner) askString(question, def string) string {
	fmt.Fprint(r.app.Out, question)
	if s := r.prompt(); s != "" {
		return s
	}
	return def
}

func (r *Runner) askYes(question string) bool {
	fmt.Fprint(r.app.Out, question)
	yn := strings.ToLower(r.prompt())
	return yn == "y" || yn == "yes" || yn == "д" || yn == "да"
}

func (r *Runner) Run(ctx context.Context) error {
	m := r.app.Msg
	for {
		fmt.Fprintln(r.app.Out)
		fmt.Fprintln(r.app.Out, m.MenuTitle)
		fmt.Fprintln(r.app.Out, m.MenuGenerate)
		fmt.Fprintln(r.app.Out, m.MenuScan)
		fmt.Fprintln(r.app.Out, m.MenuExit)
		fmt.Fprint(r.app.Out, "> ")

		choice := strings.ToLower(r.prompt())
		switch choice {
		case "1":
			r.handleGenerate(ctx)
		case "2":
			r.handleScan(ctx)
		case "0", "":
			fmt.Fprintln(r.app.Out, m.ExitText)
			return nil
		default:
			fmt.Fprintln(r.app.Out, m.UnknownCommand, choice)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (r *Runner) handleGenerate(ctx context.Context) {
	m := r.app.Msg
	g := r.app.Config.Generate

	req := GenerateRequest{Options: generator.Options{
		Total:         r.askInt(fmt.Sprintf(m.PromptCount, g.Count), g.Count),
		Words:         r.askInt(fmt.Sprintf(m.PromptWords, g.Words), g.Words),
		BatchSize:     r.askInt(fmt.Sprintf(m.PromptBatchSize, g.BatchSize), g.BatchSize),
		Workers:       r.app.Config.Cores,
		OutputDir:     g.OutputDir,
		ProgressEvery: g.ProgressEvery,
	}}
	if r.askYes(m.PromptUsePass) {
		fmt.Fprint(r.app.Out, m.PromptPass)
		req.Options.Passphrase = r.prompt()
		fmt.Fprint(r.app.Out, m.PromptHint)
		req.Hint = r.prompt()
	}

	runCtx, stop := withInterrupt(ctx, r.app.Out, m.Interrupted)
	defer stop()
	logx.S().Infow("start generation", "count", req.Options.Total, "words", req.Options.Words, "use_passphrase", req.Options.Passphrase != "")
	if _, err := r.app.Generate(runCtx, req); err != nil {
		logx.S().Errorw("generation error", "err", err)
		fmt.Fprintf(r.app.Out, m.RunFailed, err)
	}
}

func (r *Runner) handleScan(ctx context.Context) {
	m := r.app.Msg
	s := r.app.Config.Scan

	req := ScanRequest{
		InputDir: r.askString(fmt.Sprintf(m.PromptInputDir, s.InputDir), s.InputDir),
		Endpoint: r.askString(fmt.Sprintf(m.PromptEndpoint, s.Endpoint), s.Endpoint),
		Timeout:  s.Timeout,
		Headers:  s.EndpointHeaders,
		Options: scanner.Options{
			Workers:   r.askInt(fmt.Sprintf(m.PromptWorkers, s.Workers), s.Workers),
			ResultDir: s.ResultDir,
			Journal:   s.Journal,
			Progress:  r.app.Out,
		},
	}

	runCtx, stop := withInterrupt(ctx, r.app.Out, m.Interrupted)
	defer stop()
	logx.S().Infow("start scan", "input_dir", req.InputDir, "endpoint", req.Endpoint, "workers", req.Options.Workers)
	if _, err := r.app.Scan(runCtx, req); err != nil {
		logx.S().Errorw("scan error", "err", err)
		fmt.Fprintf(r.app.Out, m.RunFailed, err)
	}
}
