package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"OsmoTools/internal/generator"
	"OsmoTools/internal/ledger"
	"OsmoTools/internal/logsink"
	"OsmoTools/internal/progress"
	"OsmoTools/internal/scanner"
	"OsmoTools/internal/shard"
	"OsmoTools/pkg/appcfg"
	"OsmoTools/pkg/errs"
	"OsmoTools/pkg/i18n"
	"OsmoTools/pkg/logx"
)

// App carries what both the cobra commands and the interactive menu need.
type App struct {
	Config *appcfg.Config
	Msg    i18n.Messages
	Out    io.Writer

	Deriver generator.Deriver // mnemonic.OsmoDeriver when nil
	Prober  scanner.Prober    // ledger.Client on the configured endpoint when nil
}

func NewApp(cfg *appcfg.Config) *App {
	if cfg == nil {
		cfg = appcfg.Default()
	}
	return &App{Config: cfg, Msg: i18n.Get(cfg.Language), Out: os.Stdout}
}

type GenerateRequest struct {
	Options generator.Options
	Hint    string // stored as hint.txt next to the run log
}

type ScanRequest struct {
	Files    []string // discovered in InputDir when empty
	InputDir string
	Endpoint string
	Timeout  time.Duration
	Headers  map[string]string // sent with every balance request
	Options  scanner.Options
}

// ConsoleLog (re)initializes the console-only logger.
func (a *App) ConsoleLog() error {
	return logx.Init(logx.Config{
		Level:                a.Config.LogLevel,
		ConsoleOnly:          true,
		HideSecretsInConsole: a.Config.HideSecretsInConsole,
		Console:              a.Out,
	})
}

func (a *App) Generate(ctx context.Context, req GenerateRequest) (generator.Summary, error) {
	opt := req.Options
	if opt.Deriver == nil {
		opt.Deriver = a.Deriver
	}

	var sum generator.Summary
	err := a.runLogged("generate", func(dir string) (any, error) {
		if dir != "" {
			if err := logsink.WriteHint(dir, req.Hint); err != nil {
				logx.S().Warnw("write hint failed", "dir", dir, "err", err)
			}
		}
		var err error
		sum, err = generator.Run(ctx, opt)
		return sum, err
	})
	if err != nil {
		return sum, err
	}
	fmt.Fprintf(a.Out, a.Msg.GenerateDone, sum.Processed, sum.Total, len(sum.Shards), progress.HumanDuration(sum.Elapsed))
	return sum, nil
}

func (a *App) Scan(ctx context.Context, req ScanRequest) (scanner.Summary, error) {
	opt := req.Options
	if opt.Prober == nil {
		opt.Prober = a.Prober
	}
	if opt.Prober == nil {
		client, err := ledger.New(req.Endpoint, ledger.Config{
			Timeout: req.Timeout,
			Headers: req.Headers,
			Debug:   strings.EqualFold(a.Config.LogLevel, "debug"),
		})
		if err != nil {
			return scanner.Summary{}, errors.Mark(err, errs.Configuration)
		}
		opt.Prober = client
	}

	files := req.Files
	if len(files) == 0 {
		found, err := shard.Discover(req.InputDir, opt.ResultDir)
		if err != nil {
			return scanner.Summary{}, errors.Mark(err, errs.Configuration)
		}
		files = found
	}
	if len(files) == 0 {
		fmt.Fprintf(a.Out, a.Msg.NoInputFiles, req.InputDir)
		return scanner.Summary{Files: []scanner.FileReport{}}, nil
	}

	var sum scanner.Summary
	err := a.runLogged("scan", func(string) (any, error) {
		var err error
		sum, err = scanner.Run(ctx, files, opt)
		return sum, err
	})
	if err != nil {
		return sum, err
	}
	fmt.Fprintf(a.Out, a.Msg.ScanDone, sum.Checked, sum.Found, sum.Failed, progress.HumanDuration(sum.Elapsed))
	return sum, nil
}

// runLogged gives one run its own log directory with app.log and, once fn
// returns, summary.json. With LogsDir empty fn runs on the console logger.
func (a *App) runLogged(module string, fn func(dir string) (any, error)) error {
	if a.Config.LogsDir == "" {
		_, err := fn("")
		return err
	}

	dir, err := logsink.MakeModuleDirs(a.Config.LogsDir, module)
	if err != nil {
		return errors.Mark(err, errs.Fatal)
	}
	if err := logx.Init(logx.Config{
		Level:                a.Config.LogLevel,
		FilePath:             filepath.Join(dir, "app.log"),
		HideSecretsInConsole: a.Config.HideSecretsInConsole,
		Console:              a.Out,
	}); err != nil {
		return errors.Mark(err, errs.Fatal)
	}
	defer func() {
		if err := a.ConsoleLog(); err != nil {
			fmt.Fprintf(os.Stderr, "log init: %v\n", err)
		}
	}()

	summary, runErr := fn(dir)
	if err := logsink.WriteSummary(dir, summary); err != nil {
		logx.S().Errorw("write summary failed", "dir", dir, "err", err)
	}
	return runErr
}
