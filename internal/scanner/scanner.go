package scanner

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"OsmoTools/internal/pool"
	"OsmoTools/internal/progress"
	"OsmoTools/internal/shard"
	"OsmoTools/internal/wallet"
	"OsmoTools/pkg/errs"
	"OsmoTools/pkg/logx"
)

// ErrNotFunded is the outcome for an address whose FeeDenom balance is zero or absent.
var ErrNotFunded = errors.New("no positive " + wallet.FeeDenom + " balance")

// FileReport describes the scan of one input file.
type FileReport struct {
	Input       string `json:"input"`
	Output      string `json:"output,omitempty"`
	Total       int    `json:"total"`
	Checked     int    `json:"checked"`
	Found       int    `json:"found"`
	Failed      int    `json:"failed"`
	Interrupted bool   `json:"interrupted,omitempty"`
	Error       string `json:"error,omitempty"`
}

type Summary struct {
	Files       []FileReport  `json:"files"`
	Checked     int           `json:"checked"`
	Found       int           `json:"found"`
	Failed      int           `json:"failed"`
	Interrupted bool          `json:"interrupted"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Run scans files one after another. Each file gets its own pool of
// opt.Workers probes, and the next file starts only once that pool drained.
//
// Cancelling ctx stops the current file early: the hits collected so far are
// written and no further file is started. An input that cannot be read is
// reported and skipped; failing to write an output is errs.Fatal.
func Run(ctx context.Context, files []string, opt Options) (Summary, error) {
	if err := opt.normalize(); err != nil {
		return Summary{}, err
	}
	if err := os.MkdirAll(opt.ResultDir, 0o755); err != nil {
		return Summary{}, errors.Mark(errors.Wrapf(err, "create result dir %q", opt.ResultDir), errs.Fatal)
	}

	app := logx.With("scan")
	app.Infow("scan started", "files", len(files), "workers", opt.Workers, "result_dir", opt.ResultDir)

	start := time.Now()
	sum := Summary{Files: []FileReport{}}
	finish := func(runErr error) (Summary, error) {
		sum.Checked = lo.SumBy(sum.Files, func(r FileReport) int { return r.Checked })
		sum.Found = lo.SumBy(sum.Files, func(r FileReport) int { return r.Found })
		sum.Failed = lo.SumBy(sum.Files, func(r FileReport) int { return r.Failed })
		sum.Elapsed = time.Since(start)
		kv := []any{
			"files", len(sum.Files),
			"checked", sum.Checked,
			"found", sum.Found,
			"failed", sum.Failed,
			"elapsed", progress.HumanDuration(sum.Elapsed),
		}
		switch {
		case runErr != nil:
			app.Errorw("scan aborted", append(kv, "err", runErr)...)
		case sum.Interrupted:
			app.Warnw("scan interrupted, partial results saved", kv...)
		default:
			app.Infow("all files processed", kv...)
		}
		return sum, runErr
	}

	for _, file := range files {
		if ctx.Err() != nil {
			sum.Interrupted = true
			break
		}
		rep, err := scanFile(ctx, file, opt, app)
		sum.Files = append(sum.Files, rep)
		if err != nil {
			return finish(err)
		}
		if rep.Interrupted {
			sum.Interrupted = true
			break
		}
	}
	return finish(nil)
}

func scanFile(ctx context.Context, path string, opt Options, app *zap.SugaredLogger) (FileReport, error) {
	rep := FileReport{Input: path}
	app.Infow("processing file", "file", path)

	creds, err := shard.Read(path)
	if err != nil {
		rep.Error = err.Error()
		app.Errorw("skip unreadable file", "file", path, "err", err)
		return rep, nil
	}
	rep.Total = len(creds)

	fileCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := pool.Start(fileCtx, opt.Workers, len(creds), func(ctx context.Context, i int) (wallet.ScanResult, error) {
		return Check(ctx, opt.Prober, creds[i])
	})

	bar := progress.NewBar(app, opt.Progress, "checking "+filepath.Base(path), len(creds))
	hits := make([]*wallet.ScanResult, len(creds))

collect:
	for rep.Checked < len(creds) {
		select {
		case <-ctx.Done():
			rep.Interrupted = true
			break collect
		case r, ok := <-results:
			if !ok {
				rep.Interrupted = ctx.Err() != nil
				break collect
			}
			rep.Checked++
			bar.Add(1)
			switch {
			case r.Err == nil:
				hits[r.Index] = &r.Value
				rep.Found++
				app.Infow("FOUND", "address", r.Value.Address, wallet.FeeDenom, r.Value.UOsmo.String())
				journal(opt.Journal, r.Value, app)
			case errors.Is(r.Err, ErrNotFunded):
			default:
				rep.Failed++
				app.Debugw("probe failed", "address", creds[r.Index].Address, "err", r.Err)
			}
		}
	}
	bar.Finish()

	// input order, so repeated scans of one file produce identical output
	found := make([]wallet.ScanResult, 0, rep.Found)
	for _, h := range hits {
		if h != nil {
			found = append(found, *h)
		}
	}

	out := filepath.Join(opt.ResultDir, shard.FoundName(path))
	if err := shard.Write(out, found); err != nil {
		return rep, errors.Mark(errors.Wrapf(err, "write results of %q", path), errs.Fatal)
	}
	rep.Output = out
	app.Infow("file scanned",
		"file", path,
		"found", rep.Found,
		"checked", rep.Checked,
		"failed", rep.Failed,
		"output", out,
	)
	return rep, nil
}

// Check probes one credential. A positive FeeDenom balance yields a
// ScanResult; a zero or missing one yields ErrNotFunded; anything that went
// wrong while probing is an errs.Recoverable error.
func Check(ctx context.Context, p Prober, c wallet.Credential) (res wallet.ScanResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Mark(errors.Newf("probe %s panicked: %v", c.Address, r), errs.Recoverable)
		}
	}()

	coins, err := p.Balances(ctx, c.Address)
	if err != nil {
		return wallet.ScanResult{}, errors.Mark(errors.Wrapf(err, "probe %s", c.Address), errs.Recoverable)
	}
	for _, coin := range coins {
		if coin.Denom != wallet.FeeDenom {
			continue
		}
		amount, err := wallet.ParseAmount(coin.Amount)
		if err != nil {
			return wallet.ScanResult{}, errors.Mark(err, errs.Recoverable)
		}
		if !amount.IsPositive() {
			return wallet.ScanResult{}, ErrNotFunded
		}
		return wallet.ScanResult{Credential: c, UOsmo: amount}, nil
	}
	return wallet.ScanResult{}, ErrNotFunded
}

func journal(path string, res wallet.ScanResult, app *zap.SugaredLogger) {
	if path == "" {
		return
	}
	b, err := json.Marshal(res)
	if err == nil {
		err = shard.AppendJSONL(path, b)
	}
	if err != nil {
		app.Errorw("journal append failed", "journal", path, "address", res.Address, "err", err)
	}
}
