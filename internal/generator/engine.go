package generator

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"OsmoTools/internal/pool"
	"OsmoTools/internal/progress"
	"OsmoTools/internal/shard"
	"OsmoTools/internal/wallet"
	"OsmoTools/pkg/errs"
	"OsmoTools/pkg/logx"
)

// Summary reports what a run persisted.
type Summary struct {
	Total       int           `json:"total"`
	Processed   int           `json:"processed"`
	Shards      []string      `json:"shards"`
	Interrupted bool          `json:"interrupted"`
	Elapsed     time.Duration `json:"elapsed"`
}

// runState is owned by the goroutine executing Run. Interruption arrives as
// cancellation of the caller's context and is latched here once observed.
type runState struct {
	processed   int
	shardIndex  int
	start       time.Time
	interrupted bool
}

// Run derives opt.Total credentials into shard files of opt.BatchSize entries.
//
// Each round dispatches at most BatchSize derivations to a fresh pool and
// collects them in completion order. Cancelling ctx ends the run after the
// current round: whatever the round collected so far is still written. A
// failed derivation or shard write is returned as an errs.Fatal error after
// the collected part of the round has been flushed.
func Run(ctx context.Context, opt Options) (Summary, error) {
	requestedBatch := opt.BatchSize
	strength, err := opt.normalize()
	if err != nil {
		return Summary{}, err
	}
	if err := os.MkdirAll(opt.OutputDir, 0o755); err != nil {
		return Summary{}, errors.Mark(errors.Wrapf(err, "create output dir %q", opt.OutputDir), errs.Fatal)
	}

	app := logx.With("generate")
	if requestedBatch != opt.BatchSize {
		app.Warnw("batch size exceeds count, clamped", "requested", requestedBatch, "batch_size", opt.BatchSize)
	}
	app.Infow("generation started",
		"total", opt.Total,
		"words", opt.Words,
		"strength", strength,
		"batch_size", opt.BatchSize,
		"workers", opt.Workers,
		"output", opt.OutputDir,
	)

	st := &runState{start: time.Now()}
	counter := progress.NewCounter(app, opt.ProgressEvery, opt.Total, st.start)
	sum := Summary{Total: opt.Total, Shards: []string{}}

	finish := func(runErr error) (Summary, error) {
		sum.Processed = st.processed
		sum.Interrupted = st.interrupted
		sum.Elapsed = time.Since(st.start)
		kv := []any{
			"processed", sum.Processed,
			"total", sum.Total,
			"shards", len(sum.Shards),
			"elapsed", progress.HumanDuration(sum.Elapsed),
		}
		switch {
		case runErr != nil:
			app.Errorw("generation aborted", append(kv, "err", runErr)...)
		case st.interrupted:
			app.Warnw("generation interrupted, progress saved", kv...)
		default:
			app.Infow("generation finished", kv...)
		}
		return sum, runErr
	}

	for st.processed < opt.Total && !st.interrupted {
		if ctx.Err() != nil {
			st.interrupted = true
			break
		}

		n := min(opt.BatchSize, opt.Total-st.processed)
		batch, roundErr := collectRound(ctx, opt.Deriver, strength, opt.Workers, n, st, counter)

		path := filepath.Join(opt.OutputDir, shard.GeneratedName(st.shardIndex))
		if err := shard.Write(path, batch); err != nil {
			return finish(errors.Mark(errors.Wrapf(err, "write batch %d", st.shardIndex), errs.Fatal))
		}
		sum.Shards = append(sum.Shards, path)
		app.Infow("batch saved", "batch", st.shardIndex, "wallets", len(batch), "file", path)
		st.shardIndex++

		if roundErr != nil {
			return finish(roundErr)
		}
	}
	return finish(nil)
}

// collectRound runs n derivations on a pool of workers and gathers the
// results until all arrived, ctx is cancelled, or a derivation fails.
// Returning cancels the round, so no further derivations are dispatched;
// ones already running are not awaited.
func collectRound(
	ctx context.Context,
	deriver Deriver,
	strength int,
	workers int,
	n int,
	st *runState,
	counter *progress.Counter,
) ([]wallet.Credential, error) {
	roundCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := pool.Start(roundCtx, workers, n, func(context.Context, int) (wallet.Credential, error) {
		return derive(deriver, strength)
	})

	batch := make([]wallet.Credential, 0, n)
	for {
		if ctx.Err() != nil {
			st.interrupted = true
			return batch, nil
		}
		select {
		case <-ctx.Done():
			st.interrupted = true
			return batch, nil
		case r, ok := <-results:
			if !ok {
				if ctx.Err() != nil {
					st.interrupted = true
				}
				return batch, nil
			}
			if r.Err != nil {
				return batch, errors.Mark(
					errors.Wrapf(r.Err, "derive credential %d of batch %d", r.Index, st.shardIndex),
					errs.Fatal,
				)
			}
			batch = append(batch, r.Value)
			st.processed++
			counter.Observe(st.processed)
		}
	}
}

// derive converts a panicking deriver into an error so it is reported like
// any other derivation failure.
func derive(d Deriver, strength int) (c wallet.Credential, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("deriver panicked: %v", r)
		}
	}()
	c, err = d.Derive(strength)
	if err == nil && c.Address == "" {
		err = errors.New("deriver returned an empty address")
	}
	return c, err
}
