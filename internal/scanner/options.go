package scanner

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"OsmoTools/internal/ledger"
	"OsmoTools/pkg/errs"
)

const DefaultWorkers = 20

// Prober looks up every coin balance held by an address.
type Prober interface {
	Balances(ctx context.Context, address string) ([]ledger.Coin, error)
}

type Options struct {
	Workers   int    // concurrent probes per file, DefaultWorkers when zero
	ResultDir string // where found_from_<file> is written
	Journal   string // optional JSONL file receiving every hit as soon as it is found

	Prober   Prober    // ledger.Client on ledger.DefaultEndpoint when nil
	Progress io.Writer // progress bar sink, os.Stdout when nil
}

func (o *Options) normalize() error {
	if o.Workers < 0 {
		return errors.Mark(errors.Newf("workers must not be negative, got %d", o.Workers), errs.Configuration)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.ResultDir == "" {
		return errors.Mark(errors.New("result dir must not be empty"), errs.Configuration)
	}
	if o.Prober == nil {
		c, err := ledger.New(ledger.DefaultEndpoint)
		if err != nil {
			return errors.Mark(err, errs.Configuration)
		}
		o.Prober = c
	}
	if o.Progress == nil {
		o.Progress = os.Stdout
	}
	return nil
}
