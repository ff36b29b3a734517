package generator

import (
	"runtime"

	"github.com/cockroachdb/errors"

	"OsmoTools/internal/mnemonic"
	"OsmoTools/internal/wallet"
	"OsmoTools/pkg/errs"
)

// Deriver produces one fresh credential for the given entropy strength.
// Implementations must be safe for concurrent use.
type Deriver interface {
	Derive(strength int) (wallet.Credential, error)
}

type Options struct {
	Total     int    // credentials to produce
	Words     int    // mnemonic word count: 12|15|18|21|24
	BatchSize int    // credentials per shard file
	Workers   int    // derivation goroutines per round, 0 = GOMAXPROCS
	OutputDir string // shard directory

	Passphrase    string // BIP-39 passphrase (not encryption!)
	ProgressEvery int    // progress line cadence, 0 disables

	Deriver Deriver // mnemonic.OsmoDeriver when nil
}

// normalize validates o and fills defaults. It returns the entropy strength.
func (o *Options) normalize() (int, error) {
	strength, err := wallet.StrengthForWords(o.Words)
	if err != nil {
		return 0, err
	}
	if o.Total <= 0 {
		return 0, configErrorf("count must be positive, got %d", o.Total)
	}
	if o.BatchSize <= 0 {
		return 0, configErrorf("batch size must be positive, got %d", o.BatchSize)
	}
	if o.BatchSize > o.Total {
		o.BatchSize = o.Total
	}
	if o.Workers < 0 {
		return 0, configErrorf("workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.OutputDir == "" {
		return 0, configErrorf("output dir must not be empty")
	}
	if o.Deriver == nil {
		o.Deriver = mnemonic.OsmoDeriver{Passphrase: o.Passphrase}
	}
	return strength, nil
}

func configErrorf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), errs.Configuration)
}
