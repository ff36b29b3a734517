package cli

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"OsmoTools/internal/generator"
	"OsmoTools/internal/scanner"
	"OsmoTools/pkg/errs"
)

// NewRootCommand builds `osmotools`. Without a subcommand it opens the
// interactive menu.
func NewRootCommand(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "osmotools",
		Short:         "Bulk Osmosis wallet generator and balance scanner",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return NewRunner(a, cmd.InOrStdin()).Run(cmd.Context())
		},
	}
	root.AddCommand(newGenerateCommand(a), newScanCommand(a))
	return root
}

func Execute(ctx context.Context, a *App) error {
	return NewRootCommand(a).ExecuteContext(ctx)
}

// ExitCode maps a run error to the process exit status: 2 for bad input, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errs.Configuration):
		return 2
	default:
		return 1
	}
}

func newGenerateCommand(a *App) *cobra.Command {
	g := a.Config.Generate
	req := GenerateRequest{Options: generator.Options{
		Total:         g.Count,
		Words:         g.Words,
		BatchSize:     g.BatchSize,
		Workers:       a.Config.Cores,
		OutputDir:     g.OutputDir,
		ProgressEvery: g.ProgressEvery,
	}}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Derive osmo1 credentials into osmo_wallets_NNN.json shards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := withInterrupt(cmd.Context(), a.Out, a.Msg.Interrupted)
			defer stop()
			_, err := a.Generate(ctx, req)
			return err
		},
	}

	f := cmd.Flags()
	f.IntVar(&req.Options.Total, "count", req.Options.Total, "number of wallets to generate")
	f.IntVar(&req.Options.Words, "words", req.Options.Words, "mnemonic length: 12, 15, 18, 21 or 24")
	f.StringVar(&req.Options.OutputDir, "output-dir", req.Options.OutputDir, "directory for shard files")
	f.IntVar(&req.Options.BatchSize, "batch-size", req.Options.BatchSize, "wallets per shard file")
	f.IntVar(&req.Options.Workers, "threads", req.Options.Workers, "derivation workers, 0 = GOMAXPROCS")
	f.IntVar(&req.Options.ProgressEvery, "progress-every", req.Options.ProgressEvery, "log progress every N wallets, 0 disables")
	f.StringVar(&req.Options.Passphrase, "passphrase", "", "optional BIP-39 passphrase")
	f.StringVar(&req.Hint, "passphrase-hint", "", "hint saved next to the run log")
	return cmd
}

func newScanCommand(a *App) *cobra.Command {
	s := a.Config.Scan
	req := ScanRequest{
		InputDir: s.InputDir,
		Endpoint: s.Endpoint,
		Timeout:  s.Timeout,
		Headers:  s.EndpointHeaders,
		Options: scanner.Options{
			Workers:   s.Workers,
			ResultDir: s.ResultDir,
			Journal:   s.Journal,
			Progress:  a.Out,
		},
	}

	cmd := &cobra.Command{
		Use:   "scan [file.json ...]",
		Short: "Probe uosmo balances and keep funded credentials in found_from_<file>",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Files = args
			ctx, stop := withInterrupt(cmd.Context(), a.Out, a.Msg.Interrupted)
			defer stop()
			_, err := a.Scan(ctx, req)
			return err
		},
	}

	f := cmd.Flags()
	f.IntVar(&req.Options.Workers, "threads", req.Options.Workers, "concurrent balance requests")
	f.StringVar(&req.Options.ResultDir, "result-dir", req.Options.ResultDir, "directory for found_from_<file> outputs")
	f.StringVar(&req.Options.Journal, "journal", req.Options.Journal, "optional JSONL file receiving every hit immediately")
	f.StringVar(&req.InputDir, "input-dir", req.InputDir, "where to discover shard files when none are given")
	f.StringVar(&req.Endpoint, "endpoint", req.Endpoint, "Osmosis LCD endpoint")
	f.DurationVar(&req.Timeout, "timeout", req.Timeout, "per-request timeout")
	f.StringToStringVar(&req.Headers, "header", req.Headers, "extra request header as key=value, repeatable")
	return cmd
}
