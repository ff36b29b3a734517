package scanner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OsmoTools/internal/generator"
	"OsmoTools/internal/ledger"
	"OsmoTools/internal/shard"
	"OsmoTools/internal/wallet"
	"OsmoTools/pkg/errs"
)

// fakeLedger answers from a fixed table; addresses listed in fail return an error.
type fakeLedger struct {
	balances map[string][]ledger.Coin
	fail     map[string]error
	delay    time.Duration
	calls    atomic.Int64
}

func (f *fakeLedger) Balances(ctx context.Context, address string) ([]ledger.Coin, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err, ok := f.fail[address]; ok {
		return nil, err
	}
	return f.balances[address], nil
}

func cred(addr string) wallet.Credential {
	return wallet.Credential{Mnemonic: "m " + addr, PrivateKey: fmt.Sprintf("%064d", len(addr)), Address: addr}
}

func writeInput(t *testing.T, dir, name string, creds ...wallet.Credential) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, shard.Write(path, creds))
	return path
}

func quietOptions(resultDir string, p Prober) Options {
	return Options{Workers: 4, ResultDir: resultDir, Prober: p, Progress: &bytes.Buffer{}}
}

func TestCheck(t *testing.T) {
	p := &fakeLedger{
		balances: map[string][]ledger.Coin{
			"osmo1rich":  {{Denom: "ibc/ABC", Amount: "9"}, {Denom: "uosmo", Amount: "500"}},
			"osmo1zero":  {{Denom: "uosmo", Amount: "0"}},
			"osmo1other": {{Denom: "uion", Amount: "12"}},
			"osmo1bad":   {{Denom: "uosmo", Amount: "12abc"}},
			"osmo1exp":   {{Denom: "uosmo", Amount: "1e3"}},
			"osmo1plus":  {{Denom: "uosmo", Amount: "+5"}},
		},
		fail: map[string]error{"osmo1down": errors.New("connection refused")},
	}
	ctx := context.Background()

	res, err := Check(ctx, p, cred("osmo1rich"))
	require.NoError(t, err)
	assert.Equal(t, "osmo1rich", res.Address)
	assert.Equal(t, "500", res.UOsmo.String())

	_, err = Check(ctx, p, cred("osmo1zero"))
	assert.ErrorIs(t, err, ErrNotFunded)
	_, err = Check(ctx, p, cred("osmo1other"))
	assert.ErrorIs(t, err, ErrNotFunded)
	_, err = Check(ctx, p, cred("osmo1empty"))
	assert.ErrorIs(t, err, ErrNotFunded)

	for _, addr := range []string{"osmo1bad", "osmo1exp", "osmo1plus"} {
		_, err = Check(ctx, p, cred(addr))
		assert.True(t, errors.Is(err, errs.Recoverable), addr)
	}
	_, err = Check(ctx, p, cred("osmo1down"))
	assert.True(t, errors.Is(err, errs.Recoverable))
	assert.False(t, errors.Is(err, ErrNotFunded))
}

func TestRunFiltersPositiveBalances(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "osmo_wallets_000.json", cred("osmo1a"), cred("osmo1b"))
	p := &fakeLedger{balances: map[string][]ledger.Coin{
		"osmo1a": {{Denom: "uosmo", Amount: "500"}},
		"osmo1b": {{Denom: "uosmo", Amount: "0"}},
	}}
	resultDir := filepath.Join(dir, "found_wallets")

	sum, err := Run(context.Background(), []string{in}, quietOptions(resultDir, p))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Found)
	assert.Equal(t, 2, sum.Checked)

	raw, err := os.ReadFile(filepath.Join(resultDir, "found_from_osmo_wallets_000.json"))
	require.NoError(t, err)
	a := cred("osmo1a")
	assert.JSONEq(t, fmt.Sprintf(`[{"mnemonic":%q,"private_key":%q,"address":"osmo1a","uosmo":500}]`, a.Mnemonic, a.PrivateKey), string(raw))
}

func TestRunContainsProbeFailures(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "osmo_wallets_000.json", cred("osmo1a"), cred("osmo1c"), cred("osmo1d"))
	p := &fakeLedger{
		balances: map[string][]ledger.Coin{
			"osmo1a": {{Denom: "uosmo", Amount: "1"}},
			"osmo1d": {{Denom: "uosmo", Amount: "2"}},
		},
		fail: map[string]error{"osmo1c": errors.Wrap(context.DeadlineExceeded, "timeout")},
	}
	resultDir := filepath.Join(dir, "out")

	sum, err := Run(context.Background(), []string{in}, quietOptions(resultDir, p))
	require.NoError(t, err)
	require.Len(t, sum.Files, 1)
	assert.Equal(t, 3, sum.Files[0].Checked)
	assert.Equal(t, 2, sum.Files[0].Found)
	assert.Equal(t, 1, sum.Files[0].Failed)

	got, err := readFound(filepath.Join(resultDir, "found_from_osmo_wallets_000.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"osmo1a", "osmo1d"}, got)
}

func TestRunIdempotent(t *testing.T) {
	dir := t.TempDir()
	creds := make([]wallet.Credential, 0, 50)
	balances := make(map[string][]ledger.Coin)
	for i := 0; i < 50; i++ {
		c := cred(fmt.Sprintf("osmo1addr%02d", i))
		creds = append(creds, c)
		if i%7 == 0 {
			balances[c.Address] = []ledger.Coin{{Denom: "uosmo", Amount: fmt.Sprint(i + 1)}}
		}
	}
	in := writeInput(t, dir, "osmo_wallets_000.json", creds...)
	p := &fakeLedger{balances: balances, delay: time.Millisecond}

	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")
	_, err := Run(context.Background(), []string{in}, quietOptions(first, p))
	require.NoError(t, err)
	_, err = Run(context.Background(), []string{in}, quietOptions(second, p))
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(first, "found_from_osmo_wallets_000.json"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(second, "found_from_osmo_wallets_000.json"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	got, err := readFound(filepath.Join(first, "found_from_osmo_wallets_000.json"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"osmo1addr00", "osmo1addr07", "osmo1addr14", "osmo1addr21", "osmo1addr28", "osmo1addr35", "osmo1addr42", "osmo1addr49"}, got)
}

func TestRunSkipsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "osmo_wallets_000.json")
	require.NoError(t, os.WriteFile(broken, []byte(`[{"address":`), 0o600))
	good := writeInput(t, dir, "osmo_wallets_001.json", cred("osmo1a"))
	p := &fakeLedger{balances: map[string][]ledger.Coin{"osmo1a": {{Denom: "uosmo", Amount: "3"}}}}
	resultDir := filepath.Join(dir, "out")

	sum, err := Run(context.Background(), []string{broken, good}, quietOptions(resultDir, p))
	require.NoError(t, err)
	require.Len(t, sum.Files, 2)
	assert.NotEmpty(t, sum.Files[0].Error)
	assert.Equal(t, 1, sum.Found)
	_, err = os.Stat(filepath.Join(resultDir, "found_from_osmo_wallets_000.json"))
	assert.True(t, os.IsNotExist(err))
}

// cancellingLedger cancels the run on its n-th call and then behaves like a stalled endpoint.
type cancellingLedger struct {
	n      int64
	cancel context.CancelFunc
	calls  atomic.Int64
}

func (c *cancellingLedger) Balances(ctx context.Context, address string) ([]ledger.Coin, error) {
	n := c.calls.Add(1)
	if n < c.n {
		return []ledger.Coin{{Denom: "uosmo", Amount: "1"}}, nil
	}
	if n == c.n {
		c.cancel()
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRunInterrupted(t *testing.T) {
	dir := t.TempDir()
	first := make([]wallet.Credential, 0, 20)
	for i := 0; i < 20; i++ {
		first = append(first, cred(fmt.Sprintf("osmo1first%02d", i)))
	}
	in1 := writeInput(t, dir, "osmo_wallets_000.json", first...)
	in2 := writeInput(t, dir, "osmo_wallets_001.json", cred("osmo1second"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := &cancellingLedger{n: 6, cancel: cancel}
	resultDir := filepath.Join(dir, "out")
	opt := quietOptions(resultDir, p)
	opt.Workers = 1

	sum, err := Run(ctx, []string{in1, in2}, opt)
	require.NoError(t, err)
	assert.True(t, sum.Interrupted)
	require.Len(t, sum.Files, 1)
	assert.True(t, sum.Files[0].Interrupted)

	got, err := readFound(filepath.Join(resultDir, "found_from_osmo_wallets_000.json"))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), 5)
	_, err = os.Stat(filepath.Join(resultDir, "found_from_osmo_wallets_001.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunJournal(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "osmo_wallets_000.json", cred("osmo1a"), cred("osmo1b"))
	p := &fakeLedger{balances: map[string][]ledger.Coin{
		"osmo1a": {{Denom: "uosmo", Amount: "10"}},
		"osmo1b": {{Denom: "uosmo", Amount: "20"}},
	}}
	opt := quietOptions(filepath.Join(dir, "out"), p)
	opt.Journal = filepath.Join(dir, "found.jsonl")

	_, err := Run(context.Background(), []string{in}, opt)
	require.NoError(t, err)
	raw, err := os.ReadFile(opt.Journal)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(raw, []byte("\n")))
}

func TestRunConfigurationErrors(t *testing.T) {
	_, err := Run(context.Background(), nil, Options{Workers: -1, ResultDir: t.TempDir(), Prober: &fakeLedger{}})
	assert.True(t, errors.Is(err, errs.Configuration))

	_, err = Run(context.Background(), nil, Options{Prober: &fakeLedger{}})
	assert.True(t, errors.Is(err, errs.Configuration))
}

// seqDeriver yields osmo1gen000001, osmo1gen000002, ...
type seqDeriver struct {
	mu sync.Mutex
	n  int
}

func (d *seqDeriver) Derive(int) (wallet.Credential, error) {
	d.mu.Lock()
	d.n++
	n := d.n
	d.mu.Unlock()
	return cred(fmt.Sprintf("osmo1gen%06d", n)), nil
}

func TestGenerateThenScan(t *testing.T) {
	walletsDir := filepath.Join(t.TempDir(), "wallets")
	gen, err := generator.Run(context.Background(), generator.Options{
		Total: 10, Words: 24, BatchSize: 4, Workers: 3,
		OutputDir: walletsDir, Deriver: &seqDeriver{},
	})
	require.NoError(t, err)

	files, err := shard.Discover(walletsDir, "found_wallets")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, gen.Shards, files)

	sizes := make([]int, 0, len(files))
	for _, f := range files {
		creds, err := shard.Read(f)
		require.NoError(t, err)
		sizes = append(sizes, len(creds))
	}
	assert.Equal(t, []int{4, 4, 2}, sizes)

	p := &fakeLedger{balances: map[string][]ledger.Coin{
		"osmo1gen000003": {{Denom: "uosmo", Amount: "42"}},
		"osmo1gen000010": {{Denom: "uosmo", Amount: "7"}},
	}}
	resultDir := filepath.Join(t.TempDir(), "found_wallets")
	sum, err := Run(context.Background(), files, quietOptions(resultDir, p))
	require.NoError(t, err)
	assert.Equal(t, 10, sum.Checked)
	assert.Equal(t, 2, sum.Found)

	var total int
	for _, f := range files {
		got, err := readFound(filepath.Join(resultDir, shard.FoundName(f)))
		require.NoError(t, err)
		total += len(got)
	}
	assert.Equal(t, 2, total)
}

func readFound(path string) ([]string, error) {
	creds, err := shard.Read(path)
	if err != nil {
		return nil, err
	}
	return lo.Map(creds, func(c wallet.Credential, _ int) string { return c.Address }), nil
}
