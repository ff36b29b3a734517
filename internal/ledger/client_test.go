package ledger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cosmos/bank/v1beta1/balances/osmo1funded":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"balances":[{"denom":"ibc/27394FB","amount":"7"},{"denom":"uosmo","amount":"500"}],"pagination":{"total":"2"}}`))
		case "/cosmos/bank/v1beta1/balances/osmo1broken":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"balances":[`))
		case "/cosmos/bank/v1beta1/balances/osmo1slow":
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`{"balances":[]}`))
		default:
			http.Error(w, `{"code":3,"message":"decoding bech32 failed"}`, http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, Config{Timeout: 100 * time.Millisecond})
	require.NoError(t, err)
	ctx := context.Background()

	coins, err := c.Balances(ctx, "osmo1funded")
	require.NoError(t, err)
	assert.Equal(t, []Coin{{Denom: "ibc/27394FB", Amount: "7"}, {Denom: "uosmo", Amount: "500"}}, coins)

	_, err = c.Balances(ctx, "osmo1broken")
	assert.Error(t, err)

	_, err = c.Balances(ctx, "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")

	_, err = c.Balances(ctx, "osmo1slow")
	assert.Error(t, err)
}

func TestBalancesSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "k1" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"balances":[{"denom":"uosmo","amount":"1"}]}`))
	}))
	defer srv.Close()

	anon, err := New(srv.URL)
	require.NoError(t, err)
	_, err = anon.Balances(context.Background(), "osmo1a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	c, err := New(srv.URL, Config{Headers: map[string]string{"X-Api-Key": "k1"}})
	require.NoError(t, err)
	coins, err := c.Balances(context.Background(), "osmo1a")
	require.NoError(t, err)
	assert.Equal(t, []Coin{{Denom: "uosmo", Amount: "1"}}, coins)
}

func TestBalancesCanceledContext(t *testing.T) {
	c, err := New("http://127.0.0.1:1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Balances(ctx, "osmo1x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewValidatesEndpoint(t *testing.T) {
	_, err := New("lcd.osmosis.zone")
	assert.Error(t, err)

	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.Timeout)
	assert.Equal(t, "https://lcd.osmosis.zone/cosmos/bank/v1beta1/balances/osmo1abc", c.BalancesURL("osmo1abc"))
}
