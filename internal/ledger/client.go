package ledger

import (
	"context"
	"encoding/json"
	"net/url"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"OsmoTools/pkg/logx"
)

const (
	DefaultEndpoint = "https://lcd.osmosis.zone"
	DefaultTimeout  = 10 * time.Second

	balancesPath = "/cosmos/bank/v1beta1/balances"
)

// Coin is one entry of a bank balances response.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

type balancesResponse struct {
	Balances []Coin `json:"balances"`
}

type Config struct {
	// Request timeout, DefaultTimeout when zero.
	Timeout time.Duration

	// Enable per-request debug logging
	Debug bool

	// Default headers
	Headers map[string]string
}

// Client queries the cosmos bank module over an LCD REST endpoint.
type Client struct {
	baseURL *url.URL
	http    *fasthttp.Client
	Config
}

func New(endpoint string, config ...Config) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse endpoint url")
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.Newf("endpoint %q must be an absolute url", endpoint)
	}
	var cf Config
	if len(config) > 0 {
		cf = config[0]
	}
	if cf.Timeout <= 0 {
		cf.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: parsed,
		http: &fasthttp.Client{
			Name:         "osmotools",
			ReadTimeout:  cf.Timeout,
			WriteTimeout: cf.Timeout,
		},
		Config: cf,
	}, nil
}

// BalancesURL returns the balances endpoint for address.
func (c *Client) BalancesURL(address string) string {
	u := *c.baseURL
	u.Path = path.Join(u.Path, balancesPath, address)
	return u.String()
}

// Balances fetches every coin held by address. Exactly one request is made;
// a timeout, transport error, non-2xx status or undecodable body is returned
// as an error.
func (c *Client) Balances(ctx context.Context, address string) ([]Coin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := c.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if until := time.Until(dl); until < timeout {
			timeout = until
		}
	}

	url := c.BalancesURL(address)
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseResponse(resp)
		fasthttp.ReleaseRequest(req)
	}()
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	req.SetRequestURI(url)

	start := time.Now()
	err := c.http.DoTimeout(req, resp, timeout)
	if c.Debug {
		logx.S().Debugw("balances request",
			"url", url,
			"status", resp.StatusCode(),
			"duration", time.Since(start).String(),
			"err", err,
		)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "url: %s", url)
	}

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, errors.Newf("url: %s: unexpected status %d", url, code)
	}

	body, err := resp.BodyUncompressed()
	if err != nil {
		return nil, errors.Wrapf(err, "can't uncompress body from %s", url)
	}
	var out balancesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.Wrapf(err, "can't unmarshal json body from %s", url)
	}
	return out.Balances, nil
}
