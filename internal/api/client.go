// Package api is the HTTP client for the remote entity API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RezaEskandarii/recordgrid/custom_errors"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/semaphore"
)

const maxErrorBody = 64 << 10

type Config struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	RetryMax    int
	MaxInFlight int64
}

// Client issues JSON requests against BaseURL. Reads may be retried when
// RetryMax > 0; mutations are always sent exactly once.
type Client struct {
	base   *url.URL
	token  string
	reads  *retryablehttp.Client
	writes *retryablehttp.Client
	sem    *semaphore.Weighted
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: scheme and host are required", cfg.BaseURL)
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 8
	}

	return &Client{
		base:   base,
		token:  cfg.Token,
		reads:  buildHTTPClient(cfg.Timeout, cfg.RetryMax, logger),
		writes: buildHTTPClient(cfg.Timeout, 0, logger),
		sem:    semaphore.NewWeighted(cfg.MaxInFlight),
		logger: logger,
	}, nil
}

func buildHTTPClient(timeout time.Duration, retryMax int, logger *slog.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retryMax
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = timeout
	// hand the final response back so error bodies can be decoded
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.Logger = logger
	return c
}

func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, c.reads, http.MethodGet, path, params, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, c.writes, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, c.writes, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, c.writes, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, hc *retryablehttp.Client, method, path string, params url.Values, body, out any) error {
	op := method + " " + path

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return &custom_errors.TransportError{Op: op, Err: err}
	}
	defer c.sem.Release(1)

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.endpoint(path, params), payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return &custom_errors.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &custom_errors.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &custom_errors.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := *c.base
	rel, err := url.Parse(path)
	if err == nil {
		u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(rel.Path, "/")
		q := rel.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// errorMessage reads {"message": "..."} from an error body.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
