// SPDX-License-Identifier: GPL-3.0-or-later

package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dnsmap-project/dnsmap/internal/config"
	"github.com/dnsmap-project/dnsmap/internal/pipeline"
	"github.com/dnsmap-project/dnsmap/internal/telemetry"
)

// requestTimeout is the per-request timeout mandated by spec §4.3.
const requestTimeout = 30 * time.Second

// Client is the shared HTTP transport every scraper fetches through. It
// logs each round trip and lazily wraps response bodies, matching the
// start/done structured-logging shape the resolver pool and reporter
// also follow, and retries once on a transient error (spec §4.3).
type Client struct {
	HTTPClient    *http.Client
	ErrClassifier telemetry.ErrClassifier
	Logger        telemetry.SLogger
	TimeNow       func() time.Time
}

// NewClient returns a [*Client] wired from cfg.
func NewClient(cfg *config.Config, errClassifier telemetry.ErrClassifier, logger telemetry.SLogger) *Client {
	return &Client{
		HTTPClient:    cfg.HTTPClient,
		ErrClassifier: errClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

// fetchFunc adapts [*Client.Fetch] to a [pipeline.Func], letting each
// scraper compose it with its own parse stage via [pipeline.Compose2]
// instead of calling Fetch and the parser as two separate steps.
type fetchFunc struct {
	client *Client
}

var _ pipeline.Func[string, []byte] = fetchFunc{}

func (f fetchFunc) Call(ctx context.Context, url string) ([]byte, error) {
	return f.client.Fetch(ctx, url)
}

// Fetch GETs url with a [requestTimeout] deadline, retrying once if the
// first attempt fails with any error other than a timeout or a
// cancellation. An unexpected HTTP status (4xx or 5xx) is retried too.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := c.fetchOnce(ctx, url)
	if err == nil {
		return body, nil
	}
	class := c.ErrClassifier.Classify(err)
	if class != "ETIMEDOUT" && class != "ECANCELED" {
		body, err = c.fetchOnce(ctx, url)
	}
	return body, err
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	span := telemetry.NewSpanID()
	t0 := c.TimeNow()
	c.Logger.Info("httpRoundTripStart",
		slog.String("spanID", span),
		slog.String("httpMethod", req.Method),
		slog.String("httpUrl", url),
		slog.Time("t", t0),
	)

	resp, err := c.HTTPClient.Do(req)

	var statusCode int
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.Logger.Info("httpRoundTripDone",
		slog.String("spanID", span),
		slog.Any("err", err),
		slog.String("errClass", c.ErrClassifier.Classify(err)),
		slog.String("httpMethod", req.Method),
		slog.String("httpUrl", url),
		slog.Int("httpResponseStatusCode", statusCode),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
	if err != nil {
		return nil, err
	}

	body := wrapBody(resp.Body, c.ErrClassifier, c.Logger, url, c.TimeNow)
	defer body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, body)
		return nil, fmt.Errorf("scrape: %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(body)
}

// wrapBody wraps an HTTP response body so reads and the close are logged
// lazily: httpBodyStreamStart on the first Read, httpBodyStreamDone on
// Close (only if at least one Read happened).
func wrapBody(body io.ReadCloser, errClass telemetry.ErrClassifier, logger telemetry.SLogger, url string, timeNow func() time.Time) io.ReadCloser {
	return &bodyWrapper{
		body:     body,
		errClass: errClass,
		logger:   logger,
		url:      url,
		timeNow:  timeNow,
	}
}

type bodyWrapper struct {
	body      io.ReadCloser
	didRead   atomic.Bool
	errClass  telemetry.ErrClassifier
	logger    telemetry.SLogger
	url       string
	timeNow   func() time.Time
	t0        time.Time
	readOnce  sync.Once
	closeOnce sync.Once
}

var _ io.ReadCloser = &bodyWrapper{}

func (b *bodyWrapper) Read(p []byte) (int, error) {
	b.readOnce.Do(func() {
		b.t0 = b.timeNow()
		b.didRead.Store(true)
		b.logger.Info("httpBodyStreamStart",
			slog.String("httpUrl", b.url),
			slog.Time("t", b.t0),
		)
	})
	return b.body.Read(p)
}

func (b *bodyWrapper) Close() (err error) {
	b.closeOnce.Do(func() {
		err = b.body.Close()
		if b.didRead.Load() {
			b.logger.Info("httpBodyStreamDone",
				slog.Any("err", err),
				slog.String("errClass", b.errClass.Classify(err)),
				slog.String("httpUrl", b.url),
				slog.Time("t0", b.t0),
				slog.Time("t", b.timeNow()),
			)
		}
	})
	return
}
