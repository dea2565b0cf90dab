// Package source fetches the services, channels and programs documents that make up a dataset.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sourcegraph/conc/pool"

	"github.com/javiermolinar/bangumi/internal/epg"
)

// MaxBodySize caps a single document.
const MaxBodySize = 64 << 20

// Default fetch settings.
const (
	DefaultAttempts = 3
	DefaultDelay    = 500 * time.Millisecond
	DefaultTimeout  = 30 * time.Second
)

// ErrMissingEndpoints is returned when an endpoint is not configured.
var ErrMissingEndpoints = errors.New("services, channels and programs endpoints are required")

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Endpoints locates the three documents. Each may be an http(s) URL,
// a file:// URL or a plain path.
type Endpoints struct {
	Services string
	Channels string
	Programs string
}

// Validate checks that every endpoint is set.
func (e Endpoints) Validate() error {
	if e.Services == "" || e.Channels == "" || e.Programs == "" {
		return ErrMissingEndpoints
	}
	return nil
}

// Loader fetches a dataset.
type Loader struct {
	Endpoints  Endpoints
	HTTPClient *http.Client
	Attempts   uint
	Delay      time.Duration
	Logger     *slog.Logger
}

// NewLoader creates a loader with default retry settings.
func NewLoader(endpoints Endpoints, timeout time.Duration, logger *slog.Logger) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		Endpoints:  endpoints,
		HTTPClient: &http.Client{Timeout: timeout},
		Attempts:   DefaultAttempts,
		Delay:      DefaultDelay,
		Logger:     logger.With("component", "source"),
	}
}

// Load fetches all three documents concurrently.
// The first failure cancels the remaining fetches.
func (l *Loader) Load(ctx context.Context) (*epg.Dataset, error) {
	if err := l.Endpoints.Validate(); err != nil {
		return nil, err
	}

	var ds epg.Dataset
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	p.Go(func(ctx context.Context) error {
		return l.fetch(ctx, "services", l.Endpoints.Services, &ds.Services)
	})
	p.Go(func(ctx context.Context) error {
		return l.fetch(ctx, "channels", l.Endpoints.Channels, &ds.Channels)
	})
	p.Go(func(ctx context.Context) error {
		return l.fetch(ctx, "programs", l.Endpoints.Programs, &ds.Programs)
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	l.logger().InfoContext(ctx, "source.load.done",
		"services", len(ds.Services),
		"channels", len(ds.Channels),
		"programs", len(ds.Programs),
	)
	return &ds, nil
}

func (l *Loader) fetch(ctx context.Context, name, endpoint string, dst any) error {
	attempts := l.Attempts
	if attempts == 0 {
		attempts = 1
	}

	err := retry.Do(
		func() error {
			return l.fetchOnce(ctx, endpoint, dst)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(l.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			l.logger().WarnContext(ctx, "source.fetch.retry",
				"document", name,
				"attempt", n+1,
				"error", err,
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", name, err)
	}
	return nil
}

func (l *Loader) fetchOnce(ctx context.Context, endpoint string, dst any) error {
	body, err := l.open(ctx, endpoint)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(io.LimitReader(body, MaxBodySize)).Decode(dst); err != nil {
		return retry.Unrecoverable(fmt.Errorf("decoding %s: %w", endpoint, err))
	}
	return nil
}

func (l *Loader) open(ctx context.Context, endpoint string) (io.ReadCloser, error) {
	if path, ok := localPath(endpoint); ok {
		f, err := os.Open(path)
		if err != nil {
			return nil, retry.Unrecoverable(fmt.Errorf("opening %s: %w", path, err))
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		statusErr := &StatusError{URL: endpoint, Code: resp.StatusCode}
		if resp.StatusCode < 500 {
			return nil, retry.Unrecoverable(statusErr)
		}
		return nil, statusErr
	}
	return resp.Body, nil
}

// localPath reports whether the endpoint refers to a local file.
func localPath(endpoint string) (string, bool) {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return "", false
	}
	if strings.HasPrefix(endpoint, "file://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return strings.TrimPrefix(endpoint, "file://"), true
		}
		return u.Path, true
	}
	return endpoint, true
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}
