package httpprobe

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultConcurrency caps the number of in-flight probes unless
// Options overrides it.
const DefaultConcurrency = 10

type Options struct {
	Concurrency int
	// RequestsPerSecond throttles probe starts. Zero disables throttling.
	RequestsPerSecond float64
}

type Client struct {
	logger  *slog.Logger
	http    *http.Client
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

func NewClient(logger *slog.Logger, opts Options) (*Client, error) {
	if opts.Concurrency == 0 {
		opts.Concurrency = DefaultConcurrency
	}

	if opts.Concurrency < 0 {
		return nil, errors.New("httpprobe: probe concurrency must be greater than zero")
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		logger: logger,
		// The per-probe deadline comes from the request context.
		http:    &http.Client{},
		sem:     semaphore.NewWeighted(int64(opts.Concurrency)),
		limiter: limiter,
	}, nil
}

// Normalize returns the URL requested for an endpoint entry. Entries
// without a scheme are fetched over plain HTTP.
func Normalize(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return "http://" + endpoint
}
