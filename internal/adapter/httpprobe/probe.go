package httpprobe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tanvirk/ixreach/internal/common/logging"
	"github.com/tanvirk/ixreach/internal/ports"
)

// Probe issues a GET request against the endpoint and reports whether
// it answered with HTTP 200 within the timeout. Every other outcome
// maps to EndpointUnreachable. An error is returned only when ctx
// itself is done before the probe finishes.
func (c *Client) Probe(ctx context.Context, endpoint string, timeout time.Duration) (ports.ProbeResult, error) {
	target := Normalize(endpoint)
	result := ports.ProbeResult{Endpoint: target, State: ports.EndpointUnknown}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return result, err
	}
	defer c.sem.Release(1)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return result, err
		}
	}

	started := time.Now()

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := c.get(probeCtx, target)
	result.Elapsed = time.Since(started)

	switch {
	case err == nil:
		result.State = ports.EndpointReachable
	case ctx.Err() != nil:
		// The whole run was cancelled, not this endpoint failing.
		return result, ctx.Err()
	default:
		c.logger.DebugContext(ctx, "Probe failed",
			slog.String("endpoint", target),
			logging.Error(err),
		)
		result.State = ports.EndpointUnreachable
	}

	return result, nil
}

func (c *Client) get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return nil
}
