package ports

import (
	"context"
	"time"
)

type EndpointState int

const (
	EndpointUnknown EndpointState = iota
	EndpointReachable
	EndpointUnreachable
)

// ProbeResult is the final outcome of a single probe. Endpoint holds
// the normalized URL that was requested, not the raw input string.
type ProbeResult struct {
	Endpoint string
	State    EndpointState
	Elapsed  time.Duration
}

type EndpointProbe interface {
	Probe(ctx context.Context, endpoint string, timeout time.Duration) (ProbeResult, error)
}
