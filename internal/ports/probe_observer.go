package ports

import "context"

// ProbeObserver is notified once per endpoint, immediately after its
// probe finishes. Probes run concurrently, so implementations must be
// safe for concurrent use.
type ProbeObserver interface {
	ProbeCompleted(ctx context.Context, result ProbeResult)
}
