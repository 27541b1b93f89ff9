package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tanvirk/ixreach/internal/ports"
)

type CheckReachabilityUseCase struct {
	logger     *slog.Logger
	probe      ports.EndpointProbe
	observers  []ports.ProbeObserver
	publishers []ports.ReachStatePublisher
}

func NewCheckReachabilityUseCase(
	logger *slog.Logger,
	probe ports.EndpointProbe,
	observers []ports.ProbeObserver,
	publishers []ports.ReachStatePublisher,
) *CheckReachabilityUseCase {
	return &CheckReachabilityUseCase{
		logger:     logger,
		probe:      probe,
		observers:  observers,
		publishers: publishers,
	}
}

type CheckReachabilityCommand struct {
	Endpoints []string
	Timeout   time.Duration
}

// Report partitions a completed run into the endpoints that answered
// with HTTP 200 and the ones that did not, in completion order.
type Report struct {
	Working []string
	Failed  []string
}

// Execute probes every endpoint of the command once. Probe failures are
// part of the report, not errors; the run errors as a whole only on
// cancellation or when a publisher rejects the results, and an errored
// run yields no report.
func (u *CheckReachabilityUseCase) Execute(ctx context.Context, cmd CheckReachabilityCommand) (Report, error) {
	var (
		mu      sync.Mutex
		working = make([]string, 0, len(cmd.Endpoints))
		failed  = make([]string, 0, len(cmd.Endpoints))
	)

	g, gctx := errgroup.WithContext(ctx)

	for _, endpoint := range cmd.Endpoints {
		endpoint := endpoint // per-iteration copy; go directive predates Go 1.22 loopvar semantics
		g.Go(func() error {
			result, err := u.probe.Probe(gctx, endpoint, cmd.Timeout)
			if err != nil {
				return fmt.Errorf("failed to probe endpoint %s: %w", endpoint, err)
			}

			for _, o := range u.observers {
				o.ProbeCompleted(gctx, result)
			}

			mu.Lock()
			defer mu.Unlock()

			switch result.State {
			case ports.EndpointReachable:
				working = append(working, result.Endpoint)
			case ports.EndpointUnreachable:
				failed = append(failed, result.Endpoint)
			case ports.EndpointUnknown:
				return fmt.Errorf("unknown reachability state for endpoint %s: %d", endpoint, result.State)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	for _, p := range u.publishers {
		if err := p.Publish(ctx, working, failed); err != nil {
			return Report{}, fmt.Errorf("failed to publish reachability results: %w", err)
		}
	}

	return Report{Working: working, Failed: failed}, nil
}
