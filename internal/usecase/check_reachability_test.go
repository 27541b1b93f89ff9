package usecase

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tanvirk/ixreach/internal/adapter/httpprobe"
	"github.com/tanvirk/ixreach/internal/ports"
	portsm "github.com/tanvirk/ixreach/internal/ports/mocks"
)

func TestCheckReachabilityUseCase_PartitionsWorkingAndFailed(t *testing.T) {
	ctx := t.Context()

	probe := portsm.NewMockEndpointProbe(t)
	publisher := portsm.NewMockReachStatePublisher(t)

	uc := newTestCheckReachabilityUseCase(t, probe, nil, publisher)

	probe.On("Probe", mock.Anything, "mirror1.example", 5*time.Second).
		Return(ports.ProbeResult{Endpoint: "http://mirror1.example", State: ports.EndpointReachable}, nil)
	probe.On("Probe", mock.Anything, "https://mirror2.example", 5*time.Second).
		Return(ports.ProbeResult{Endpoint: "https://mirror2.example", State: ports.EndpointUnreachable}, nil)

	publisher.On("Publish", mock.Anything, []string{"http://mirror1.example"}, []string{"https://mirror2.example"}).Return(nil)

	report, err := uc.Execute(ctx, CheckReachabilityCommand{
		Endpoints: []string{"mirror1.example", "https://mirror2.example"},
		Timeout:   5 * time.Second,
	})

	require.NoError(t, err)
	require.Equal(t, []string{"http://mirror1.example"}, report.Working)
	require.Equal(t, []string{"https://mirror2.example"}, report.Failed)
}

func TestCheckReachabilityUseCase_YieldsOneResultPerEndpoint(t *testing.T) {
	ctx := t.Context()

	probe := portsm.NewMockEndpointProbe(t)
	publisher := portsm.NewMockReachStatePublisher(t)

	uc := newTestCheckReachabilityUseCase(t, probe, nil, publisher)

	endpoints := []string{"m1.example", "m2.example", "m3.example", "m4.example", "m5.example"}
	for _, endpoint := range endpoints {
		probe.On("Probe", mock.Anything, endpoint, time.Second).
			Return(ports.ProbeResult{Endpoint: "http://" + endpoint, State: ports.EndpointReachable}, nil).
			Once()
	}

	publisher.On("Publish", mock.Anything, matchSet(
		"http://m1.example", "http://m2.example", "http://m3.example", "http://m4.example", "http://m5.example",
	), []string{}).Return(nil)

	report, err := uc.Execute(ctx, CheckReachabilityCommand{
		Endpoints: endpoints,
		Timeout:   time.Second,
	})

	require.NoError(t, err)
	require.Len(t, report.Working, len(endpoints))
	require.Empty(t, report.Failed)
}

func TestCheckReachabilityUseCase_NotifiesObserverPerProbe(t *testing.T) {
	ctx := t.Context()

	probe := portsm.NewMockEndpointProbe(t)
	observer := portsm.NewMockProbeObserver(t)
	publisher := portsm.NewMockReachStatePublisher(t)

	uc := newTestCheckReachabilityUseCase(t, probe, observer, publisher)

	up := ports.ProbeResult{Endpoint: "http://up.example", State: ports.EndpointReachable}
	down := ports.ProbeResult{Endpoint: "http://down.example", State: ports.EndpointUnreachable}

	probe.On("Probe", mock.Anything, "up.example", time.Second).Return(up, nil)
	probe.On("Probe", mock.Anything, "down.example", time.Second).Return(down, nil)

	observer.On("ProbeCompleted", mock.Anything, up).Once()
	observer.On("ProbeCompleted", mock.Anything, down).Once()

	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := uc.Execute(ctx, CheckReachabilityCommand{
		Endpoints: []string{"up.example", "down.example"},
		Timeout:   time.Second,
	})

	require.NoError(t, err)
}

func TestCheckReachabilityUseCase_EmptyEndpointListCompletesImmediately(t *testing.T) {
	ctx := t.Context()

	probe := portsm.NewMockEndpointProbe(t)
	publisher := portsm.NewMockReachStatePublisher(t)

	uc := newTestCheckReachabilityUseCase(t, probe, nil, publisher)

	publisher.On("Publish", mock.Anything, []string{}, []string{}).Return(nil)

	report, err := uc.Execute(ctx, CheckReachabilityCommand{
		Endpoints: nil,
		Timeout:   time.Second,
	})

	require.NoError(t, err)
	require.Empty(t, report.Working)
	require.Empty(t, report.Failed)
}

func TestCheckReachabilityUseCase_BubblesUpProbeError(t *testing.T) {
	ctx := t.Context()

	probe := portsm.NewMockEndpointProbe(t)
	publisher := portsm.NewMockReachStatePublisher(t)

	uc := newTestCheckReachabilityUseCase(t, probe, nil, publisher)

	probe.On("Probe", mock.Anything, "mirror1.example", time.Second).
		Return(ports.ProbeResult{State: ports.EndpointUnknown}, errors.New("probe failed"))
	probe.On("Probe", mock.Anything, "mirror2.example", time.Second).
		Return(ports.ProbeResult{Endpoint: "http://mirror2.example", State: ports.EndpointReachable}, nil)

	_, err := uc.Execute(ctx, CheckReachabilityCommand{
		Endpoints: []string{"mirror1.example", "mirror2.example"},
		Timeout:   time.Second,
	})

	require.ErrorContains(t, err, "failed to probe endpoint")
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckReachabilityUseCase_FailsOnUnknownState(t *testing.T) {
	ctx := t.Context()

	probe := portsm.NewMockEndpointProbe(t)
	publisher := portsm.NewMockReachStatePublisher(t)

	uc := newTestCheckReachabilityUseCase(t, probe, nil, publisher)

	probe.On("Probe", mock.Anything, "mirror1.example", time.Second).
		Return(ports.ProbeResult{Endpoint: "http://mirror1.example", State: ports.EndpointUnknown}, nil)

	_, err := uc.Execute(ctx, CheckReachabilityCommand{
		Endpoints: []string{"mirror1.example"},
		Timeout:   time.Second,
	})

	require.ErrorContains(t, err, "unknown reachability state")
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckReachabilityUseCase_CollectsNormalizedWorkingSet(t *testing.T) {
	ctx := t.Context()

	srvA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srvA.Close()

	srvB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srvB.Close()

	probe, err := httpprobe.NewClient(slog.New(slog.NewTextHandler(io.Discard, nil)), httpprobe.Options{Concurrency: 3})
	require.NoError(t, err)

	uc := NewCheckReachabilityUseCase(slog.New(slog.NewTextHandler(io.Discard, nil)), probe, nil, nil)

	schemeless := strings.TrimPrefix(srvA.URL, "http://")

	report, err := uc.Execute(ctx, CheckReachabilityCommand{
		Endpoints: []string{schemeless, srvB.URL, "bad.invalid"},
		Timeout:   time.Second,
	})

	require.NoError(t, err)
	require.ElementsMatch(t, []string{srvA.URL, srvB.URL}, report.Working)
	require.Equal(t, []string{"http://bad.invalid"}, report.Failed)
}

func TestCheckReachabilityUseCase_ReturnsErrorWhenPublishingFails(t *testing.T) {
	ctx := t.Context()

	probe := portsm.NewMockEndpointProbe(t)
	publisher := portsm.NewMockReachStatePublisher(t)

	uc := newTestCheckReachabilityUseCase(t, probe, nil, publisher)

	probe.On("Probe", mock.Anything, "mirror1.example", time.Second).
		Return(ports.ProbeResult{Endpoint: "http://mirror1.example", State: ports.EndpointReachable}, nil)

	publisher.On("Publish", mock.Anything, []string{"http://mirror1.example"}, []string{}).Return(errors.New("publish failed"))

	_, err := uc.Execute(ctx, CheckReachabilityCommand{
		Endpoints: []string{"mirror1.example"},
		Timeout:   time.Second,
	})

	require.ErrorContains(t, err, "failed to publish reachability results")
}

func newTestCheckReachabilityUseCase(t *testing.T, probe ports.EndpointProbe, observer ports.ProbeObserver, publisher ports.ReachStatePublisher) *CheckReachabilityUseCase {
	t.Helper()

	var observers []ports.ProbeObserver
	if observer != nil {
		observers = append(observers, observer)
	}

	return NewCheckReachabilityUseCase(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		probe,
		observers,
		[]ports.ReachStatePublisher{publisher},
	)
}

// matchSet matches a slice argument against want ignoring order.
func matchSet(want ...string) any {
	return mock.MatchedBy(func(got []string) bool {
		if len(got) != len(want) {
			return false
		}

		w := slices.Clone(want)
		g := slices.Clone(got)
		slices.Sort(w)
		slices.Sort(g)

		return slices.Equal(w, g)
	})
}
