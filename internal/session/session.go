package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tanvirk/ixreach/internal/adapter/console"
	"github.com/tanvirk/ixreach/internal/common/runid"
	"github.com/tanvirk/ixreach/internal/usecase"
)

// ErrNoResults indicates there is no working set from a completed run.
var ErrNoResults = errors.New("no results to save")

type EndpointLoader interface {
	Load(ctx context.Context) ([]string, error)
	Refresh(ctx context.Context) ([]string, error)
}

type ReachabilityChecker interface {
	Execute(ctx context.Context, cmd usecase.CheckReachabilityCommand) (usecase.Report, error)
}

// Session holds the mutable state behind the interactive surface: the
// loaded endpoint list, the probe timeout and the working set of the
// last completed run.
type Session struct {
	logger   *slog.Logger
	console  *console.Console
	renderer *console.Renderer
	loader   EndpointLoader
	checker  ReachabilityChecker

	outputDir string
	timeout   time.Duration
	endpoints []string
	working   []string
}

type Config struct {
	Timeout   time.Duration
	OutputDir string
}

func New(
	logger *slog.Logger,
	cons *console.Console,
	renderer *console.Renderer,
	loader EndpointLoader,
	checker ReachabilityChecker,
	cfg Config,
) *Session {
	return &Session{
		logger:    logger,
		console:   cons,
		renderer:  renderer,
		loader:    loader,
		checker:   checker,
		outputDir: cfg.OutputDir,
		timeout:   cfg.Timeout,
	}
}

func (s *Session) Timeout() time.Duration { return s.timeout }

func (s *Session) EndpointCount() int { return len(s.endpoints) }

func (s *Session) Working() []string { return s.working }

// LoadEndpoints fills the endpoint list from the loader, replacing
// whatever was loaded before.
func (s *Session) LoadEndpoints(ctx context.Context) error {
	endpoints, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}

	s.endpoints = endpoints

	return nil
}

// Reload re-downloads the endpoint list. The previous list survives a
// failed reload.
func (s *Session) Reload(ctx context.Context) error {
	endpoints, err := s.loader.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload endpoint list: %w", err)
	}

	s.endpoints = endpoints

	return nil
}

// RunBatch probes the loaded endpoint list, loading it first when it is
// empty. On success the working set is replaced with the run's; an
// aborted run leaves it untouched.
func (s *Session) RunBatch(ctx context.Context) error {
	if len(s.endpoints) == 0 {
		if err := s.LoadEndpoints(ctx); err != nil {
			return err
		}
	}

	ctx = runid.With(ctx)

	s.console.Printf("Testing %d mirrors (timeout %s)", len(s.endpoints), s.timeout)
	s.renderer.Start(len(s.endpoints))

	report, err := s.checker.Execute(ctx, usecase.CheckReachabilityCommand{
		Endpoints: s.endpoints,
		Timeout:   s.timeout,
	})
	if err != nil {
		s.renderer.Stop()
		return err
	}

	s.working = report.Working

	s.logger.InfoContext(ctx, "Run finished",
		slog.Int("working", len(report.Working)),
		slog.Int("failed", len(report.Failed)),
	)

	return nil
}

// SaveWorkingSet persists the last run's working set and returns the
// path of the created file.
func (s *Session) SaveWorkingSet() (string, error) {
	if len(s.working) == 0 {
		return "", ErrNoResults
	}

	return console.WriteWorkingSet(s.outputDir, s.working, time.Now())
}

// SetTimeout applies a user-supplied timeout. Invalid input leaves the
// previous value in place.
func (s *Session) SetTimeout(input string) error {
	timeout, err := ParseTimeout(input)
	if err != nil {
		return err
	}

	s.timeout = timeout

	return nil
}

// ParseTimeout interprets free text as a probe timeout. A bare number
// is seconds, anything else must be a Go duration string.
func ParseTimeout(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)

	if secs, err := strconv.ParseFloat(input, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
			return 0, fmt.Errorf("timeout must be a positive number of seconds: %q", input)
		}

		return time.Duration(secs * float64(time.Second)), nil
	}

	timeout, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout: %q", input)
	}

	if timeout <= 0 {
		return 0, fmt.Errorf("timeout must be positive: %q", input)
	}

	return timeout, nil
}
