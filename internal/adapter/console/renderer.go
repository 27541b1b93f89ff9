package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tanvirk/ixreach/internal/ports"
)

var (
	_ ports.ProbeObserver       = (*Renderer)(nil)
	_ ports.ReachStatePublisher = (*Renderer)(nil)
)

const spinnerInterval = 100 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Renderer paints the live progress of a probe run: one line per
// completed probe in completion order, an animated counter while the
// run is in flight on a terminal, and the summary once it finishes.
type Renderer struct {
	console *Console

	mu      sync.Mutex
	total   int
	done    int
	frame   int
	started time.Time
	active  bool
	stop    chan struct{}
	stopped chan struct{}
}

func NewRenderer(console *Console) *Renderer {
	return &Renderer{console: console}
}

// Start resets the renderer for a run of total probes and begins the
// progress animation when the console is a terminal. A run still in
// flight is finished first.
func (r *Renderer) Start(total int) {
	r.finish()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.total = total
	r.done = 0
	r.frame = 0
	r.started = time.Now()
	r.active = true

	if r.console.tty {
		r.stop = make(chan struct{})
		r.stopped = make(chan struct{})
		go r.spin(r.stop, r.stopped)
	}
}

// ProbeCompleted prints the outcome of a single probe.
func (r *Renderer) ProbeCompleted(_ context.Context, result ports.ProbeResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.done++

	line := r.resultLine(result)
	if r.active && r.console.tty {
		// Replace the progress line, print the result, then repaint.
		r.console.write(ansiClearLine + line + "\n" + r.progressLine())
		return
	}
	r.console.write(line + "\n")
}

// Publish stops the animation and prints the run summary.
func (r *Renderer) Publish(_ context.Context, working, failed []string) error {
	r.finish()

	elapsed := time.Since(r.started).Round(10 * time.Millisecond)

	r.console.Printf("")
	r.console.Printf("%s", r.console.Bold("Test results:"))
	r.console.Printf("Total mirrors tested: %d", len(working)+len(failed))
	r.console.Printf("Working mirrors: %d", len(working))
	r.console.Printf("Failed mirrors: %d", len(failed))
	r.console.Printf("Elapsed: %s", elapsed)

	return nil
}

// Stop aborts the progress display without printing a summary.
func (r *Renderer) Stop() {
	r.finish()
}

func (r *Renderer) finish() {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return
	}
	r.active = false
	stop, stopped := r.stop, r.stopped
	r.stop, r.stopped = nil, nil
	if r.console.tty {
		r.console.write(ansiClearLine)
	}
	r.mu.Unlock()

	if stop != nil {
		close(stop)
		<-stopped
	}
}

func (r *Renderer) spin(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			if r.active {
				r.frame++
				r.console.write(r.progressLine())
			}
			r.mu.Unlock()
		}
	}
}

// progressLine renders the in-flight counter. Callers hold r.mu.
func (r *Renderer) progressLine() string {
	frame := spinnerFrames[r.frame%len(spinnerFrames)]
	return fmt.Sprintf("%s%s Testing mirrors... %d/%d", ansiClearLine, frame, r.done, r.total)
}

func (r *Renderer) resultLine(result ports.ProbeResult) string {
	if result.State == ports.EndpointReachable {
		elapsed := result.Elapsed.Round(time.Millisecond)
		return r.console.Green(fmt.Sprintf("✓ %s is working (%s)", result.Endpoint, elapsed))
	}
	return r.console.Red(fmt.Sprintf("✗ %s is not working", result.Endpoint))
}
