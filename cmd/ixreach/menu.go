package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tanvirk/ixreach/internal/adapter/console"
	"github.com/tanvirk/ixreach/internal/adapter/source"
	"github.com/tanvirk/ixreach/internal/session"
)

type menu struct {
	console *console.Console
	session *session.Session
	lines   <-chan string
}

func newMenu(cons *console.Console, sess *session.Session, input io.Reader) *menu {
	return &menu{
		console: cons,
		session: sess,
		lines:   readLines(input),
	}
}

// run dispatches one menu choice at a time until the user exits, stdin
// closes or ctx is cancelled.
func (m *menu) run(ctx context.Context) error {
	for {
		m.printChoices()

		line, ok := m.readLine(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}

			m.console.Printf("")
			m.console.Printf("Thanks for using ixreach.")

			return nil
		}

		switch strings.TrimSpace(line) {
		case "1":
			m.startTesting(ctx)
		case "2":
			m.saveResults()
		case "3":
			m.setTimeout(ctx)
		case "4":
			m.reloadList(ctx)
		case "5":
			m.console.Printf("Thanks for using ixreach.")
			return nil
		default:
			m.console.Errorf("Invalid choice. Please enter a number from 1 to 5.")
		}
	}
}

func (m *menu) printChoices() {
	m.console.Printf("")
	m.console.Printf("1. Start testing")
	m.console.Printf("2. Save working mirrors")
	m.console.Printf("3. Set timeout")
	m.console.Printf("4. Reload mirror list")
	m.console.Printf("5. Exit")
	m.console.Printf("")
	m.console.Prompt("Enter your choice (1-5): ")
}

func (m *menu) startTesting(ctx context.Context) {
	err := m.session.RunBatch(ctx)
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, context.Canceled):
		m.console.Errorf("Test run aborted.")
	case errors.Is(err, source.ErrNoEndpoints):
		m.console.Errorf("No mirrors available. Check your connection, then try option 4.")
	default:
		m.console.Errorf("Test run failed: %v", err)
	}
}

func (m *menu) saveResults() {
	path, err := m.session.SaveWorkingSet()

	switch {
	case errors.Is(err, session.ErrNoResults):
		m.console.Printf("No results to save. Run the tests first.")
	case err != nil:
		m.console.Errorf("Failed to save results: %v", err)
	default:
		m.console.Successf("Results saved to %s", path)
	}
}

func (m *menu) setTimeout(ctx context.Context) {
	m.console.Prompt(fmt.Sprintf("Enter timeout in seconds (current %s): ", m.session.Timeout()))

	line, ok := m.readLine(ctx)
	if !ok {
		return
	}

	if err := m.session.SetTimeout(line); err != nil {
		m.console.Errorf("Invalid timeout value, keeping %s.", m.session.Timeout())
		return
	}

	m.console.Successf("Timeout set to %s.", m.session.Timeout())
}

func (m *menu) reloadList(ctx context.Context) {
	m.console.Warnf("Downloading mirror list...")

	if err := m.session.Reload(ctx); err != nil {
		m.console.Errorf("Failed to reload mirror list: %v", err)
		return
	}

	m.console.Successf("Reloaded %d mirrors.", m.session.EndpointCount())
}

func (m *menu) readLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-m.lines:
		return line, ok
	}
}

// readLines pumps stdin lines into a channel so menu reads can be
// abandoned on cancellation. The channel closes on EOF.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	return lines
}
