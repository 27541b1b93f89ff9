package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const workingSetTimeLayout = "20060102_150405"

// WriteWorkingSet persists the working set to a timestamped file in
// dir, one endpoint per line, and returns the path of the file.
func WriteWorkingSet(dir string, endpoints []string, now time.Time) (string, error) {
	name := fmt.Sprintf("working_sites_%s.txt", now.Format(workingSetTimeLayout))
	path := filepath.Join(dir, name)

	var b strings.Builder
	for _, endpoint := range endpoints {
		b.WriteString(endpoint)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write working set: %w", err)
	}

	return path, nil
}
