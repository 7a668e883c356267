package history

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/neehar-mavuduru/loadtest-reporter/summary"
)

// WriteSidecar persists the record as JSON next to its report so later
// scans do not have to re-parse the markdown.
func WriteSidecar(path string, rec *summary.StatsRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sidecar: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}
	return nil
}

// ReadSidecar loads a record persisted by WriteSidecar.
func ReadSidecar(path string) (*summary.StatsRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec summary.StatsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding sidecar %s: %w", path, err)
	}
	return &rec, nil
}
