// Package bench implements the micro-benchmark harness and CSV export
// collaborator the spec calls out as external, plumbing-only surface
// (spec.md §1/§6) rather than part of the cryptographic core.
package bench

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
)

// CSVWriter emits one .csv file per scenario name into a working directory,
// grounded on the only encoding/csv usage in the reference pack (the bulk
// export path's header-row-then-streamed-records shape).
type CSVWriter struct {
	Dir string
}

// NewCSVWriter returns a writer rooted at dir (created if absent); dir
// defaults to "csv_dir" when empty.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if dir == "" {
		dir = "csv_dir"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, delegerr.Wrap(delegerr.Serialize, "create csv output directory", err)
	}
	return &CSVWriter{Dir: dir}, nil
}

// WriteScenario writes header followed by rows to "<scenario>.csv" under w.Dir.
func (w *CSVWriter) WriteScenario(scenario string, header []string, rows [][]string) error {
	path := filepath.Join(w.Dir, scenario+".csv")
	f, err := os.Create(path)
	if err != nil {
		return delegerr.Wrap(delegerr.Serialize, "create csv file "+path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return delegerr.Wrap(delegerr.Serialize, "write csv header", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return delegerr.Wrap(delegerr.Serialize, "write csv row", err)
		}
	}
	return nil
}

// WriteAll groups rows by Scenario and writes one CSV file per group.
func (w *CSVWriter) WriteAll(rows []Row) error {
	byScenario := map[string][][]string{}
	var order []string
	for _, r := range rows {
		if _, seen := byScenario[r.Scenario]; !seen {
			order = append(order, r.Scenario)
		}
		byScenario[r.Scenario] = append(byScenario[r.Scenario], []string{r.Metric, r.Unit, formatFloat(r.Value)})
	}

	header := []string{"metric", "unit", "value"}
	for _, scenario := range order {
		if err := w.WriteScenario(scenario, header, byScenario[scenario]); err != nil {
			return err
		}
	}
	return nil
}
