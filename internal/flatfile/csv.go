package flatfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// readCSV loads one table file. The first record is the header; empty cells
// mean the attribute is absent for that row. A missing file is an empty
// table.
func readCSV(path string) ([]types.Row, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	head := records[0]
	rows := make([]types.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(types.Row, len(head))
		for i, cell := range record {
			if i >= len(head) || cell == "" {
				continue
			}
			row[head[i]] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeCSV atomically rewrites one table file using the temp-file, fsync,
// rename pattern. Absent attributes become empty cells.
func writeCSV(path string, head []string, rows []types.Row) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".table-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(head); err != nil {
		return fail("writing header", err)
	}
	record := make([]string, len(head))
	for _, row := range rows {
		for i, name := range head {
			record[i] = row[name]
		}
		if err := w.Write(record); err != nil {
			return fail("writing record", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fail("flushing", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
