package pdftour

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadCSV reads comma separated rows for a Table. Rows may have different
// lengths; cells are kept as written.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty CSV", ErrInvalidTable)
	}
	return rows, nil
}

// LoadCSV reads the CSV file at path.
func LoadCSV(path string) ([][]string, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	defer f.Close()
	return ReadCSV(f)
}
