// Package extract reads the raw tabular extracts into header-keyed records.
// Any read failure here is fatal for the run: the pipeline refuses to start
// transforming with a partial extract.
package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raghavirajesh/BITSOM-BA-25072040-fleximart-data-architecture/internal/domain"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// ReadTable parses one CSV extract. The first row is the header; every data
// row becomes a RawRecord keyed by header name. Cell values are kept verbatim
// (no trimming) so the cleaners see exactly what the extract carried.
func ReadTable(path string) ([]domain.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open extract %s: %w", path, err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read extract %s: %w", path, err)
	}
	return rows, nil
}

// Read parses CSV from r. Split out from ReadTable so tests can feed
// in-memory extracts.
func Read(r io.Reader) ([]domain.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // width enforced against the header below

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty extract: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var rows []domain.RawRecord
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) != len(header) {
			return nil, fmt.Errorf("line %d: got %d fields, header has %d", line, len(rec), len(header))
		}
		row := make(domain.RawRecord, len(header))
		for i, h := range header {
			row[h] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
