// Package loader reads target lists from spreadsheet files. The engine
// consumes the in-memory sequence and is agnostic to the origin format.
package loader

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Load reads an ordered target list from an XLSX or CSV file,
// dispatching on the file extension.
func Load(path string) ([]model.Target, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, eris.Errorf("loader: unsupported file type %q (want .xlsx or .csv)", filepath.Ext(path))
	}
}

// LoadXLSX reads targets from the first sheet of an XLSX file. The
// first row must be a header containing a NAME column.
func LoadXLSX(path string) ([]model.Target, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "loader: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("loader: xlsx file has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}

	return parseRows(rows)
}

// LoadCSV reads targets from a CSV file with the same header contract
// as the XLSX loader.
func LoadCSV(path string) ([]model.Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "loader: open csv")
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "loader: read csv")
	}

	return parseRows(rows)
}

// parseRows maps a header row plus data rows onto targets. Recognized
// headers (case-insensitive): NAME, CITY or ORG or ORGANIZATION,
// WEBSITE or URL. Rows with an empty name are skipped.
func parseRows(rows [][]string) ([]model.Target, error) {
	if len(rows) == 0 {
		return nil, eris.New("loader: file is empty")
	}

	nameIdx, orgIdx, urlIdx := -1, -1, -1
	for j, h := range rows[0] {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case "NAME":
			nameIdx = j
		case "CITY", "ORG", "ORGANIZATION":
			orgIdx = j
		case "WEBSITE", "URL":
			urlIdx = j
		}
	}
	if nameIdx < 0 {
		return nil, eris.New("loader: header row has no NAME column")
	}

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var targets []model.Target
	for _, row := range rows[1:] {
		t := model.Target{
			Name: cell(row, nameIdx),
			Org:  cell(row, orgIdx),
			URL:  cell(row, urlIdx),
		}
		if t.Name == "" {
			continue
		}
		switch {
		case t.URL != "":
			t.InputMode = model.InputModeSeeded
		case t.Org != "":
			t.InputMode = model.InputModeLocated
		default:
			t.InputMode = model.InputModeNameOnly
		}
		targets = append(targets, t)
	}

	return targets, nil
}
