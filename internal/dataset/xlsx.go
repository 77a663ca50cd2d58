package dataset

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX parses a role sheet from a workbook. An empty sheet name picks
// the first sheet.
func ReadXLSX(path, sheet string) ([]Row, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: xlsx: open file")
	}

	s, err := pickSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	records := make([][]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		records = append(records, cells)
	}

	rows, err := decodeRows(&sliceSource{rows: records})
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: xlsx sheet %q", s.Name)
	}
	return rows, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		s, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("dataset: xlsx: sheet %q not found", name)
		}
		return s, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("dataset: xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}
