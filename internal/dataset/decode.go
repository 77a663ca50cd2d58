package dataset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// recordSource yields raw records; *csv.Reader satisfies it.
type recordSource interface {
	Read() ([]string, error)
}

// sliceSource replays rows already in memory (XLSX sheets, query results).
type sliceSource struct {
	rows [][]string
	next int
}

func (s *sliceSource) Read() ([]string, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	rec := s.rows[s.next]
	s.next++
	return rec, nil
}

// recordReader skips blank records and fits the rest to the header width,
// since spreadsheets routinely drop trailing empty cells.
type recordReader struct {
	src   recordSource
	width int
}

func (r *recordReader) Read() ([]string, error) {
	for {
		rec, err := r.src.Read()
		if err != nil {
			return nil, err
		}
		if blank(rec) {
			continue
		}
		switch {
		case len(rec) < r.width:
			padded := make([]string, r.width)
			copy(padded, rec)
			rec = padded
		case len(rec) > r.width:
			rec = rec[:r.width]
		}
		return rec, nil
	}
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// normalizeHeader maps "Role Name" and "role-name" to role_name.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	return h
}

// decodeRows reads a header record followed by data records.
func decodeRows(src recordSource) ([]Row, error) {
	var header []string
	for {
		rec, err := src.Read()
		if errors.Is(err, io.EOF) {
			return nil, eris.Wrap(ErrDataQuality, "dataset: no header row")
		}
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read header")
		}
		if !blank(rec) {
			header = rec
			break
		}
	}

	present := make(map[string]bool, len(header))
	for i, h := range header {
		header[i] = normalizeHeader(h)
		if header[i] == "" {
			// unnamed trailing columns; keep them distinct for the decoder
			header[i] = fmt.Sprintf("_unnamed_%d", i)
		}
		present[header[i]] = true
	}
	var missing []string
	for _, c := range Columns {
		if !present[c] && !optionalColumns[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Wrapf(ErrDataQuality, "dataset: missing columns %s", strings.Join(missing, ", "))
	}

	dec, err := csvutil.NewDecoder(&recordReader{src: src, width: len(header)}, header...)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: header")
	}

	var rows []Row
	for {
		var row Row
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrapf(err, "dataset: decode record %d", len(rows)+1)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
