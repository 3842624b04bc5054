package statecu

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Table is the list-file view of a component: a header and one detail
// row per logical sub-record.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// WriteListFile writes comments, a quoted header row and the detail
// rows. A value is quoted only when it contains the delimiter.
func WriteListFile(w io.Writer, t Table, delimiter string, comments []string) error {
	if delimiter == "" {
		delimiter = ","
	}
	lw := &lineWriter{w: w}
	for _, c := range comments {
		lw.printf("# %s", c)
	}
	head := make([]string, len(t.Header))
	for i, h := range t.Header {
		head[i] = `"` + h + `"`
	}
	lw.printf("%s", strings.Join(head, delimiter))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if strings.Contains(v, delimiter) {
				v = `"` + v + `"`
			}
			cells[i] = v
		}
		lw.printf("%s", strings.Join(cells, delimiter))
	}
	return lw.err
}

type listFile struct {
	header []string
	cols   map[string]int
	rows   [][]string
}

// readListFile parses a delimited list file, skipping "#" comments.
func readListFile(r io.Reader, delimiter rune) (*listFile, error) {
	if delimiter == 0 {
		delimiter = ','
	}
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("statecu: list file header: %w", err)
	}
	lf := &listFile{header: head, cols: map[string]int{}}
	for i, h := range head {
		lf.cols[normHeader(h)] = i
	}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("statecu: list file: %w", err)
		}
		lf.rows = append(lf.rows, rec)
	}
	return lf, nil
}

func normHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// find returns the index of the first alias present, or -1.
func (lf *listFile) find(aliases ...string) int {
	for _, a := range aliases {
		if i, ok := lf.cols[normHeader(a)]; ok {
			return i
		}
	}
	return -1
}

func (lf *listFile) get(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}
