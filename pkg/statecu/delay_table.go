package statecu

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"

	"statecu/entities"
)

const (
	delayIDWidth      = 8
	delayCountWidth   = 4
	delayValueWidth   = 8
	delayValuesOnLine = 12
)

var delayTableLayout = Layout{
	{Name: "ID", Width: delayIDWidth, Kind: KindString},
	{Name: "Ndly", Width: delayCountWidth, Kind: KindInt},
	{Name: "Ret1", Width: delayValueWidth, Kind: KindDouble, Prec: 2},
	{Name: "Ret2", Width: delayValueWidth, Kind: KindDouble, Prec: 2},
	{Name: "...", Width: delayValueWidth, Kind: KindDouble, Prec: 2},
}

var delayTableLegend = []string{
	"ID:     Delay table identifier",
	"Ndly:   Number of return values",
	"Ret:    Percent of return in each period (12 per line, continued",
	"        on lines whose first 12 columns are blank)",
	"",
	"Values for one table should sum to 100.",
}

var delayTableFreeLegend = []string{
	"Free format: table identifier, number of values, then the values.",
	"Values may continue on following lines. Missing values are -999.",
	"",
	"Values for one table should sum to 100.",
}

// DetectDelayTableVariant reports VariantCurrent (fixed columns) when the
// first data line carries an 8-column ID followed by a 4-column count
// and, for a table longer than one line, the next line leaves the ID and
// count columns blank. Anything else is VariantFree.
func DetectDelayTableVariant(lines []string) Variant {
	dls := dataLines(lines)
	if len(dls) == 0 {
		return VariantCurrent
	}
	line := dls[0].text
	head := delayIDWidth + delayCountWidth
	if len(line) < head {
		return VariantFree
	}
	tok := strings.Fields(line)
	count := line[delayIDWidth:head]
	if strings.TrimSpace(line[:delayIDWidth]) != tok[0] || !isInteger(count) {
		return VariantFree
	}
	// A free continuation line starts with a value in column 1.
	if parseInt(count) > delayValuesOnLine && len(dls) > 1 {
		next := dls[1].text
		if strings.TrimSpace(next[:min(len(next), head)]) != "" {
			return VariantFree
		}
	}
	return VariantCurrent
}

// ParseDelayTables reads a delay table file in the given variant.
func ParseDelayTables(r io.Reader, v Variant) ([]*entities.DelayTable, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	return parseDelayTables(lines, v)
}

func parseDelayTables(lines []string, v Variant) ([]*entities.DelayTable, error) {
	if v == VariantFree {
		return parseDelayTablesFree(lines)
	}
	return parseDelayTablesFixed(lines), nil
}

// parseDelayTablesFixed never fails: short tables are padded with
// missing values.
func parseDelayTablesFixed(lines []string) []*entities.DelayTable {
	var out []*entities.DelayTable
	var cur *entities.DelayTable
	want := 0
	flush := func() {
		if cur == nil {
			return
		}
		for want > 0 && len(cur.Values) < want {
			cur.Values = append(cur.Values, entities.MissingDouble)
		}
		out = append(out, cur)
	}
	for _, dl := range dataLines(lines) {
		line := dl.text
		head := line
		if len(head) > delayIDWidth+delayCountWidth {
			head = head[:delayIDWidth+delayCountWidth]
		}
		if strings.TrimSpace(head) != "" {
			flush()
			f := splitFixed(line, []int{delayIDWidth, delayCountWidth})
			cur = entities.NewDelayTable(f[0])
			want = parseInt(f[1])
			if entities.IsMissingInt(want) {
				want = 0
			}
		}
		if cur == nil || len(line) <= delayIDWidth+delayCountWidth {
			continue
		}
		rest := line[delayIDWidth+delayCountWidth:]
		for pos := 0; pos < len(rest); pos += delayValueWidth {
			if want > 0 && len(cur.Values) >= want {
				break
			}
			end := min(pos+delayValueWidth, len(rest))
			cell := strings.TrimSpace(rest[pos:end])
			if want == 0 && cell == "" {
				continue
			}
			cur.Values = append(cur.Values, parseDouble(cell))
		}
	}
	flush()
	return out
}

func parseDelayTablesFree(lines []string) ([]*entities.DelayTable, error) {
	var tok []string
	for _, dl := range dataLines(lines) {
		tok = append(tok, strings.Fields(dl.text)...)
	}
	var out []*entities.DelayTable
	for i := 0; i < len(tok); {
		if i+1 >= len(tok) {
			return nil, fmt.Errorf("delay table %q: %w", tok[i], ErrUnexpectedEOF)
		}
		d := entities.NewDelayTable(tok[i])
		n := parseInt(tok[i+1])
		if entities.IsMissingInt(n) || n < 0 {
			return nil, fmt.Errorf("delay table %q: %w: invalid value count %q", tok[i], ErrMalformed, tok[i+1])
		}
		i += 2
		if i+n > len(tok) {
			return nil, fmt.Errorf("delay table %q: %w", d.ID, ErrUnexpectedEOF)
		}
		d.Values = make([]float64, n)
		for j := range d.Values {
			d.Values[j] = parseDouble(tok[i+j])
		}
		i += n
		out = append(out, d)
	}
	return out, nil
}

func ReadDelayTableFile(fsys billy.Basic, name string, v Variant) ([]*entities.DelayTable, error) {
	return readFile(fsys, name, func(lines []string) ([]*entities.DelayTable, error) {
		return parseDelayTables(lines, v)
	})
}

// WriteDelayTables writes fixed columns unless the Version prop is
// "free".
func WriteDelayTables(w io.Writer, tables []*entities.DelayTable, o WriteOptions) error {
	props := o.props()
	free := props.Variant() == VariantFree
	if err := writeHeader(w, o); err != nil {
		return err
	}
	var err error
	if free {
		err = writeDocBlock(w, "StateCU Delay Table File (free format)", delayTableFreeLegend, nil)
	} else {
		err = writeDocBlock(w, "StateCU Delay Table File", delayTableLegend, delayTableLayout)
	}
	if err != nil {
		return err
	}
	adjust := props.AutoAdjust()
	lw := &lineWriter{w: w}
	for _, d := range tables {
		if d == nil {
			continue
		}
		if free {
			writeDelayTableFree(lw, d)
		} else {
			writeDelayTableFixed(lw, d, adjust)
		}
	}
	return lw.err
}

func writeDelayTableFixed(lw *lineWriter, d *entities.DelayTable, adjust bool) {
	var b strings.Builder
	b.WriteString(padRight(d.ID, delayIDWidth))
	b.WriteString(fixedInt(len(d.Values), delayCountWidth))
	for j, v := range d.Values {
		if j > 0 && j%delayValuesOnLine == 0 {
			lw.printf("%s", b.String())
			b.Reset()
			b.WriteString(strings.Repeat(" ", delayIDWidth+delayCountWidth))
		}
		b.WriteString(fixedDouble(v, delayValueWidth, 2, adjust))
	}
	lw.printf("%s", b.String())
}

func writeDelayTableFree(lw *lineWriter, d *entities.DelayTable) {
	parts := []string{d.ID, strconv.Itoa(len(d.Values))}
	for j, v := range d.Values {
		if j > 0 && j%delayValuesOnLine == 0 {
			lw.printf("%s", strings.Join(parts, " "))
			parts = parts[:0]
		}
		parts = append(parts, padLeft(freeDouble(v, 2), delayValueWidth-1))
	}
	lw.printf("%s", strings.Join(parts, " "))
}

func WriteDelayTableFile(fsys billy.Basic, name string, tables []*entities.DelayTable, o WriteOptions) error {
	return writeFile(fsys, name, o, func(w io.Writer, o WriteOptions) error {
		return WriteDelayTables(w, tables, o)
	})
}

// delaySumTolerance is the allowed difference from 100 percent.
const delaySumTolerance = 0.1

func CheckDelayTable(d *entities.DelayTable) []entities.Problem {
	ck := checker{component: ComponentDelayTables, id: d.ID}
	if strings.TrimSpace(d.ID) == "" {
		ck.add("Delay table identifier is blank.", "Specify a delay table identifier.")
	}
	if len(d.Values) == 0 {
		ck.add("Delay table has no values.", "Specify at least one return percent.")
		return ck.problems
	}
	sum := 0.0
	for j, v := range d.Values {
		switch {
		case entities.IsMissingDouble(v):
			ck.add(fmt.Sprintf("Delay value %d is missing.", j+1), "Specify a percent 0 to 100.")
		case !between(v, 0, 100):
			ck.add(fmt.Sprintf("Delay value %d (%.2f) is out of range.", j+1, v), "Specify a percent 0 to 100.")
		default:
			sum += v
		}
	}
	if math.Abs(sum-100) > delaySumTolerance {
		ck.add(fmt.Sprintf("Delay values sum to %.2f.", sum), "Adjust the values to sum to 100.")
	}
	return ck.problems
}

func DelayTableTable(tables []*entities.DelayTable) Table {
	t := Table{
		Name:   string(ComponentDelayTables),
		Header: []string{"ID", "Position", "Value"},
	}
	for _, d := range tables {
		if d == nil {
			continue
		}
		for j, v := range d.Values {
			t.Rows = append(t.Rows, []string{d.ID, strconv.Itoa(j + 1), listDouble(v)})
		}
	}
	return t
}
