package statecu

import (
	"fmt"
	"strconv"
	"strings"

	"statecu/entities"
)

// Variant names a historical layout of a StateCU file. A variant is
// chosen once per read (by detection) or per write (from Props).
type Variant int

const (
	VariantCurrent Variant = iota
	VariantV10             // StateCU version 10 layout
	VariantFree            // free-format delay tables
)

func (v Variant) String() string {
	switch v {
	case VariantV10:
		return "10"
	case VariantFree:
		return "free"
	}
	return "current"
}

func ParseVariant(s string) Variant {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "10":
		return VariantV10
	case "free":
		return VariantFree
	}
	return VariantCurrent
}

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDouble
)

// Column is one fixed-width field of a record layout.
type Column struct {
	Name  string
	Width int
	Kind  Kind
	Prec  int
}

// Layout is an ordered list of fixed-width columns.
type Layout []Column

func (l Layout) Widths() []int {
	out := make([]int, len(l))
	for i, c := range l {
		out[i] = c.Width
	}
	return out
}

func (l Layout) Length() int {
	n := 0
	for _, c := range l {
		n += c.Width
	}
	return n
}

// Split cuts a line into trimmed fields. Short lines yield empty
// trailing fields.
func (l Layout) Split(line string) []string {
	return splitFixed(line, l.Widths())
}

// Format renders one value per column. Strings are left-justified and
// truncated; numbers are right-justified and blank when missing.
func (l Layout) Format(autoAdjust bool, values ...any) string {
	var b strings.Builder
	for i, c := range l {
		var v any
		if i < len(values) {
			v = values[i]
		}
		switch x := v.(type) {
		case string:
			b.WriteString(padRight(x, c.Width))
		case int:
			b.WriteString(fixedInt(x, c.Width))
		case float64:
			b.WriteString(fixedDouble(x, c.Width, c.Prec, autoAdjust))
		default:
			b.WriteString(strings.Repeat(" ", c.Width))
		}
	}
	return b.String()
}

// RecordFormat returns the Fortran-style record description, e.g.
// "(a12,f6.2,f9.2,a20,a8,a24,2f8.2)".
func (l Layout) RecordFormat() string {
	var parts []string
	for i := 0; i < len(l); {
		j := i + 1
		for j < len(l) && l[j].descriptor() == l[i].descriptor() {
			j++
		}
		d := l[i].descriptor()
		if n := j - i; n > 1 {
			d = strconv.Itoa(n) + d
		}
		parts = append(parts, d)
		i = j
	}
	return "(" + strings.Join(parts, ",") + ")"
}

func (c Column) descriptor() string {
	switch c.Kind {
	case KindInt:
		return fmt.Sprintf("i%d", c.Width)
	case KindDouble:
		return fmt.Sprintf("f%d.%d", c.Width, c.Prec)
	}
	return fmt.Sprintf("a%d", c.Width)
}

// Ruler returns the column title line and the begin/end marker line
// written in the file header.
func (l Layout) Ruler() (titles, marks string) {
	var t, m strings.Builder
	for _, c := range l {
		t.WriteString(padRight(c.Name, c.Width))
		switch {
		case c.Width == 1:
			m.WriteString("x")
		default:
			m.WriteString("b" + strings.Repeat("-", c.Width-2) + "e")
		}
	}
	return strings.TrimRight(t.String(), " "), m.String()
}

func splitFixed(line string, widths []int) []string {
	out := make([]string, len(widths))
	pos := 0
	for i, w := range widths {
		if pos >= len(line) {
			break
		}
		end := pos + w
		if end > len(line) {
			end = len(line)
		}
		out[i] = strings.TrimSpace(line[pos:end])
		pos = end
	}
	return out
}

// parseDouble returns MissingDouble for blank or malformed input.
func parseDouble(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return entities.MissingDouble
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return entities.MissingDouble
	}
	return v
}

// parseInt returns MissingInt for blank or malformed input. Integral
// decimals such as "5.0" are accepted.
func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return entities.MissingInt
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return entities.MissingInt
	}
	return int(f)
}

func isInteger(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}

func padRight(s string, w int) string {
	if len(s) > w {
		return s[:w]
	}
	return s + strings.Repeat(" ", w-len(s))
}

func padLeft(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return strings.Repeat(" ", w-len(s)) + s
}

func fixedInt(v, width int) string {
	if entities.IsMissingInt(v) {
		return strings.Repeat(" ", width)
	}
	return padLeft(strconv.Itoa(v), width)
}

// fixedDouble formats v right-justified in width. With autoAdjust the
// precision is reduced until the value fits.
func fixedDouble(v float64, width, prec int, autoAdjust bool) string {
	if entities.IsMissingDouble(v) {
		return strings.Repeat(" ", width)
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)
	for autoAdjust && len(s) > width && prec > 0 {
		prec--
		s = strconv.FormatFloat(v, 'f', prec, 64)
	}
	return padLeft(s, width)
}

func freeInt(v int) string {
	if entities.IsMissingInt(v) {
		return strconv.Itoa(entities.MissingInt)
	}
	return strconv.Itoa(v)
}

func freeDouble(v float64, prec int) string {
	if entities.IsMissingDouble(v) {
		return strconv.Itoa(entities.MissingInt)
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// listInt and listDouble render list-file cells; missing is empty.
func listInt(v int) string {
	if entities.IsMissingInt(v) {
		return ""
	}
	return strconv.Itoa(v)
}

func listDouble(v float64) string {
	if entities.IsMissingDouble(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// cropNumber is the integer key written for crop records: the ID when it
// is numeric, else the 1-based sequence. Version 10 files always carry
// -999.
func cropNumber(id string, seq int, v Variant) string {
	if v == VariantV10 {
		return strconv.Itoa(entities.MissingInt)
	}
	if isInteger(id) {
		return strings.TrimSpace(id)
	}
	return strconv.Itoa(seq)
}
