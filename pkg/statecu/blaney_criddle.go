package statecu

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"

	"statecu/entities"
)

var blaneyCriddleLegend = []string{
	"Line 1: title",
	"Line 2: number of crops",
	"Crop:   crop number, crop name, curve type (Day or Percent), Blaney-Criddle method (ktsw)",
	"        The method is not written in version 10 and the crop number is -999.",
	"Curve:  25 lines of day-of-year and coefficient (Day), or",
	"        21 lines of percent-of-season and coefficient (Percent)",
	"",
	"ktsw: 0 = SCS modified with TR-21 climatic adjustment",
	"      1 = SCS modified without climatic adjustment",
	"      2 = Pochop (bluegrass)",
	"      3 = original with climatic adjustment",
	"      4 = original without climatic adjustment",
	"",
	"Free format. Missing values are written as -999.",
}

// DetectBlaneyCriddleVariant looks at the first crop line (third data
// line): a curve type in the last field is the version 10 layout, a
// method after it the current one.
func DetectBlaneyCriddleVariant(lines []string) Variant {
	dls := dataLines(lines)
	if len(dls) < 3 {
		return VariantCurrent
	}
	if cl, ok := splitCropLine(strings.Fields(dls[2].text)); ok && !cl.hasMethod {
		return VariantV10
	}
	return VariantCurrent
}

type cropLine struct {
	name      string
	curve     entities.CurveType
	method    int
	hasMethod bool
}

// splitCropLine finds the curve type by value so that crop names may
// contain spaces. The curve type is the last field, or the one before a
// trailing method.
func splitCropLine(tok []string) (cropLine, bool) {
	n := len(tok)
	if n >= 3 {
		if c, ok := entities.ParseCurveType(tok[n-1]); ok {
			return cropLine{name: strings.Join(tok[1:n-1], " "), curve: c, method: entities.MissingInt}, true
		}
	}
	if n >= 4 {
		if c, ok := entities.ParseCurveType(tok[n-2]); ok {
			return cropLine{name: strings.Join(tok[1:n-2], " "), curve: c, method: parseInt(tok[n-1]), hasMethod: true}, true
		}
	}
	return cropLine{}, false
}

func ParseBlaneyCriddle(r io.Reader) ([]*entities.BlaneyCriddle, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	return parseBlaneyCriddle(lines)
}

func parseBlaneyCriddle(lines []string) ([]*entities.BlaneyCriddle, error) {
	dls := dataLines(lines)
	var out []*entities.BlaneyCriddle
	// dls[0] is the title, dls[1] the crop count.
	for i := 2; i < len(dls); {
		tok := strings.Fields(dls[i].text)
		if len(tok) < 3 {
			return nil, fmt.Errorf("line %d: %w: expected crop record, got %q", dls[i].no, ErrMalformed, dls[i].text)
		}
		cl, ok := splitCropLine(tok)
		if !ok {
			flag := tok[len(tok)-1]
			if len(tok) >= 4 && isInteger(flag) {
				flag = tok[len(tok)-2]
			}
			return nil, fmt.Errorf("line %d: %w: unknown curve type %q", dls[i].no, ErrMalformed, flag)
		}
		name := cl.name
		b := entities.NewBlaneyCriddle(name, cl.curve)
		b.Method = cl.method
		pos, coef := b.Curve()
		for j := range pos {
			k := i + 1 + j
			if k >= len(dls) {
				return nil, fmt.Errorf("crop %q: %w", name, ErrUnexpectedEOF)
			}
			pt := strings.Fields(dls[k].text)
			if len(pt) > 0 {
				pos[j] = parseInt(pt[0])
			}
			if len(pt) > 1 {
				coef[j] = parseDouble(pt[1])
			}
		}
		out = append(out, b)
		i += 1 + len(pos)
	}
	return out, nil
}

func ReadBlaneyCriddleFile(fsys billy.Basic, name string) ([]*entities.BlaneyCriddle, error) {
	return readFile(fsys, name, parseBlaneyCriddle)
}

func WriteBlaneyCriddle(w io.Writer, crops []*entities.BlaneyCriddle, o WriteOptions) error {
	props := o.props()
	v10 := props.Version10()
	prec := props.Precision()
	if err := writeHeader(w, o); err != nil {
		return err
	}
	title := "StateCU Blaney-Criddle Crop Coefficient File"
	if v10 {
		title += " (version 10)"
	}
	if err := writeDocBlock(w, title, blaneyCriddleLegend, nil); err != nil {
		return err
	}
	lw := &lineWriter{w: w}
	lw.printf("%s", props.Title("Blaney-Criddle Crop Coefficients"))
	lw.printf("%4d", countNonNil(crops))
	seq := 0
	for _, b := range crops {
		if b == nil {
			continue
		}
		seq++
		name := b.Name
		if name == "" {
			name = b.ID
		}
		if v10 {
			lw.printf("%4s %-30.30s %-7s", cropNumber(b.ID, seq, VariantV10), name, b.CurveType)
		} else {
			lw.printf("%4s %-30.30s %-7s %4s", cropNumber(b.ID, seq, VariantCurrent), name, b.CurveType, freeInt(b.Method))
		}
		pos, coef := b.Curve()
		for j := range pos {
			c := entities.MissingDouble
			if j < len(coef) {
				c = coef[j]
			}
			lw.printf("%4s %8s", freeInt(pos[j]), freeDouble(c, prec))
		}
	}
	return lw.err
}

func WriteBlaneyCriddleFile(fsys billy.Basic, name string, crops []*entities.BlaneyCriddle, o WriteOptions) error {
	return writeFile(fsys, name, o, func(w io.Writer, o WriteOptions) error {
		return WriteBlaneyCriddle(w, crops, o)
	})
}

func CheckBlaneyCriddle(b *entities.BlaneyCriddle) []entities.Problem {
	ck := checker{component: ComponentBlaneyCriddle, id: b.ID}
	hasDay := len(b.DayOfYear) > 0 || len(b.DayCoefficients) > 0
	hasPct := len(b.PercentOfSeason) > 0 || len(b.PercentCoefficients) > 0
	switch {
	case hasDay && hasPct:
		ck.add("Crop has both day-of-year and percent-of-season curves.", "Specify exactly one curve type (Day or Percent).")
		return ck.problems
	case !hasDay && !hasPct:
		ck.add("Crop has no coefficient curve.", "Specify exactly one curve type (Day or Percent).")
		return ck.problems
	}
	switch b.CurveType {
	case entities.CurveDay, entities.CurvePercent:
		if (b.CurveType == entities.CurveDay) != hasDay {
			ck.add(fmt.Sprintf("Curve type %s does not match the curve points.", b.CurveType),
				"Specify the curve type (Day or Percent) that matches the curve points.")
			return ck.problems
		}
	default:
		ck.add(fmt.Sprintf("Curve type %q is invalid.", string(b.CurveType)), "Specify curve type Day or Percent.")
		return ck.problems
	}

	pos, coef, want, lo, hi, unit := b.PercentOfSeason, b.PercentCoefficients, entities.BlaneyCriddlePercentPoints, 0, 100, "percent of season 0 to 100"
	if hasDay {
		pos, coef, want, lo, hi, unit = b.DayOfYear, b.DayCoefficients, entities.BlaneyCriddleDayPoints, 1, 366, "day of year 1 to 366"
	}
	if len(pos) != want || len(coef) != want {
		ck.add(fmt.Sprintf("Curve has %d positions and %d coefficients.", len(pos), len(coef)),
			fmt.Sprintf("Specify %d curve points.", want))
	}
	for j, p := range pos {
		if entities.IsMissingInt(p) {
			ck.add(fmt.Sprintf("Curve position %d is missing.", j+1), "Specify a "+unit+".")
		} else if !betweenInt(p, lo, hi) {
			ck.add(fmt.Sprintf("Curve position %d (%d) is out of range.", j+1, p), "Specify a "+unit+".")
		}
	}
	for j, c := range coef {
		if entities.IsMissingDouble(c) {
			ck.add(fmt.Sprintf("Crop coefficient %d is missing.", j+1), "Specify a coefficient 0 to 3.0.")
		} else if !between(c, 0, 3.0) {
			ck.add(fmt.Sprintf("Crop coefficient %d (%.3f) is out of range.", j+1, c), "Specify a coefficient 0 to 3.0.")
		}
	}
	if m := b.Method; !entities.IsMissingInt(m) && !betweenInt(m, 0, 4) {
		ck.add(fmt.Sprintf("Blaney-Criddle method (%d) is invalid.", m), "Specify a method 0 to 4.")
	}
	return ck.problems
}

func BlaneyCriddleTable(crops []*entities.BlaneyCriddle) Table {
	t := Table{
		Name:   string(ComponentBlaneyCriddle),
		Header: []string{"ID", "Name", "CurveType", "BlaneyCriddleMethod", "CurvePosition", "Coefficient"},
	}
	for _, b := range crops {
		if b == nil {
			continue
		}
		pos, coef := b.Curve()
		for j := range pos {
			c := ""
			if j < len(coef) {
				c = listDouble(coef[j])
			}
			t.Rows = append(t.Rows, []string{b.ID, b.Name, string(b.CurveType), listInt(b.Method), listInt(pos[j]), c})
		}
	}
	return t
}

func countNonNil[T any](recs []*T) int {
	n := 0
	for _, r := range recs {
		if r != nil {
			n++
		}
	}
	return n
}
