package statecu

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"

	"statecu/entities"
)

var penmanMonteithLegend = []string{
	"Line 1: title",
	"Line 2: number of crops",
	"Crop:   crop number, crop name, Penman-Monteith method (ktsw)",
	"Curve:  11 lines per growth stage of percent-of-stage and basal coefficient",
	"        Alfalfa crops have 3 growth stages, other crops 1.",
	"",
	"Free format. Missing values are written as -999.",
}

func ParsePenmanMonteith(r io.Reader) ([]*entities.PenmanMonteith, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	return parsePenmanMonteith(lines)
}

func parsePenmanMonteith(lines []string) ([]*entities.PenmanMonteith, error) {
	dls := dataLines(lines)
	var out []*entities.PenmanMonteith
	for i := 2; i < len(dls); {
		tok := strings.Fields(dls[i].text)
		if len(tok) < 2 {
			return nil, fmt.Errorf("line %d: %w: expected crop record, got %q", dls[i].no, ErrMalformed, dls[i].text)
		}
		name := tok[1]
		ktsw := entities.MissingInt
		if len(tok) >= 3 {
			name = strings.Join(tok[1:len(tok)-1], " ")
			ktsw = parseInt(tok[len(tok)-1])
		}
		p := entities.NewPenmanMonteith(name)
		p.Method = ktsw
		k := i + 1
		for s := range p.Stages {
			st := &p.Stages[s]
			for j := range st.Positions {
				if k >= len(dls) {
					return nil, fmt.Errorf("crop %q stage %d: %w", name, s+1, ErrUnexpectedEOF)
				}
				pt := strings.Fields(dls[k].text)
				if len(pt) > 0 {
					st.Positions[j] = parseDouble(pt[0])
				}
				if len(pt) > 1 {
					st.Coefficients[j] = parseDouble(pt[1])
				}
				k++
			}
		}
		out = append(out, p)
		i = k
	}
	return out, nil
}

func ReadPenmanMonteithFile(fsys billy.Basic, name string) ([]*entities.PenmanMonteith, error) {
	return readFile(fsys, name, parsePenmanMonteith)
}

func WritePenmanMonteith(w io.Writer, crops []*entities.PenmanMonteith, o WriteOptions) error {
	props := o.props()
	prec := props.Precision()
	if err := writeHeader(w, o); err != nil {
		return err
	}
	if err := writeDocBlock(w, "StateCU Penman-Monteith Crop Coefficient File", penmanMonteithLegend, nil); err != nil {
		return err
	}
	lw := &lineWriter{w: w}
	lw.printf("%s", props.Title("Penman-Monteith Crop Coefficients"))
	lw.printf("%4d", countNonNil(crops))
	seq := 0
	for _, p := range crops {
		if p == nil {
			continue
		}
		seq++
		name := p.Name
		if name == "" {
			name = p.ID
		}
		lw.printf("%4s %-30.30s %4s", cropNumber(p.ID, seq, VariantCurrent), name, freeInt(p.Method))
		for _, st := range p.Stages {
			for j := range st.Positions {
				c := entities.MissingDouble
				if j < len(st.Coefficients) {
					c = st.Coefficients[j]
				}
				lw.printf("%7s %8s", freeDouble(st.Positions[j], 1), freeDouble(c, prec))
			}
		}
	}
	return lw.err
}

func WritePenmanMonteithFile(fsys billy.Basic, name string, crops []*entities.PenmanMonteith, o WriteOptions) error {
	return writeFile(fsys, name, o, func(w io.Writer, o WriteOptions) error {
		return WritePenmanMonteith(w, crops, o)
	})
}

func CheckPenmanMonteith(p *entities.PenmanMonteith) []entities.Problem {
	ck := checker{component: ComponentPenmanMonteith, id: p.ID}
	if want := entities.GrowthStagesForCrop(p.Name); len(p.Stages) != want {
		ck.add(fmt.Sprintf("Crop has %d growth stage curves.", len(p.Stages)),
			fmt.Sprintf("Specify %d growth stage curves for %s.", want, p.Name))
	}
	for s, st := range p.Stages {
		n := entities.PenmanMonteithPointsPerStage
		if len(st.Positions) != n || len(st.Coefficients) != n {
			ck.add(fmt.Sprintf("Growth stage %d has %d positions and %d coefficients.", s+1, len(st.Positions), len(st.Coefficients)),
				fmt.Sprintf("Specify %d points per growth stage.", n))
		}
		for j, v := range st.Positions {
			if entities.IsMissingDouble(v) {
				ck.add(fmt.Sprintf("Growth stage %d position %d is missing.", s+1, j+1), "Specify a percent of growth stage 0 to 100.")
			} else if !between(v, 0, 100) {
				ck.add(fmt.Sprintf("Growth stage %d position %d (%.1f) is out of range.", s+1, j+1, v), "Specify a percent of growth stage 0 to 100.")
			}
		}
		for j, v := range st.Coefficients {
			if entities.IsMissingDouble(v) {
				ck.add(fmt.Sprintf("Growth stage %d coefficient %d is missing.", s+1, j+1), "Specify a coefficient 0 to 3.0.")
			} else if !between(v, 0, 3.0) {
				ck.add(fmt.Sprintf("Growth stage %d coefficient %d (%.3f) is out of range.", s+1, j+1, v), "Specify a coefficient 0 to 3.0.")
			}
		}
	}
	if m := p.Method; !entities.IsMissingInt(m) && m < 0 {
		ck.add(fmt.Sprintf("Penman-Monteith method (%d) is invalid.", m), "Specify a method >= 0.")
	}
	return ck.problems
}

func PenmanMonteithTable(crops []*entities.PenmanMonteith) Table {
	t := Table{
		Name:   string(ComponentPenmanMonteith),
		Header: []string{"ID", "Name", "PenmanMonteithMethod", "GrowthStage", "CurvePosition", "Coefficient"},
	}
	for _, p := range crops {
		if p == nil {
			continue
		}
		for s, st := range p.Stages {
			for j := range st.Positions {
				c := ""
				if j < len(st.Coefficients) {
					c = listDouble(st.Coefficients[j])
				}
				t.Rows = append(t.Rows, []string{p.ID, p.Name, listInt(p.Method), strconv.Itoa(s + 1), listDouble(st.Positions[j]), c})
			}
		}
	}
	return t
}
