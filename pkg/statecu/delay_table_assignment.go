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

var delayAssignmentStructureLayout = Layout{
	{Name: "ID", Width: 12, Kind: KindString},
	{Name: "Name", Width: 24, Kind: KindString},
	{Name: "Nrtn", Width: 4, Kind: KindInt},
}

var delayAssignmentLayout = Layout{
	{Name: "", Width: 12, Kind: KindString},
	{Name: "Pct", Width: 8, Kind: KindDouble, Prec: 2},
	{Name: "DelayID", Width: 12, Kind: KindString},
}

var delayAssignmentLegend = []string{
	"Structure line:",
	"  ID:       Structure identifier",
	"  Name:     Structure name",
	"  Nrtn:     Number of delay table assignments that follow",
	"Assignment line (first 12 columns blank):",
	"  Pct:      Percent of return flow using the delay table",
	"  DelayID:  Delay table identifier",
	"",
	"Percents for one structure should sum to 100.",
}

func ParseDelayTableAssignments(r io.Reader) ([]*entities.DelayTableAssignment, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	return parseDelayTableAssignments(lines)
}

// parseDelayTableAssignments starts a record at each line whose first 12
// columns are non-blank. The count on the structure line is not trusted;
// the assignment lines that follow are.
func parseDelayTableAssignments(lines []string) ([]*entities.DelayTableAssignment, error) {
	var out []*entities.DelayTableAssignment
	var cur *entities.DelayTableAssignment
	for _, dl := range dataLines(lines) {
		head := dl.text
		if len(head) > 12 {
			head = head[:12]
		}
		if strings.TrimSpace(head) != "" {
			f := delayAssignmentStructureLayout.Split(dl.text)
			cur = entities.NewDelayTableAssignment(f[0])
			if f[1] != "" {
				cur.Name = f[1]
			}
			out = append(out, cur)
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("line %d: %w: assignment before any structure", dl.no, ErrMalformed)
		}
		f := delayAssignmentLayout.Split(dl.text)
		cur.Assignments = append(cur.Assignments, entities.DelayAssignment{
			Percent:      parseDouble(f[1]),
			DelayTableID: f[2],
		})
	}
	return out, nil
}

func ReadDelayTableAssignmentFile(fsys billy.Basic, name string) ([]*entities.DelayTableAssignment, error) {
	return readFile(fsys, name, parseDelayTableAssignments)
}

func WriteDelayTableAssignments(w io.Writer, recs []*entities.DelayTableAssignment, o WriteOptions) error {
	if err := writeHeader(w, o); err != nil {
		return err
	}
	if err := writeDocBlock(w, "StateCU Delay Table Assignment File", delayAssignmentLegend, delayAssignmentStructureLayout); err != nil {
		return err
	}
	adjust := o.props().AutoAdjust()
	lw := &lineWriter{w: w}
	for _, a := range recs {
		if a == nil {
			continue
		}
		lw.printf("%s", delayAssignmentStructureLayout.Format(adjust, a.ID, a.Name, len(a.Assignments)))
		for _, as := range a.Assignments {
			line := delayAssignmentLayout.Format(adjust, "", as.Percent, as.DelayTableID)
			if strings.TrimSpace(line) == "" {
				// A blank line would be skipped on read and drop the assignment.
				line = strings.Repeat(" ", 12) + padLeft(freeDouble(entities.MissingDouble, 2), 8)
			}
			lw.printf("%s", line)
		}
	}
	return lw.err
}

func WriteDelayTableAssignmentFile(fsys billy.Basic, name string, recs []*entities.DelayTableAssignment, o WriteOptions) error {
	return writeFile(fsys, name, o, func(w io.Writer, o WriteOptions) error {
		return WriteDelayTableAssignments(w, recs, o)
	})
}

func CheckDelayTableAssignment(a *entities.DelayTableAssignment) []entities.Problem {
	ck := checker{component: ComponentDelayTableAssignments, id: a.ID}
	if strings.TrimSpace(a.ID) == "" {
		ck.add("Structure identifier is blank.", "Specify a structure identifier.")
	}
	if len(a.Assignments) == 0 {
		ck.add("Structure has no delay table assignments.", "Assign at least one delay table.")
		return ck.problems
	}
	sum := 0.0
	for j, as := range a.Assignments {
		if strings.TrimSpace(as.DelayTableID) == "" {
			ck.add(fmt.Sprintf("Assignment %d has no delay table identifier.", j+1), "Specify a delay table identifier.")
		}
		switch v := as.Percent; {
		case entities.IsMissingDouble(v):
			ck.add(fmt.Sprintf("Assignment %d percent is missing.", j+1), "Specify a percent 0 to 100.")
		case !between(v, 0, 100):
			ck.add(fmt.Sprintf("Assignment %d percent (%.2f) is out of range.", j+1, v), "Specify a percent 0 to 100.")
		default:
			sum += v
		}
	}
	if math.Abs(sum-100) > delaySumTolerance {
		ck.add(fmt.Sprintf("Assignment percents sum to %.2f.", sum), "Adjust the percents to sum to 100.")
	}
	return ck.problems
}

func DelayTableAssignmentTable(recs []*entities.DelayTableAssignment) Table {
	t := Table{
		Name:   string(ComponentDelayTableAssignments),
		Header: []string{"ID", "Name", "Order", "DelayTableID", "Percent"},
	}
	for _, a := range recs {
		if a == nil {
			continue
		}
		for j, as := range a.Assignments {
			t.Rows = append(t.Rows, []string{a.ID, a.Name, strconv.Itoa(j + 1), as.DelayTableID, listDouble(as.Percent)})
		}
	}
	return t
}
