package statecu

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"

	"statecu/entities"
)

// Component identifies one StateCU auxiliary file type.
type Component string

const (
	ComponentClimateStations       Component = "ClimateStations"
	ComponentCropCharacteristics   Component = "CropCharacteristics"
	ComponentBlaneyCriddle         Component = "BlaneyCriddle"
	ComponentPenmanMonteith        Component = "PenmanMonteith"
	ComponentDelayTables           Component = "DelayTables"
	ComponentDelayTableAssignments Component = "DelayTableAssignments"
)

// Components lists every component in file-set order.
var Components = []Component{
	ComponentClimateStations,
	ComponentCropCharacteristics,
	ComponentBlaneyCriddle,
	ComponentPenmanMonteith,
	ComponentDelayTables,
	ComponentDelayTableAssignments,
}

var componentExt = map[Component]string{
	ComponentClimateStations:       "cli",
	ComponentCropCharacteristics:   "cch",
	ComponentBlaneyCriddle:         "kbc",
	ComponentPenmanMonteith:        "kpm",
	ComponentDelayTables:           "dly",
	ComponentDelayTableAssignments: "dla",
}

func (c Component) Extension() string { return componentExt[c] }

// ParseComponent accepts a component name or file extension, ignoring
// case.
func ParseComponent(s string) (Component, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), ".")
	for _, c := range Components {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Extension()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownComponent, s)
}

func ComponentFromFilename(name string) (Component, error) {
	ext := path.Ext(strings.ReplaceAll(name, `\`, "/"))
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownComponent, name)
	}
	return ParseComponent(ext)
}

// Dataset is an in-memory set of records, one slice per component.
type Dataset struct {
	ClimateStations       []*entities.ClimateStation
	CropCharacteristics   []*entities.CropCharacteristics
	BlaneyCriddle         []*entities.BlaneyCriddle
	PenmanMonteith        []*entities.PenmanMonteith
	DelayTables           []*entities.DelayTable
	DelayTableAssignments []*entities.DelayTableAssignment
}

// Records returns the component's records in file order, skipping nils.
func (d *Dataset) Records(c Component) []entities.Record {
	var out []entities.Record
	switch c {
	case ComponentClimateStations:
		out = appendRecords(out, d.ClimateStations)
	case ComponentCropCharacteristics:
		out = appendRecords(out, d.CropCharacteristics)
	case ComponentBlaneyCriddle:
		out = appendRecords(out, d.BlaneyCriddle)
	case ComponentPenmanMonteith:
		out = appendRecords(out, d.PenmanMonteith)
	case ComponentDelayTables:
		out = appendRecords(out, d.DelayTables)
	case ComponentDelayTableAssignments:
		out = appendRecords(out, d.DelayTableAssignments)
	}
	return out
}

func appendRecords[T any, P interface {
	*T
	entities.Record
}](out []entities.Record, recs []P) []entities.Record {
	for _, r := range recs {
		if (*T)(r) == nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (d *Dataset) Len(c Component) int { return len(d.Records(c)) }

// Find returns the first record of c whose ID matches, or nil.
func (d *Dataset) Find(c Component, id string) entities.Record {
	for _, r := range d.Records(c) {
		if r.RecordID() == id {
			return r
		}
	}
	return nil
}

// Check validates every record of every component.
func (d *Dataset) Check() []entities.Problem {
	var out []entities.Problem
	for _, c := range Components {
		for _, r := range d.Records(c) {
			out = append(out, CheckRecord(r)...)
		}
	}
	return out
}

// CheckRecord runs the validator for the record's type.
func CheckRecord(r entities.Record) []entities.Problem {
	switch x := r.(type) {
	case *entities.ClimateStation:
		return CheckClimateStation(x)
	case *entities.CropCharacteristics:
		return CheckCropCharacteristics(x)
	case *entities.BlaneyCriddle:
		return CheckBlaneyCriddle(x)
	case *entities.PenmanMonteith:
		return CheckPenmanMonteith(x)
	case *entities.DelayTable:
		return CheckDelayTable(x)
	case *entities.DelayTableAssignment:
		return CheckDelayTableAssignment(x)
	}
	return nil
}

func (d *Dataset) Table(c Component) (Table, error) {
	switch c {
	case ComponentClimateStations:
		return ClimateStationTable(d.ClimateStations), nil
	case ComponentCropCharacteristics:
		return CropCharacteristicsTable(d.CropCharacteristics), nil
	case ComponentBlaneyCriddle:
		return BlaneyCriddleTable(d.BlaneyCriddle), nil
	case ComponentPenmanMonteith:
		return PenmanMonteithTable(d.PenmanMonteith), nil
	case ComponentDelayTables:
		return DelayTableTable(d.DelayTables), nil
	case ComponentDelayTableAssignments:
		return DelayTableAssignmentTable(d.DelayTableAssignments), nil
	}
	return Table{}, fmt.Errorf("%w: %q", ErrUnknownComponent, c)
}

// Decoded is the result of reading one component file.
type Decoded struct {
	Component Component
	Variant   Variant
	// Comments are the preserved "#" header lines of the source.
	Comments []string
	Dataset  Dataset
}

// DetectVariant pre-scans the leading lines of a component file.
func DetectVariant(c Component, lines []string) Variant {
	switch c {
	case ComponentCropCharacteristics:
		return DetectCropCharacteristicsVariant(lines)
	case ComponentBlaneyCriddle:
		return DetectBlaneyCriddleVariant(lines)
	case ComponentDelayTables:
		return DetectDelayTableVariant(lines)
	}
	return VariantCurrent
}

func Decode(c Component, r io.Reader) (*Decoded, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	return decodeLines(c, lines)
}

func decodeLines(c Component, lines []string) (*Decoded, error) {
	out := &Decoded{Component: c, Variant: DetectVariant(c, lines), Comments: HeaderComments(lines)}
	ds := &out.Dataset
	var err error
	switch c {
	case ComponentClimateStations:
		ds.ClimateStations, err = parseClimateStations(lines)
	case ComponentCropCharacteristics:
		ds.CropCharacteristics, err = parseCropCharacteristics(lines)
	case ComponentBlaneyCriddle:
		ds.BlaneyCriddle, err = parseBlaneyCriddle(lines)
	case ComponentPenmanMonteith:
		ds.PenmanMonteith, err = parsePenmanMonteith(lines)
	case ComponentDelayTables:
		ds.DelayTables, err = parseDelayTables(lines, out.Variant)
	case ComponentDelayTableAssignments:
		ds.DelayTableAssignments, err = parseDelayTableAssignments(lines)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, c)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Encode writes the component's records of ds to w.
func Encode(w io.Writer, c Component, ds *Dataset, o WriteOptions) error {
	switch c {
	case ComponentClimateStations:
		return WriteClimateStations(w, ds.ClimateStations, o)
	case ComponentCropCharacteristics:
		return WriteCropCharacteristics(w, ds.CropCharacteristics, o)
	case ComponentBlaneyCriddle:
		return WriteBlaneyCriddle(w, ds.BlaneyCriddle, o)
	case ComponentPenmanMonteith:
		return WritePenmanMonteith(w, ds.PenmanMonteith, o)
	case ComponentDelayTables:
		return WriteDelayTables(w, ds.DelayTables, o)
	case ComponentDelayTableAssignments:
		return WriteDelayTableAssignments(w, ds.DelayTableAssignments, o)
	}
	return fmt.Errorf("%w: %q", ErrUnknownComponent, c)
}

func ReadComponentFile(fsys billy.Basic, c Component, name string) (*Decoded, error) {
	return readFile(fsys, name, func(lines []string) (*Decoded, error) {
		return decodeLines(c, lines)
	})
}

func WriteComponentFile(fsys billy.Basic, c Component, name string, ds *Dataset, o WriteOptions) error {
	if _, ok := componentExt[c]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownComponent, c)
	}
	return writeFile(fsys, name, o, func(w io.Writer, o WriteOptions) error {
		return Encode(w, c, ds, o)
	})
}

// Codec reads and writes component files, reporting status to Log.
type Codec struct {
	Log Logger
}

func (c Codec) log() Logger {
	if c.Log == nil {
		return discard{}
	}
	return c.Log
}

func (c Codec) ReadFile(fsys billy.Basic, comp Component, name string) (*Decoded, error) {
	c.log().Printf("Reading %s file %q", comp, name)
	d, err := ReadComponentFile(fsys, comp, name)
	if err != nil {
		c.log().Printf("Error reading %q: %v", name, err)
		return nil, err
	}
	c.log().Printf("Read %d %s records (version %s) from %q", d.Dataset.Len(comp), comp, d.Variant, name)
	return d, nil
}

func (c Codec) WriteFile(fsys billy.Basic, comp Component, name string, ds *Dataset, o WriteOptions) error {
	c.log().Printf("Writing %d %s records to %q", ds.Len(comp), comp, name)
	if err := WriteComponentFile(fsys, comp, name, ds, o); err != nil {
		c.log().Printf("Error writing %q: %v", name, err)
		return err
	}
	return nil
}
