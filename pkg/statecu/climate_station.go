package statecu

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"

	"statecu/entities"
)

var climateStationLayout = Layout{
	{Name: "ID", Width: 12, Kind: KindString},
	{Name: "Lat", Width: 6, Kind: KindDouble, Prec: 2},
	{Name: "Elev", Width: 9, Kind: KindDouble, Prec: 2},
	{Name: "Region1", Width: 20, Kind: KindString},
	{Name: "Region2", Width: 8, Kind: KindString},
	{Name: "Name", Width: 24, Kind: KindString},
	{Name: "zh", Width: 8, Kind: KindDouble, Prec: 2},
	{Name: "zm", Width: 8, Kind: KindDouble, Prec: 2},
}

var climateStationLegend = []string{
	"ID:       Station identifier",
	"Lat:      Latitude, decimal degrees (blank if missing)",
	"Elev:     Elevation, feet (blank if missing)",
	"Region1:  Region 1 (county)",
	"Region2:  Region 2 (HUC)",
	"Name:     Station name",
	"zh:       Temperature measurement height, m (blank if missing)",
	"zm:       Wind measurement height, m (blank if missing)",
}

func ParseClimateStations(r io.Reader) ([]*entities.ClimateStation, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	return parseClimateStations(lines)
}

func parseClimateStations(lines []string) ([]*entities.ClimateStation, error) {
	var out []*entities.ClimateStation
	for _, dl := range dataLines(lines) {
		f := climateStationLayout.Split(dl.text)
		s := entities.NewClimateStation(f[0])
		s.Latitude = parseDouble(f[1])
		s.Elevation = parseDouble(f[2])
		s.Region1 = f[3]
		s.Region2 = f[4]
		if f[5] != "" {
			s.Name = f[5]
		}
		s.Zh = parseDouble(f[6])
		s.Zm = parseDouble(f[7])
		out = append(out, s)
	}
	return out, nil
}

func ReadClimateStationFile(fsys billy.Basic, name string) ([]*entities.ClimateStation, error) {
	return readFile(fsys, name, parseClimateStations)
}

// WriteClimateStations writes the header, legend and one fixed-format
// line per station. Nil stations are skipped.
func WriteClimateStations(w io.Writer, stations []*entities.ClimateStation, o WriteOptions) error {
	if err := writeHeader(w, o); err != nil {
		return err
	}
	if err := writeDocBlock(w, "StateCU Climate Station File", climateStationLegend, climateStationLayout); err != nil {
		return err
	}
	adjust := o.props().AutoAdjust()
	for _, s := range stations {
		if s == nil {
			continue
		}
		name := s.Name
		if name == s.ID {
			name = ""
		}
		line := climateStationLayout.Format(adjust, s.ID, s.Latitude, s.Elevation, s.Region1, s.Region2, name, s.Zh, s.Zm)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func WriteClimateStationFile(fsys billy.Basic, name string, stations []*entities.ClimateStation, o WriteOptions) error {
	return writeFile(fsys, name, o, func(w io.Writer, o WriteOptions) error {
		return WriteClimateStations(w, stations, o)
	})
}

// CheckClimateStation range-checks one station. Missing values are not
// reported.
func CheckClimateStation(s *entities.ClimateStation) []entities.Problem {
	c := checker{component: ComponentClimateStations, id: s.ID}
	if strings.TrimSpace(s.ID) == "" {
		c.add("Climate station identifier is blank.", "Specify a station identifier.")
	}
	if v := s.Latitude; !entities.IsMissingDouble(v) && (v < -90 || v > 90) {
		c.add(fmt.Sprintf("Latitude (%.3f) is out of range.", v), "Specify a latitude -90 to 90.")
	}
	if v := s.Elevation; !entities.IsMissingDouble(v) && (v < 0 || v > 15000) {
		c.add(fmt.Sprintf("Elevation (%.3f) is out of range.", v), "Specify an elevation 0 to 15000 ft.")
	}
	if v := s.Zh; !entities.IsMissingDouble(v) && v <= 0 {
		c.add(fmt.Sprintf("Temperature measurement height (%.3f) is invalid.", v), "Specify a height > 0 m.")
	}
	if v := s.Zm; !entities.IsMissingDouble(v) && v <= 0 {
		c.add(fmt.Sprintf("Wind measurement height (%.3f) is invalid.", v), "Specify a height > 0 m.")
	}
	return c.problems
}

func ClimateStationTable(stations []*entities.ClimateStation) Table {
	t := Table{
		Name:   string(ComponentClimateStations),
		Header: []string{"ID", "Name", "Latitude", "Elevation", "Region1", "Region2", "TemperatureHeight", "WindHeight"},
	}
	for _, s := range stations {
		if s == nil {
			continue
		}
		t.Rows = append(t.Rows, []string{
			s.ID, s.Name, listDouble(s.Latitude), listDouble(s.Elevation),
			s.Region1, s.Region2, listDouble(s.Zh), listDouble(s.Zm),
		})
	}
	return t
}

// ReadClimateStationListFile reads stations back from a delimited list
// file. Column names are matched loosely; only ID is required.
func ReadClimateStationListFile(r io.Reader, delimiter rune) ([]*entities.ClimateStation, error) {
	lf, err := readListFile(r, delimiter)
	if err != nil {
		return nil, err
	}
	cID := lf.find("ID", "StationID", "station_id")
	if cID == -1 {
		return nil, fmt.Errorf("statecu: climate station list file missing ID column, found %v", lf.header)
	}
	cName := lf.find("Name", "StationName")
	cLat := lf.find("Latitude", "Lat")
	cElev := lf.find("Elevation", "Elev")
	cR1 := lf.find("Region1", "County")
	cR2 := lf.find("Region2", "HUC")
	cZh := lf.find("TemperatureHeight", "zh")
	cZm := lf.find("WindHeight", "zm")

	var out []*entities.ClimateStation
	for _, rec := range lf.rows {
		id := lf.get(rec, cID)
		if id == "" {
			continue
		}
		s := entities.NewClimateStation(id)
		if n := lf.get(rec, cName); n != "" {
			s.Name = n
		}
		s.Latitude = parseDouble(lf.get(rec, cLat))
		s.Elevation = parseDouble(lf.get(rec, cElev))
		s.Region1 = lf.get(rec, cR1)
		s.Region2 = lf.get(rec, cR2)
		s.Zh = parseDouble(lf.get(rec, cZh))
		s.Zm = parseDouble(lf.get(rec, cZm))
		out = append(out, s)
	}
	return out, nil
}
