package statecu

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"

	"statecu/entities"
)

// Lines shorter than this are the version 10 layout.
const cropCharacteristicsV10Length = 103

var cropCharacteristicsLayout = Layout{
	{Name: "CropNo", Width: 5, Kind: KindString},
	{Name: "Name", Width: 30, Kind: KindString},
	{Name: "PlMon", Width: 6, Kind: KindInt},
	{Name: "PlDay", Width: 6, Kind: KindInt},
	{Name: "HvMon", Width: 6, Kind: KindInt},
	{Name: "HvDay", Width: 6, Kind: KindInt},
	{Name: "DFull", Width: 6, Kind: KindInt},
	{Name: "DSeas", Width: 6, Kind: KindInt},
	{Name: "TMoi1", Width: 6, Kind: KindDouble, Prec: 1},
	{Name: "TMoi2", Width: 6, Kind: KindDouble, Prec: 1},
	{Name: "MAD", Width: 6, Kind: KindDouble, Prec: 0},
	{Name: "IRX", Width: 6, Kind: KindDouble, Prec: 2},
	{Name: "FRX", Width: 6, Kind: KindDouble, Prec: 2},
	{Name: "AWC", Width: 6, Kind: KindDouble, Prec: 2},
	{Name: "APD", Width: 6, Kind: KindDouble, Prec: 1},
	{Name: "TFlg1", Width: 6, Kind: KindInt},
	{Name: "TFlg2", Width: 6, Kind: KindInt},
	{Name: "Cut2", Width: 6, Kind: KindInt},
	{Name: "Cut3", Width: 6, Kind: KindInt},
}

var cropCharacteristicsV10Layout = Layout{
	{Name: "CrNo", Width: 5, Kind: KindString},
	{Name: "Name", Width: 20, Kind: KindString},
	{Name: "PlM", Width: 4, Kind: KindInt},
	{Name: "PlD", Width: 4, Kind: KindInt},
	{Name: "HvM", Width: 4, Kind: KindInt},
	{Name: "HvD", Width: 4, Kind: KindInt},
	{Name: "DFu", Width: 4, Kind: KindInt},
	{Name: "DSe", Width: 4, Kind: KindInt},
	{Name: "TMoi1", Width: 6, Kind: KindDouble, Prec: 1},
	{Name: "TMoi2", Width: 6, Kind: KindDouble, Prec: 1},
	{Name: "MAD", Width: 6, Kind: KindDouble, Prec: 0},
	{Name: "IRX", Width: 6, Kind: KindDouble, Prec: 2},
	{Name: "FRX", Width: 6, Kind: KindDouble, Prec: 2},
	{Name: "AWC", Width: 6, Kind: KindDouble, Prec: 2},
	{Name: "APD", Width: 6, Kind: KindDouble, Prec: 1},
	{Name: "F1", Width: 2, Kind: KindInt},
	{Name: "F2", Width: 2, Kind: KindInt},
}

var cropCharacteristicsLegend = []string{
	"CropNo:  Crop number (written as a sequence when the crop ID is not numeric)",
	"Name:    Crop name",
	"PlMon:   Planting month",
	"PlDay:   Planting day",
	"HvMon:   Harvest month",
	"HvDay:   Harvest day",
	"DFull:   Days to full cover",
	"DSeas:   Length of season, days",
	"TMoi1:   Temperature, early moisture, F",
	"TMoi2:   Temperature, late moisture, F",
	"MAD:     Management allowable depletion, percent",
	"IRX:     Initial root zone depth, ft",
	"FRX:     Maximum root zone depth, ft",
	"AWC:     Available water capacity, in/in",
	"APD:     Maximum application depth, in",
	"TFlg1:   Spring frost flag (0 = mean, 1 = 28 F)",
	"TFlg2:   Fall frost flag (0 = mean, 1 = 28 F)",
	"Cut2:    Days between 1st and 2nd cut (not in version 10)",
	"Cut3:    Days between 2nd and 3rd cut (not in version 10)",
	"",
	"All numeric fields are blank if missing.",
}

func cropCharacteristicsLayoutFor(v Variant) Layout {
	if v == VariantV10 {
		return cropCharacteristicsV10Layout
	}
	return cropCharacteristicsLayout
}

// DetectCropCharacteristicsVariant scans the first few data lines. The
// file is version 10 when every scanned line is shorter than 103
// characters.
func DetectCropCharacteristicsVariant(lines []string) Variant {
	const scan = 5
	n := 0
	for _, dl := range dataLines(lines) {
		if len(dl.text) >= cropCharacteristicsV10Length {
			return VariantCurrent
		}
		n++
		if n == scan {
			break
		}
	}
	if n == 0 {
		return VariantCurrent
	}
	return VariantV10
}

func ParseCropCharacteristics(r io.Reader) ([]*entities.CropCharacteristics, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	return parseCropCharacteristics(lines)
}

func parseCropCharacteristics(lines []string) ([]*entities.CropCharacteristics, error) {
	v := DetectCropCharacteristicsVariant(lines)
	layout := cropCharacteristicsLayoutFor(v)
	var out []*entities.CropCharacteristics
	for _, dl := range dataLines(lines) {
		f := layout.Split(dl.text)
		name := f[1]
		if name == "" {
			name = f[0]
		}
		c := entities.NewCropCharacteristics(name)
		c.PlantingMonth = parseInt(f[2])
		c.PlantingDay = parseInt(f[3])
		c.HarvestMonth = parseInt(f[4])
		c.HarvestDay = parseInt(f[5])
		c.DaysToFullCover = parseInt(f[6])
		c.LengthOfSeason = parseInt(f[7])
		c.TempEarlyMoisture = parseDouble(f[8])
		c.TempLateMoisture = parseDouble(f[9])
		c.ManagementAllowableDepletion = parseDouble(f[10])
		c.InitialRootZoneDepth = parseDouble(f[11])
		c.MaxRootZoneDepth = parseDouble(f[12])
		c.AvailableWaterCapacity = parseDouble(f[13])
		c.MaxApplicationDepth = parseDouble(f[14])
		c.SpringFrostFlag = parseInt(f[15])
		c.FallFrostFlag = parseInt(f[16])
		if v == VariantCurrent {
			c.DaysBetween1stAnd2ndCut = parseInt(f[17])
			c.DaysBetween2ndAnd3rdCut = parseInt(f[18])
		}
		out = append(out, c)
	}
	return out, nil
}

func ReadCropCharacteristicsFile(fsys billy.Basic, name string) ([]*entities.CropCharacteristics, error) {
	return readFile(fsys, name, parseCropCharacteristics)
}

// WriteCropCharacteristics writes the records in the layout selected by
// the Version prop.
func WriteCropCharacteristics(w io.Writer, crops []*entities.CropCharacteristics, o WriteOptions) error {
	props := o.props()
	v := props.Variant()
	if v != VariantV10 {
		v = VariantCurrent
	}
	layout := cropCharacteristicsLayoutFor(v)
	if err := writeHeader(w, o); err != nil {
		return err
	}
	title := "StateCU Crop Characteristics File"
	if v == VariantV10 {
		title += " (version 10)"
	}
	if err := writeDocBlock(w, title, cropCharacteristicsLegend, layout); err != nil {
		return err
	}
	adjust := props.AutoAdjust()
	seq := 0
	for _, c := range crops {
		if c == nil {
			continue
		}
		seq++
		values := []any{
			padLeft(cropNumber(c.ID, seq, v), 5), c.Name,
			c.PlantingMonth, c.PlantingDay, c.HarvestMonth, c.HarvestDay, c.DaysToFullCover, c.LengthOfSeason,
			c.TempEarlyMoisture, c.TempLateMoisture, c.ManagementAllowableDepletion,
			c.InitialRootZoneDepth, c.MaxRootZoneDepth, c.AvailableWaterCapacity, c.MaxApplicationDepth,
			c.SpringFrostFlag, c.FallFrostFlag,
		}
		if v == VariantCurrent {
			values = append(values, c.DaysBetween1stAnd2ndCut, c.DaysBetween2ndAnd3rdCut)
		}
		if _, err := fmt.Fprintln(w, layout.Format(adjust, values...)); err != nil {
			return err
		}
	}
	return nil
}

func WriteCropCharacteristicsFile(fsys billy.Basic, name string, crops []*entities.CropCharacteristics, o WriteOptions) error {
	return writeFile(fsys, name, o, func(w io.Writer, o WriteOptions) error {
		return WriteCropCharacteristics(w, crops, o)
	})
}

func CheckCropCharacteristics(c *entities.CropCharacteristics) []entities.Problem {
	ck := checker{component: ComponentCropCharacteristics, id: c.ID}
	if strings.TrimSpace(c.ID) == "" {
		ck.add("Crop identifier is blank.", "Specify a crop name.")
	}
	month := func(label string, v int) {
		if !entities.IsMissingInt(v) && !betweenInt(v, 1, 12) {
			ck.add(fmt.Sprintf("%s (%d) is out of range.", label, v), "Specify a month 1 to 12.")
		}
	}
	day := func(label string, v int) {
		if !entities.IsMissingInt(v) && !betweenInt(v, 1, 31) {
			ck.add(fmt.Sprintf("%s (%d) is out of range.", label, v), "Specify a day 1 to 31.")
		}
	}
	month("Planting month", c.PlantingMonth)
	day("Planting day", c.PlantingDay)
	month("Harvest month", c.HarvestMonth)
	day("Harvest day", c.HarvestDay)
	for _, d := range []struct {
		label string
		v     int
	}{{"Days to full cover", c.DaysToFullCover}, {"Length of season", c.LengthOfSeason}} {
		if !entities.IsMissingInt(d.v) && !betweenInt(d.v, 0, 366) {
			ck.add(fmt.Sprintf("%s (%d) is out of range.", d.label, d.v), "Specify days 0 to 366.")
		}
	}
	for _, t := range []struct {
		label string
		v     float64
	}{{"Early moisture temperature", c.TempEarlyMoisture}, {"Late moisture temperature", c.TempLateMoisture}} {
		if !entities.IsMissingDouble(t.v) && !between(t.v, -50, 150) {
			ck.add(fmt.Sprintf("%s (%.1f) is out of range.", t.label, t.v), "Specify a temperature -50 to 150 F.")
		}
	}
	if v := c.ManagementAllowableDepletion; !entities.IsMissingDouble(v) && !between(v, 0, 100) {
		ck.add(fmt.Sprintf("Management allowable depletion (%.1f) is out of range.", v), "Specify a percent 0 to 100.")
	}
	irx, frx := c.InitialRootZoneDepth, c.MaxRootZoneDepth
	if !entities.IsMissingDouble(irx) && !between(irx, 0, 30) {
		ck.add(fmt.Sprintf("Initial root zone depth (%.2f) is out of range.", irx), "Specify a depth 0 to 30 ft.")
	}
	if !entities.IsMissingDouble(frx) && !between(frx, 0, 30) {
		ck.add(fmt.Sprintf("Maximum root zone depth (%.2f) is out of range.", frx), "Specify a depth 0 to 30 ft.")
	}
	if !entities.IsMissingDouble(irx) && !entities.IsMissingDouble(frx) && irx > frx {
		ck.add(fmt.Sprintf("Initial root zone depth (%.2f) exceeds maximum root zone depth (%.2f).", irx, frx),
			"Specify an initial depth less than or equal to the maximum depth.")
	}
	if v := c.AvailableWaterCapacity; !entities.IsMissingDouble(v) && v < 0 {
		ck.add(fmt.Sprintf("Available water capacity (%.2f) is negative.", v), "Specify a capacity >= 0.")
	}
	if v := c.MaxApplicationDepth; !entities.IsMissingDouble(v) && v < 0 {
		ck.add(fmt.Sprintf("Maximum application depth (%.1f) is negative.", v), "Specify a depth >= 0.")
	}
	for _, f := range []struct {
		label string
		v     int
	}{{"Spring frost flag", c.SpringFrostFlag}, {"Fall frost flag", c.FallFrostFlag}} {
		if !entities.IsMissingInt(f.v) && f.v != 0 && f.v != 1 {
			ck.add(fmt.Sprintf("%s (%d) is invalid.", f.label, f.v), "Specify 0 (mean) or 1 (28 F).")
		}
	}
	for _, d := range []struct {
		label string
		v     int
	}{{"Days between 1st and 2nd cut", c.DaysBetween1stAnd2ndCut}, {"Days between 2nd and 3rd cut", c.DaysBetween2ndAnd3rdCut}} {
		if !entities.IsMissingInt(d.v) && d.v < 0 {
			ck.add(fmt.Sprintf("%s (%d) is negative.", d.label, d.v), "Specify days >= 0.")
		}
	}
	return ck.problems
}

var cropCharacteristicsHeader = []string{
	"ID", "Name", "PlantingMonth", "PlantingDay", "HarvestMonth", "HarvestDay",
	"DaysToFullCover", "LengthOfSeason", "EarlyMoistureTemperature", "LateMoistureTemperature",
	"ManagementAllowableDepletion", "InitialRootZoneDepth", "MaxRootZoneDepth",
	"AvailableWaterCapacity", "MaxApplicationDepth", "SpringFrostFlag", "FallFrostFlag",
	"DaysBetween1stAnd2ndCut", "DaysBetween2ndAnd3rdCut",
}

func CropCharacteristicsTable(crops []*entities.CropCharacteristics) Table {
	t := Table{Name: string(ComponentCropCharacteristics), Header: cropCharacteristicsHeader}
	for _, c := range crops {
		if c == nil {
			continue
		}
		t.Rows = append(t.Rows, []string{
			c.ID, c.Name,
			listInt(c.PlantingMonth), listInt(c.PlantingDay), listInt(c.HarvestMonth), listInt(c.HarvestDay),
			listInt(c.DaysToFullCover), listInt(c.LengthOfSeason),
			listDouble(c.TempEarlyMoisture), listDouble(c.TempLateMoisture),
			listDouble(c.ManagementAllowableDepletion), listDouble(c.InitialRootZoneDepth),
			listDouble(c.MaxRootZoneDepth), listDouble(c.AvailableWaterCapacity), listDouble(c.MaxApplicationDepth),
			listInt(c.SpringFrostFlag), listInt(c.FallFrostFlag),
			listInt(c.DaysBetween1stAnd2ndCut), listInt(c.DaysBetween2ndAnd3rdCut),
		})
	}
	return t
}

// ReadCropCharacteristicsListFile reads crops back from a delimited list
// file written by WriteListFile or edited by hand.
func ReadCropCharacteristicsListFile(r io.Reader, delimiter rune) ([]*entities.CropCharacteristics, error) {
	lf, err := readListFile(r, delimiter)
	if err != nil {
		return nil, err
	}
	cID := lf.find("ID", "Crop", "CropName")
	if cID == -1 {
		return nil, fmt.Errorf("statecu: crop characteristics list file missing ID column, found %v", lf.header)
	}
	col := make([]int, len(cropCharacteristicsHeader))
	for i, h := range cropCharacteristicsHeader {
		col[i] = lf.find(h)
	}
	var out []*entities.CropCharacteristics
	for _, rec := range lf.rows {
		id := lf.get(rec, cID)
		if id == "" {
			continue
		}
		c := entities.NewCropCharacteristics(id)
		if n := lf.get(rec, col[1]); n != "" {
			c.Name = n
		}
		g := func(i int) string { return lf.get(rec, col[i]) }
		c.PlantingMonth = parseInt(g(2))
		c.PlantingDay = parseInt(g(3))
		c.HarvestMonth = parseInt(g(4))
		c.HarvestDay = parseInt(g(5))
		c.DaysToFullCover = parseInt(g(6))
		c.LengthOfSeason = parseInt(g(7))
		c.TempEarlyMoisture = parseDouble(g(8))
		c.TempLateMoisture = parseDouble(g(9))
		c.ManagementAllowableDepletion = parseDouble(g(10))
		c.InitialRootZoneDepth = parseDouble(g(11))
		c.MaxRootZoneDepth = parseDouble(g(12))
		c.AvailableWaterCapacity = parseDouble(g(13))
		c.MaxApplicationDepth = parseDouble(g(14))
		c.SpringFrostFlag = parseInt(g(15))
		c.FallFrostFlag = parseInt(g(16))
		c.DaysBetween1stAnd2ndCut = parseInt(g(17))
		c.DaysBetween2ndAnd3rdCut = parseInt(g(18))
		out = append(out, c)
	}
	return out, nil
}
