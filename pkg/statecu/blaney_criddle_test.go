package statecu

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statecu/entities"
)

func dayCurve(name string) *entities.BlaneyCriddle {
	b := entities.NewBlaneyCriddle(name, entities.CurveDay)
	b.Method = 0
	for i := range b.DayOfYear {
		b.DayOfYear[i] = 1 + i*15
		b.DayCoefficients[i] = 0.5
	}
	return b
}

func percentCurve(name string) *entities.BlaneyCriddle {
	b := entities.NewBlaneyCriddle(name, entities.CurvePercent)
	b.Method = 1
	for i := range b.PercentOfSeason {
		b.PercentOfSeason[i] = i * 5
		b.PercentCoefficients[i] = 0.25
	}
	return b
}

func TestBlaneyCriddleCurveShape(t *testing.T) {
	d := entities.NewBlaneyCriddle("ALFALFA", entities.CurveDay)
	pos, coef := d.Curve()
	assert.Len(t, pos, 25)
	assert.Len(t, coef, 25)
	assert.Nil(t, d.PercentOfSeason)
	assert.Nil(t, d.PercentCoefficients)

	p := entities.NewBlaneyCriddle("CORN", entities.CurvePercent)
	pos, coef = p.Curve()
	assert.Len(t, pos, 21)
	assert.Len(t, coef, 21)
	assert.Nil(t, p.DayOfYear)
	assert.Nil(t, p.DayCoefficients)
}

func TestBlaneyCriddleRoundTrip(t *testing.T) {
	fs := memfs.New()
	crops := []*entities.BlaneyCriddle{dayCurve("ALFALFA"), nil, percentCurve("GRASS PASTURE")}

	require.NoError(t, WriteBlaneyCriddleFile(fs, "c.kbc", crops, WriteOptions{Now: fixedNow}))
	d, err := ReadComponentFile(fs, ComponentBlaneyCriddle, "c.kbc")
	require.NoError(t, err)
	assert.Equal(t, VariantCurrent, d.Variant)

	got := d.Dataset.BlaneyCriddle
	require.Len(t, got, 2)

	assert.Equal(t, "ALFALFA", got[0].ID)
	assert.Equal(t, entities.CurveDay, got[0].CurveType)
	assert.Equal(t, 0, got[0].Method)
	assert.Equal(t, crops[0].DayOfYear, got[0].DayOfYear)
	assert.Equal(t, crops[0].DayCoefficients, got[0].DayCoefficients)
	assert.Nil(t, got[0].PercentOfSeason)

	assert.Equal(t, "GRASS PASTURE", got[1].Name)
	assert.Equal(t, entities.CurvePercent, got[1].CurveType)
	assert.Equal(t, 1, got[1].Method)
	assert.Equal(t, crops[2].PercentOfSeason, got[1].PercentOfSeason)
	assert.Nil(t, got[1].DayOfYear)
}

func TestBlaneyCriddleVersion10(t *testing.T) {
	fs := memfs.New()
	crops := []*entities.BlaneyCriddle{percentCurve("CORN")}
	o := WriteOptions{Props: Props{PropVersion: "10", PropPrecision: "2"}, Now: fixedNow}
	require.NoError(t, WriteBlaneyCriddleFile(fs, "v10.kbc", crops, o))

	raw, err := util.ReadFile(fs, "v10.kbc")
	require.NoError(t, err)
	lines := strings.Split(string(raw), "\n")
	dls := dataLines(lines)
	require.Greater(t, len(dls), 3)
	assert.Equal(t, []string{"-999", "CORN", "Percent"}, strings.Fields(dls[2].text))
	assert.Equal(t, []string{"5", "0.25"}, strings.Fields(dls[4].text))
	assert.Equal(t, VariantV10, DetectBlaneyCriddleVariant(lines))

	got, err := ReadBlaneyCriddleFile(fs, "v10.kbc")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CORN", got[0].ID)
	assert.True(t, entities.IsMissingInt(got[0].Method))
	assert.Equal(t, crops[0].PercentCoefficients, got[0].PercentCoefficients)
}

func TestBlaneyCriddleVersion10MultiWordName(t *testing.T) {
	var buf bytes.Buffer
	crops := []*entities.BlaneyCriddle{percentCurve("GRASS PASTURE"), dayCurve("ALFALFA")}
	o := WriteOptions{Props: Props{PropVersion: "10"}, Now: fixedNow}
	require.NoError(t, WriteBlaneyCriddle(&buf, crops, o))

	lines, err := readLines(&buf)
	require.NoError(t, err)
	assert.Equal(t, VariantV10, DetectBlaneyCriddleVariant(lines))

	got, err := parseBlaneyCriddle(lines)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "GRASS PASTURE", got[0].Name)
	assert.Equal(t, entities.CurvePercent, got[0].CurveType)
	assert.True(t, entities.IsMissingInt(got[0].Method))
	assert.Equal(t, crops[0].PercentCoefficients, got[0].PercentCoefficients)
	assert.Equal(t, entities.CurveDay, got[1].CurveType)
}

func TestBlaneyCriddleCurveTypeAbbreviations(t *testing.T) {
	var b strings.Builder
	b.WriteString("title\n1\n1 DRY BEANS p 2\n")
	for i := 0; i <= 100; i += 5 {
		fmt.Fprintf(&b, "%d 0.4\n", i)
	}
	got, err := ParseBlaneyCriddle(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "DRY BEANS", got[0].Name)
	assert.Equal(t, entities.CurvePercent, got[0].CurveType)
	assert.Equal(t, 2, got[0].Method)
}

func TestBlaneyCriddleMissingWrittenAsSentinel(t *testing.T) {
	b := percentCurve("CORN")
	b.PercentCoefficients[3] = entities.MissingDouble

	var buf bytes.Buffer
	require.NoError(t, WriteBlaneyCriddle(&buf, []*entities.BlaneyCriddle{b}, WriteOptions{Now: fixedNow}))
	lines, err := readLines(&buf)
	require.NoError(t, err)
	dls := dataLines(lines)
	assert.Equal(t, []string{"15", "-999"}, strings.Fields(dls[3+3].text))

	got, err := parseBlaneyCriddle(lines)
	require.NoError(t, err)
	assert.True(t, entities.IsMissingDouble(got[0].PercentCoefficients[3]))
}

func TestBlaneyCriddleTruncated(t *testing.T) {
	in := "title\n1\n1 CORN Percent 0\n0 0.2\n5 0.3\n"
	_, err := ParseBlaneyCriddle(strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestBlaneyCriddleUnknownCurveType(t *testing.T) {
	_, err := ParseBlaneyCriddle(strings.NewReader("title\n1\n1 CORN Weekly 0\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "unknown curve type")
}

func TestCheckBlaneyCriddle(t *testing.T) {
	assert.Empty(t, CheckBlaneyCriddle(dayCurve("ALFALFA")))
	assert.Empty(t, CheckBlaneyCriddle(percentCurve("CORN")))

	both := percentCurve("CORN")
	both.DayOfYear = []int{1}
	problems := CheckBlaneyCriddle(both)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Recommendation, "exactly one curve type")

	neither := &entities.BlaneyCriddle{Identity: entities.Identity{ID: "X", Name: "X"}}
	require.Len(t, CheckBlaneyCriddle(neither), 1)

	bad := percentCurve("CORN")
	bad.PercentOfSeason[2] = 120
	bad.PercentCoefficients[4] = 3.5
	bad.Method = 9
	assert.Len(t, CheckBlaneyCriddle(bad), 3)

	mismatched := percentCurve("CORN")
	mismatched.CurveType = entities.CurveDay
	problems = CheckBlaneyCriddle(mismatched)
	require.Len(t, problems, 1)
	assert.Equal(t, "Curve type Day does not match the curve points.", problems[0].Message)

	unknown := dayCurve("ALFALFA")
	unknown.CurveType = "Weekly"
	problems = CheckBlaneyCriddle(unknown)
	require.Len(t, problems, 1)
	assert.Equal(t, `Curve type "Weekly" is invalid.`, problems[0].Message)

	short := dayCurve("ALFALFA")
	short.DayOfYear = short.DayOfYear[:20]
	short.DayCoefficients = short.DayCoefficients[:20]
	problems = CheckBlaneyCriddle(short)
	require.Len(t, problems, 1)
	assert.Equal(t, "Specify 25 curve points.", problems[0].Recommendation)
}

func TestBlaneyCriddleTable(t *testing.T) {
	tbl := BlaneyCriddleTable([]*entities.BlaneyCriddle{dayCurve("ALFALFA"), percentCurve("CORN")})
	assert.Len(t, tbl.Rows, 25+21)
	assert.Equal(t, []string{"ALFALFA", "ALFALFA", "Day", "0", "1", "0.5"}, tbl.Rows[0])
	assert.Equal(t, []string{"CORN", "CORN", "Percent", "1", "100", "0.25"}, tbl.Rows[len(tbl.Rows)-1])
}
