package statecu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statecu/entities"
)

func sampleCrop(name string) *entities.CropCharacteristics {
	c := entities.NewCropCharacteristics(name)
	c.PlantingMonth = 4
	c.PlantingDay = 15
	c.HarvestMonth = 10
	c.HarvestDay = 1
	c.DaysToFullCover = 90
	c.LengthOfSeason = 160
	c.TempEarlyMoisture = 45.5
	c.TempLateMoisture = 50
	c.ManagementAllowableDepletion = 50
	c.InitialRootZoneDepth = 1.5
	c.MaxRootZoneDepth = 4
	c.AvailableWaterCapacity = 0.17
	c.MaxApplicationDepth = 3.5
	c.SpringFrostFlag = 0
	c.FallFrostFlag = 1
	c.DaysBetween1stAnd2ndCut = 30
	c.DaysBetween2ndAnd3rdCut = 35
	return c
}

func TestDetectCropCharacteristicsVariant(t *testing.T) {
	short := "    1CORN" + strings.Repeat(" ", 102-9)
	long := "    1CORN" + strings.Repeat(" ", 103-9)
	require.Len(t, short, 102)
	require.Len(t, long, 103)

	assert.Equal(t, VariantV10, DetectCropCharacteristicsVariant([]string{"# c", short, short}))
	assert.Equal(t, VariantCurrent, DetectCropCharacteristicsVariant([]string{"# c", short, long}))
	assert.Equal(t, VariantCurrent, DetectCropCharacteristicsVariant([]string{"# only comments"}))
}

func TestCropCharacteristicsRoundTrip(t *testing.T) {
	fs := memfs.New()
	crops := []*entities.CropCharacteristics{sampleCrop("CORN_GRAIN"), sampleCrop("ALFALFA")}
	crops[1].DaysBetween2ndAnd3rdCut = entities.MissingInt

	require.NoError(t, WriteCropCharacteristicsFile(fs, "c.cch", crops, WriteOptions{Now: fixedNow}))
	got, err := ReadCropCharacteristicsFile(fs, "c.cch")
	require.NoError(t, err)
	require.Len(t, got, 2)

	want := sampleCrop("CORN_GRAIN")
	g := got[0]
	assert.Equal(t, "CORN_GRAIN", g.ID)
	assert.Equal(t, "CORN_GRAIN", g.Name)
	assert.Equal(t, want.PlantingMonth, g.PlantingMonth)
	assert.Equal(t, want.PlantingDay, g.PlantingDay)
	assert.Equal(t, want.LengthOfSeason, g.LengthOfSeason)
	assert.Equal(t, want.TempEarlyMoisture, g.TempEarlyMoisture)
	assert.Equal(t, want.ManagementAllowableDepletion, g.ManagementAllowableDepletion)
	assert.Equal(t, want.AvailableWaterCapacity, g.AvailableWaterCapacity)
	assert.Equal(t, want.FallFrostFlag, g.FallFrostFlag)
	assert.Equal(t, want.DaysBetween1stAnd2ndCut, g.DaysBetween1stAnd2ndCut)
	assert.Equal(t, want.DaysBetween2ndAnd3rdCut, g.DaysBetween2ndAnd3rdCut)

	assert.Equal(t, "ALFALFA", got[1].ID)
	assert.True(t, entities.IsMissingInt(got[1].DaysBetween2ndAnd3rdCut))
}

func TestCropCharacteristicsVersion10(t *testing.T) {
	var buf bytes.Buffer
	crops := []*entities.CropCharacteristics{sampleCrop("7")}
	require.NoError(t, WriteCropCharacteristics(&buf, crops, WriteOptions{Props: Props{PropVersion: "10"}, Now: fixedNow}))

	lines, err := readLines(&buf)
	require.NoError(t, err)
	dls := dataLines(lines)
	require.Len(t, dls, 1)
	assert.Len(t, dls[0].text, 95)
	assert.True(t, strings.HasPrefix(dls[0].text, " -999"))
	assert.Equal(t, VariantV10, DetectCropCharacteristicsVariant(lines))

	got, err := parseCropCharacteristics(lines)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "7", got[0].Name)
	assert.Equal(t, 160, got[0].LengthOfSeason)
	assert.Equal(t, 1, got[0].FallFrostFlag)
	assert.True(t, entities.IsMissingInt(got[0].DaysBetween1stAnd2ndCut))
}

func TestCropNumberWritten(t *testing.T) {
	var buf bytes.Buffer
	crops := []*entities.CropCharacteristics{sampleCrop("CORN"), sampleCrop("12"), sampleCrop("WHEAT")}
	require.NoError(t, WriteCropCharacteristics(&buf, crops, WriteOptions{Now: fixedNow}))

	lines, err := readLines(&buf)
	require.NoError(t, err)
	dls := dataLines(lines)
	require.Len(t, dls, 3)
	for i, want := range []string{"1", "12", "3"} {
		assert.Equal(t, want, strings.TrimSpace(dls[i].text[:5]))
		assert.Len(t, dls[i].text, 137)
	}
}

func TestCheckCropCharacteristics(t *testing.T) {
	c := sampleCrop("CORN")
	assert.Empty(t, CheckCropCharacteristics(c))

	c.PlantingMonth = 13
	c.HarvestDay = 0
	c.InitialRootZoneDepth = 5
	c.SpringFrostFlag = 2
	problems := CheckCropCharacteristics(c)
	require.Len(t, problems, 4)
	assert.Equal(t, "Specify a month 1 to 12.", problems[0].Recommendation)
	assert.Equal(t, "Specify a day 1 to 31.", problems[1].Recommendation)
	assert.Contains(t, problems[2].Message, "exceeds maximum root zone depth")

	assert.Empty(t, CheckCropCharacteristics(entities.NewCropCharacteristics("EMPTY")))
}

func TestCropCharacteristicsListFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteListFile(&buf, CropCharacteristicsTable([]*entities.CropCharacteristics{sampleCrop("CORN")}), "|", nil))

	got, err := ReadCropCharacteristicsListFile(&buf, '|')
	require.NoError(t, err)
	require.Len(t, got, 1)
	want := sampleCrop("CORN")
	want.Row = got[0].Row
	assert.Equal(t, want.Clone(), got[0].Clone())
}
