package statecu

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statecu/entities"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

func TestParseClimateStationLine(t *testing.T) {
	in := "# stations\n3951        40.12  5280.00  DENVER              HUC01   \n"
	got, err := ParseClimateStations(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, "3951", s.ID)
	assert.Equal(t, "3951", s.Name)
	assert.Equal(t, 40.12, s.Latitude)
	assert.Equal(t, 5280.0, s.Elevation)
	assert.Equal(t, "DENVER", s.Region1)
	assert.Equal(t, "HUC01", s.Region2)
	assert.True(t, entities.IsMissingDouble(s.Zh))
	assert.True(t, entities.IsMissingDouble(s.Zm))
}

func TestParseClimateStationMalformedNumber(t *testing.T) {
	got, err := ParseClimateStations(strings.NewReader("3951         x.yz  5280.00\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, entities.IsMissingDouble(got[0].Latitude))
	assert.Equal(t, 5280.0, got[0].Elevation)
}

func TestClimateStationRoundTrip(t *testing.T) {
	fs := memfs.New()
	a := entities.NewClimateStation("0130")
	a.Name = "ALAMOSA"
	a.Latitude = 37.45
	a.Elevation = 7536
	a.Region1 = "ALAMOSA"
	a.Region2 = "HUC13"
	a.Zh = 1.5
	b := entities.NewClimateStation("3951")
	b.Latitude = 40.12

	err := WriteClimateStationFile(fs, "test.cli", []*entities.ClimateStation{a, nil, b}, WriteOptions{Now: fixedNow})
	require.NoError(t, err)

	raw, err := util.ReadFile(fs, "test.cli")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "-999")
	assert.Contains(t, string(raw), "#>EndHeader")
	assert.Contains(t, string(raw), "Record format (a12,f6.2,f9.2,a20,a8,a24,2f8.2)")

	got, err := ReadClimateStationFile(fs, "test.cli")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "0130", got[0].ID)
	assert.Equal(t, "ALAMOSA", got[0].Name)
	assert.Equal(t, 37.45, got[0].Latitude)
	assert.Equal(t, 7536.0, got[0].Elevation)
	assert.Equal(t, "HUC13", got[0].Region2)
	assert.Equal(t, 1.5, got[0].Zh)
	assert.True(t, entities.IsMissingDouble(got[0].Zm))

	assert.Equal(t, "3951", got[1].Name)
	assert.True(t, entities.IsMissingDouble(got[1].Elevation))
}

func TestReadClimateStationFileMissing(t *testing.T) {
	_, err := ReadClimateStationFile(memfs.New(), "nope.cli")
	require.Error(t, err)
}

func TestCheckClimateStationLatitude(t *testing.T) {
	s := entities.NewClimateStation("3951")
	s.Latitude = 95

	problems := CheckClimateStation(s)
	require.Len(t, problems, 1)
	assert.Equal(t, "Specify a latitude -90 to 90.", problems[0].Recommendation)
	assert.Equal(t, "3951", problems[0].ID)
	assert.Equal(t, string(ComponentClimateStations), problems[0].Component)

	s.Latitude = 45
	assert.Empty(t, CheckClimateStation(s))
	assert.Equal(t, 45.0, s.Latitude)
}

func TestCheckClimateStationRanges(t *testing.T) {
	s := entities.NewClimateStation("X")
	s.Elevation = -5
	s.Zh = 0
	s.Zm = -1
	assert.Len(t, CheckClimateStation(s), 3)
}

func TestHeaderCommentsPreserved(t *testing.T) {
	fs := memfs.New()
	stations := []*entities.ClimateStation{entities.NewClimateStation("A")}

	require.NoError(t, WriteClimateStationFile(fs, "h.cli", stations, WriteOptions{
		Program: "first-run", Comments: []string{"original comment"}, Now: fixedNow,
	}))
	require.NoError(t, WriteClimateStationFile(fs, "h.cli", stations, WriteOptions{
		Program: "second-run", Comments: []string{"new comment"}, Now: fixedNow,
	}))

	raw, err := util.ReadFile(fs, "h.cli")
	require.NoError(t, err)
	text := string(raw)
	assert.Equal(t, 1, strings.Count(text, endHeaderMarker))
	assert.Equal(t, 1, strings.Count(text, previousMarker))
	assert.Less(t, strings.Index(text, "# new comment"), strings.Index(text, previousMarker))
	assert.Less(t, strings.Index(text, previousMarker), strings.Index(text, "# original comment"))

	d, err := ReadComponentFile(fs, ComponentClimateStations, "h.cli")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"# File generated by second-run on 2024-03-01T12:00:00Z",
		"# new comment",
		"# File generated by first-run on 2024-03-01T12:00:00Z",
		"# original comment",
	}, d.Comments)
}

func TestClimateStationListFile(t *testing.T) {
	s := entities.NewClimateStation("3951")
	s.Name = "DENVER WSO"
	s.Latitude = 40.12
	s.Region1 = "DENVER, CO"

	var buf bytes.Buffer
	require.NoError(t, WriteListFile(&buf, ClimateStationTable([]*entities.ClimateStation{s}), ",", []string{"stations"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "# stations", lines[0])
	assert.Equal(t, `"ID","Name","Latitude","Elevation","Region1","Region2","TemperatureHeight","WindHeight"`, lines[1])
	assert.Equal(t, `3951,DENVER WSO,40.12,,"DENVER, CO",,,`, lines[2])

	got, err := ReadClimateStationListFile(&buf, ',')
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "DENVER WSO", got[0].Name)
	assert.Equal(t, 40.12, got[0].Latitude)
	assert.Equal(t, "DENVER, CO", got[0].Region1)
	assert.True(t, entities.IsMissingDouble(got[0].Elevation))
}

func TestReadClimateStationListFileAliases(t *testing.T) {
	in := "\uFEFFStation_ID;lat;ELEV;county\nX1;38.5;4500;MESA\n"
	got, err := ReadClimateStationListFile(strings.NewReader(in), ';')
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "X1", got[0].ID)
	assert.Equal(t, 38.5, got[0].Latitude)
	assert.Equal(t, 4500.0, got[0].Elevation)
	assert.Equal(t, "MESA", got[0].Region1)
}
