package statecu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"statecu/entities"
)

func TestLayoutRecordFormat(t *testing.T) {
	assert.Equal(t, "(a12,f6.2,f9.2,a20,a8,a24,2f8.2)", climateStationLayout.RecordFormat())
	assert.Equal(t, 95, climateStationLayout.Length())
	assert.Equal(t, 137, cropCharacteristicsLayout.Length())
	assert.Equal(t, 95, cropCharacteristicsV10Layout.Length())
}

func TestLayoutRuler(t *testing.T) {
	l := Layout{{Name: "ID", Width: 4}, {Name: "X", Width: 1}, {Name: "Val", Width: 6, Kind: KindDouble}}
	titles, marks := l.Ruler()
	assert.Equal(t, "ID  XVal", titles)
	assert.Equal(t, "b--exb----e", marks)
}

func TestLayoutSplitShortLine(t *testing.T) {
	f := Layout{{Width: 3}, {Width: 3}, {Width: 3}}.Split("ab  c")
	assert.Equal(t, []string{"ab", "c", ""}, f)
}

func TestLayoutFormat(t *testing.T) {
	l := Layout{
		{Width: 4, Kind: KindString},
		{Width: 4, Kind: KindInt},
		{Width: 7, Kind: KindDouble, Prec: 2},
	}
	assert.Equal(t, "ABCD  12   1.50", l.Format(false, "ABCDEF", 12, 1.5))
	assert.Equal(t, "A              ", l.Format(false, "A", entities.MissingInt, entities.MissingDouble))
}

func TestFixedDoubleAutoAdjust(t *testing.T) {
	assert.Equal(t, "12345.68", fixedDouble(12345.678, 6, 2, false))
	assert.Equal(t, " 12346", fixedDouble(12345.678, 6, 2, true))
	assert.Equal(t, "  1.50", fixedDouble(1.5, 6, 2, true))
	assert.Equal(t, "      ", fixedDouble(entities.MissingDouble, 6, 2, true))
}

func TestParseNumbersPermissive(t *testing.T) {
	tests := []struct {
		in      string
		wantInt int
		wantDbl float64
	}{
		{"12", 12, 12},
		{" 5.0 ", 5, 5},
		{"", entities.MissingInt, entities.MissingDouble},
		{"abc", entities.MissingInt, entities.MissingDouble},
		{"1.5", entities.MissingInt, 1.5},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.wantInt, parseInt(tc.in))
			assert.Equal(t, tc.wantDbl, parseDouble(tc.in))
		})
	}
}

func TestCropNumber(t *testing.T) {
	assert.Equal(t, "7", cropNumber("7", 3, VariantCurrent))
	assert.Equal(t, "3", cropNumber("CORN", 3, VariantCurrent))
	assert.Equal(t, "-999", cropNumber("7", 3, VariantV10))
}

func TestProps(t *testing.T) {
	assert.Equal(t, DefaultPrecision, Props{}.Precision())
	assert.Equal(t, DefaultPrecision, Props(nil).Precision())

	p := Props{"precision": "5", "VERSION": "10", "autoadjust": "true"}
	assert.Equal(t, 5, p.Precision())
	assert.True(t, p.Version10())
	assert.True(t, p.AutoAdjust())

	assert.Equal(t, 8, Props{PropPrecision: "12"}.Precision())
	assert.Equal(t, 0, Props{PropPrecision: "-1"}.Precision())
	assert.Equal(t, DefaultPrecision, Props{PropPrecision: "x"}.Precision())

	p.Set("Version", "free")
	assert.Equal(t, VariantFree, p.Variant())
	assert.Len(t, p, 3)

	assert.Equal(t, "def", Props{}.Title("def"))
	assert.Equal(t, "My crops", Props{PropTitle: "My crops"}.Title("def"))
}
