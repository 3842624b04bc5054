package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"statecu/pkg/statecu"
)

// text columns are never converted to numbers, so "0130" stays "0130".
var textColumns = map[string]bool{
	"ID": true, "Name": true, "CurveType": true, "DelayTableID": true,
	"Region1": true, "Region2": true,
}

// WriteWorkbook writes one sheet per table, header row in bold.
func WriteWorkbook(w io.Writer, tables []statecu.Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("export: no tables")
	}
	x := excelize.NewFile()
	defer x.Close()

	bold, err := x.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	first := ""
	for i, t := range tables {
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			first = name
			if err := x.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := x.NewSheet(name); err != nil {
			return err
		}
		if err := writeSheet(x, name, t, bold); err != nil {
			return fmt.Errorf("export: sheet %s: %w", name, err)
		}
	}
	idx, err := x.GetSheetIndex(first)
	if err != nil {
		return err
	}
	x.SetActiveSheet(idx)
	_, err = x.WriteTo(w)
	return err
}

func writeSheet(x *excelize.File, sheet string, t statecu.Table, style int) error {
	head := make([]any, len(t.Header))
	for i, h := range t.Header {
		head[i] = h
	}
	if err := x.SetSheetRow(sheet, "A1", &head); err != nil {
		return err
	}
	if len(t.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err != nil {
			return err
		}
		if err := x.SetCellStyle(sheet, "A1", last, style); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = cellValue(t.Header, c, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

func cellValue(header []string, col int, v string) any {
	if v == "" || (col < len(header) && textColumns[header[col]]) {
		return v
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
