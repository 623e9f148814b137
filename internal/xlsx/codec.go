// Package xlsx converts between uploaded Excel workbooks and the
// in-memory tables of the pricing core. It is the only package that
// touches the spreadsheet library; the core sees tables and rows.
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/core"
	"github.com/xuri/excelize/v2"
)

// InputSheet is the worksheet read from uploaded files when present.
// Older rating sheets always name it "Input"; files without it fall
// back to their first sheet.
const InputSheet = "Input"

// OutputSheet is the worksheet name of generated workbooks.
const OutputSheet = "Output"

// Codec implements core.WorkbookCodec for .xlsx files.
type Codec struct{}

// NewCodec returns a Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Decode reads the first (or "Input") worksheet into a Table. The first
// row becomes the header; remaining rows are data. excelize drops
// trailing empty cells, so rows are padded back to the header width.
func (c *Codec) Decode(r io.Reader) (*core.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("not a valid xlsx workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(pickSheet(f))
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty worksheet")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		data = append(data, row)
	}

	return &core.Table{Columns: header, Rows: data}, nil
}

// pickSheet prefers the "Input" sheet, falling back to the first one.
func pickSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	for _, s := range sheets {
		if strings.EqualFold(s, InputSheet) {
			return s
		}
	}
	return sheets[0]
}

// Encode serializes normalized rows to a single-sheet workbook. Divider
// rows come through with blank age and premium cells because their nil
// values are written as empty.
func (c *Codec) Encode(rows []core.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OutputSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(core.OutputColumns))
	for i, col := range core.OutputColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(OutputSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row address: %w", err)
		}
		values := rowValues(row)
		if err := f.SetSheetRow(OutputSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// rowValues lays a Row out in the fixed output column order.
func rowValues(r core.Row) []interface{} {
	return []interface{}{
		r.PlanCode,
		r.RateZone,
		intCell(r.AgeFrom),
		intCell(r.AgeTo),
		r.InvoiceComponent,
		intCell(r.Annual),
		intCell(r.Renewal),
		intCell(r.Transfer),
		r.OptionName,
		r.DateFrom,
		r.DateTo,
	}
}

// intCell converts a nullable int to a cell value; nil stays blank.
func intCell(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
