package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/tars-systems/leadscout/internal/model"
)

// WriteXLSX writes leads to w as a single-sheet XLSX workbook.
func WriteXLSX(w io.Writer, leads []model.Candidate) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns {
		header.AddCell().SetString(col)
	}

	for _, lead := range leads {
		row := sheet.AddRow()
		for _, val := range Row(lead) {
			row.AddCell().SetString(val)
		}
	}

	return eris.Wrap(file.Write(w), "export: write xlsx")
}
