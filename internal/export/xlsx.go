package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/rendetalje/lead-cli/internal/model"
)

// SheetName is the worksheet leads are written to.
const SheetName = "Leads"

// WriteXLSX writes leads to a single-sheet workbook with a bold header row.
func WriteXLSX(path string, leads []model.CanonicalLead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	bold := xlsx.NewStyle()
	bold.Font.Bold = true
	bold.ApplyFont = true
	for _, c := range Columns {
		cell := header.AddCell()
		cell.SetString(c)
		cell.SetStyle(bold)
	}

	for _, l := range leads {
		row := sheet.AddRow()
		for i, v := range Row(l) {
			cell := row.AddCell()
			if i == priceColumn && l.Fields.Price != nil {
				cell.SetFloat(*l.Fields.Price)
				continue
			}
			cell.SetString(v)
		}
	}

	return eris.Wrap(f.Save(path), "xlsx: save")
}

var priceColumn = indexOf(Columns, "Pris")

// ReadXLSX reads the first sheet of a workbook as string rows.
func ReadXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
