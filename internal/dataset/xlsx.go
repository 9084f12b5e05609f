package dataset

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// LoadXLSX reads the first sheet of an XLSX workbook into a Dataset. Row 0
// is the header; cells stay raw strings and empty cells become null.
func LoadXLSX(path string) (*Dataset, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("dataset: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("dataset: xlsx sheet is empty")
	}

	header := sheet.Rows[0]
	cols := make([]Column, len(header.Cells))
	for i, cell := range header.Cells {
		cols[i] = Column{Name: cell.String()}
	}

	for _, row := range sheet.Rows[1:] {
		for i := range cols {
			var v Value
			if i < len(row.Cells) {
				if s := row.Cells[i].String(); s != "" {
					v = s
				}
			}
			cols[i].Values = append(cols[i].Values, v)
		}
	}

	return New(cols)
}
