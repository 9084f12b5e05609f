package dataset

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// LoadCSV reads a headered CSV file into a Dataset. Cells stay raw strings;
// empty cells become null.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open csv")
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads headered CSV content into a Dataset.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv header")
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name}
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read csv record")
		}
		for i := range cols {
			var v Value
			if i < len(record) && record[i] != "" {
				v = record[i]
			}
			cols[i].Values = append(cols[i].Values, v)
		}
	}

	return New(cols)
}

// WriteCSV writes the dataset as headered CSV. Null cells render empty.
func WriteCSV(ds *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "dataset: create csv")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	cols := ds.Columns()

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Name
	}
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "dataset: write csv header")
	}

	record := make([]string, len(cols))
	for row := 0; row < ds.Rows(); row++ {
		for i, c := range cols {
			record[i] = AsString(c.Values[row])
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "dataset: write csv record")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "dataset: flush csv")
}
