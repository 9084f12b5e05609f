package dataset

import (
	"github.com/rotisserie/eris"
)

// Value is a single nullable cell. Concrete types are nil (null), int64,
// float64, bool, string and time.Time. Loaders may leave cells as raw
// strings; coercion happens at the point of use.
type Value any

// Column is a named, ordered sequence of values.
type Column struct {
	Name   string
	Values []Value
}

// Dataset is an ordered collection of named columns. Column order is
// preserved from the source; lookups go through an index.
type Dataset struct {
	columns []Column
	index   map[string]int
}

// New builds a Dataset from ordered columns. Duplicate column names are
// rejected.
func New(columns []Column) (*Dataset, error) {
	ds := &Dataset{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, ok := ds.index[c.Name]; ok {
			return nil, eris.Errorf("dataset: duplicate column %q", c.Name)
		}
		ds.index[c.Name] = i
	}
	return ds, nil
}

// Columns returns the columns in source order. The slice is shared; callers
// must not mutate it.
func (d *Dataset) Columns() []Column {
	return d.columns
}

// Column returns the values of the named column.
func (d *Dataset) Column(name string) ([]Value, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i].Values, true
}

// Has reports whether the named column exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// SetColumn replaces the values of an existing column. The replacement must
// keep the row count.
func (d *Dataset) SetColumn(name string, values []Value) error {
	i, ok := d.index[name]
	if !ok {
		return eris.Errorf("dataset: unknown column %q", name)
	}
	if len(values) != len(d.columns[i].Values) {
		return eris.Errorf("dataset: column %q length %d does not match %d rows",
			name, len(values), len(d.columns[i].Values))
	}
	d.columns[i].Values = values
	return nil
}

// Rows returns the row count, taken from the first column.
func (d *Dataset) Rows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Values)
}

// Clone returns a deep copy. Cell values themselves are immutable types and
// are shared.
func (d *Dataset) Clone() *Dataset {
	cols := make([]Column, len(d.columns))
	for i, c := range d.columns {
		vals := make([]Value, len(c.Values))
		copy(vals, c.Values)
		cols[i] = Column{Name: c.Name, Values: vals}
	}
	clone, _ := New(cols)
	return clone
}

// CloneValues copies a single column's values.
func CloneValues(values []Value) []Value {
	out := make([]Value, len(values))
	copy(out, values)
	return out
}
