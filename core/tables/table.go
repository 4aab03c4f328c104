package tables

import (
	"github.com/shopspring/decimal"
)

// RowID is the opaque identifier of a reference row (tv_*_id)
type RowID int

// Row is a single reference table row
type Row struct {
	ID      RowID
	Fields  map[string]Cell
	Results map[string]decimal.Decimal
}

// Field returns a criteria field cell
func (r *Row) Field(name string) (Cell, bool) {
	c, ok := r.Fields[name]
	return c, ok
}

// Result returns a result column exactly as published
func (r *Row) Result(column string) (decimal.Decimal, bool) {
	d, ok := r.Results[column]
	return d, ok
}

// Float returns a result column as float64 for arithmetic
func (r *Row) Float(column string) (float64, bool) {
	d, ok := r.Results[column]
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// Matches reports whether every criteria field matches this row.
// A criteria field the row does not declare never matches.
func (r *Row) Matches(c Criteria) bool {
	for field, v := range c {
		cell, ok := r.Fields[field]
		if !ok || !cell.Match(v) {
			return false
		}
	}
	return true
}

// Table is an ordered, read-only sequence of rows
type Table struct {
	name string
	rows []Row
	byID map[RowID]int
}

// Name returns the table name
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Find returns the first row in table order matching the criteria
func (t *Table) Find(c Criteria) (*Row, bool) {
	for i := range t.rows {
		if t.rows[i].Matches(c) {
			return &t.rows[i], true
		}
	}
	return nil, false
}

// FindAll returns every row matching the criteria, in table order
func (t *Table) FindAll(c Criteria) []*Row {
	var out []*Row
	for i := range t.rows {
		if t.rows[i].Matches(c) {
			out = append(out, &t.rows[i])
		}
	}
	return out
}

// ByID returns the row with the given identifier
func (t *Table) ByID(id RowID) (*Row, bool) {
	i, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return &t.rows[i], true
}

// Store provides read-only access to reference tables by name
type Store interface {
	// Table returns a table by name
	Table(name string) (*Table, bool)
}
