package tables

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"dpe-envelope/core/determinism"
)

// SnapshotID uniquely identifies a reference table snapshot
type SnapshotID string

// Snapshot is an immutable, content-hashed set of reference tables.
type Snapshot struct {
	ID          SnapshotID
	ContentHash determinism.ContentHash

	tables map[string]*Table
	names  []string
}

// Table implements Store
func (s *Snapshot) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// Names returns the table names in sorted order
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Verify checks content hash integrity
func (s *Snapshot) Verify() bool {
	return s.computeHash() == s.ContentHash
}

func (s *Snapshot) computeHash() determinism.ContentHash {
	h := determinism.NewHasher("reference-tables")
	for _, name := range s.names {
		t := s.tables[name]
		h.Write("table", name)
		for _, row := range t.rows {
			h.Write("row", strconv.Itoa(int(row.ID)))
			for _, k := range determinism.SortedKeys(row.Fields) {
				h.Write(k, row.Fields[k].String())
			}
			for _, k := range determinism.SortedKeys(row.Results) {
				h.Write(k, row.Results[k].String())
			}
		}
	}
	return h.Sum()
}

// SnapshotBuilder builds a reference table snapshot
type SnapshotBuilder struct {
	rows  map[string][]Row
	built bool
}

// NewSnapshotBuilder creates a new builder
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{
		rows: make(map[string][]Row),
	}
}

// AddTable declares a table, so that empty tables still exist
func (b *SnapshotBuilder) AddTable(name string) *SnapshotBuilder {
	if _, ok := b.rows[name]; !ok {
		b.rows[name] = nil
	}
	return b
}

// AddRow appends a row to a table. A zero ID is replaced by the
// 1-based position of the row in its table.
func (b *SnapshotBuilder) AddRow(table string, row Row) *SnapshotBuilder {
	if b.built {
		panic("INVARIANT VIOLATED: cannot add rows after snapshot is built")
	}
	if row.ID == 0 {
		row.ID = RowID(len(b.rows[table]) + 1)
	}
	fields := make(map[string]Cell, len(row.Fields))
	for k, v := range row.Fields {
		fields[k] = v
	}
	results := make(map[string]decimal.Decimal, len(row.Results))
	for k, v := range row.Results {
		results[k] = v
	}
	row.Fields, row.Results = fields, results
	b.rows[table] = append(b.rows[table], row)
	return b
}

// Build creates an immutable snapshot. Duplicate row identifiers within a
// table are rejected.
func (b *SnapshotBuilder) Build() (*Snapshot, error) {
	if b.built {
		panic("INVARIANT VIOLATED: snapshot already built")
	}

	snap := &Snapshot{
		tables: make(map[string]*Table, len(b.rows)),
		names:  determinism.SortedKeys(b.rows),
	}

	for _, name := range snap.names {
		rows := b.rows[name]
		index := make(map[RowID]int, len(rows))
		for i, row := range rows {
			if _, dup := index[row.ID]; dup {
				return nil, fmt.Errorf("table %s: duplicate row id %d", name, row.ID)
			}
			index[row.ID] = i
		}
		snap.tables[name] = &Table{name: name, rows: rows, byID: index}
	}

	snap.ContentHash = snap.computeHash()
	snap.ID = SnapshotID(snap.ContentHash.Hex()[:16])

	b.built = true
	return snap, nil
}
