// Package tables loads reference table files into an immutable snapshot.
// Files are YAML; JSON documents are accepted as well since they parse as
// YAML.
//
// A field cell is written as a scalar (exact match), "*" (matches anything),
// a boolean (exact 1 or 0) or a range mapping:
//
//	fields:
//	  enum_zone_climatique_id: 1
//	  effet_joule: false
//	  enum_methode_application_id: "*"
//	  surface: {min: 0, max: 10, max_inclusive: true}
//
// Range bounds are inclusive at min and exclusive at max unless stated.
package tables

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"dpe-envelope/core/tables"
	apperrors "dpe-envelope/internal/errors"
	"dpe-envelope/internal/logging"
)

// Placeholder is the cell text matching any criteria value
const Placeholder = "*"

type document struct {
	Tables map[string]tableDoc `yaml:"tables"`
}

type tableDoc struct {
	Rows []rowDoc `yaml:"rows"`
}

// Cells are kept as raw nodes: yaml.v3 skips custom unmarshalers on null
// values, which must be rejected rather than read as empty text.
type rowDoc struct {
	ID      int                  `yaml:"id"`
	Fields  map[string]yaml.Node `yaml:"fields"`
	Results map[string]yaml.Node `yaml:"results"`
}

type rangeDoc struct {
	Min          *string `yaml:"min"`
	Max          *string `yaml:"max"`
	MinInclusive *bool   `yaml:"min_inclusive"`
	MaxInclusive *bool   `yaml:"max_inclusive"`
}

// decodeCell converts one field node into a cell
func decodeCell(n *yaml.Node) (tables.Cell, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch {
		case n.ShortTag() == "!!null":
			return tables.Cell{}, fmt.Errorf("line %d: empty cell, use %q for a placeholder", n.Line, Placeholder)
		case n.ShortTag() == "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return tables.Cell{}, err
			}
			v := decimal.Zero
			if b {
				v = decimal.NewFromInt(1)
			}
			return tables.ExactNumber(v), nil
		case n.Value == Placeholder:
			return tables.Any(), nil
		default:
			return tables.Exact(n.Value), nil
		}

	case yaml.MappingNode:
		var rd rangeDoc
		if err := n.Decode(&rd); err != nil {
			return tables.Cell{}, err
		}
		var r tables.Range
		var err error
		if rd.Min != nil {
			if r.Min, err = bound(*rd.Min, rd.MinInclusive, true); err != nil {
				return tables.Cell{}, fmt.Errorf("line %d: min: %w", n.Line, err)
			}
		}
		if rd.Max != nil {
			if r.Max, err = bound(*rd.Max, rd.MaxInclusive, false); err != nil {
				return tables.Cell{}, fmt.Errorf("line %d: max: %w", n.Line, err)
			}
		}
		if r.Min == nil && r.Max == nil {
			return tables.Cell{}, fmt.Errorf("line %d: range without bounds", n.Line)
		}
		return tables.InRange(r), nil

	default:
		return tables.Cell{}, fmt.Errorf("line %d: unsupported cell", n.Line)
	}
}

func bound(text string, inclusive *bool, def bool) (*tables.Bound, error) {
	v, err := decimal.NewFromString(text)
	if err != nil {
		return nil, err
	}
	b := &tables.Bound{Value: v, Inclusive: def}
	if inclusive != nil {
		b.Inclusive = *inclusive
	}
	return b, nil
}

// decodeResult reads a result column as an exact decimal
func decodeResult(n *yaml.Node) (decimal.Decimal, error) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return decimal.Zero, fmt.Errorf("line %d: result must be a number", n.Line)
	}
	v, err := decimal.NewFromString(n.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return v, nil
}

// Load reads a reference table file
func Load(path string) (*tables.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("reference table file", path)
		}
		return nil, apperrors.Wrap(apperrors.TypeInput, "failed to read reference tables", err)
	}
	snap, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	logging.Component("tables", nil).Info("reference tables loaded",
		zap.String("path", path),
		zap.String("snapshot", string(snap.ID)),
		zap.Int("tables", len(snap.Names())),
	)
	return snap, nil
}

// Parse decodes a reference table document into a snapshot
func Parse(r io.Reader) (*tables.Snapshot, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperrors.Parsing("invalid reference table document", err)
	}
	if len(doc.Tables) == 0 {
		return nil, apperrors.New(apperrors.TypeParsing, "reference table document declares no table")
	}

	b := tables.NewSnapshotBuilder()
	for name, td := range doc.Tables {
		b.AddTable(name)
		for _, rd := range td.Rows {
			row := tables.Row{
				ID:      tables.RowID(rd.ID),
				Fields:  make(map[string]tables.Cell, len(rd.Fields)),
				Results: make(map[string]decimal.Decimal, len(rd.Results)),
			}
			for field, node := range rd.Fields {
				cell, err := decodeCell(&node)
				if err != nil {
					return nil, apperrors.Parsing(
						fmt.Sprintf("table %s: field %s", name, field), err)
				}
				row.Fields[field] = cell
			}
			for column, node := range rd.Results {
				v, err := decodeResult(&node)
				if err != nil {
					return nil, apperrors.Parsing(
						fmt.Sprintf("table %s: result %s", name, column), err)
				}
				row.Results[column] = v
			}
			b.AddRow(name, row)
		}
	}

	snap, err := b.Build()
	if err != nil {
		return nil, apperrors.Parsing("invalid reference tables", err)
	}
	return snap, nil
}
