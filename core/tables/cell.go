// Package tables provides the regulatory reference table store.
// Rows are immutable once a snapshot is built; matching is purely typed,
// no field is ever matched through a string pattern.
package tables

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"dpe-envelope/core/determinism"
)

// CellKind identifies how a row field matches a criteria value
type CellKind int

const (
	CellExact CellKind = iota // Equal text or equal number
	CellRange                 // Numeric value within bounds
	CellAny                   // Placeholder, matches everything
)

// String returns the kind name
func (k CellKind) String() string {
	switch k {
	case CellExact:
		return "exact"
	case CellRange:
		return "range"
	case CellAny:
		return "any"
	default:
		return "unknown"
	}
}

// Bound is one end of a range
type Bound struct {
	Value     decimal.Decimal
	Inclusive bool
}

// Range is a numeric interval. A nil bound is unbounded on that side.
type Range struct {
	Min *Bound
	Max *Bound
}

// Contains reports whether v lies inside the range
func (r Range) Contains(v decimal.Decimal) bool {
	if r.Min != nil {
		c := v.Cmp(r.Min.Value)
		if c < 0 || (c == 0 && !r.Min.Inclusive) {
			return false
		}
	}
	if r.Max != nil {
		c := v.Cmp(r.Max.Value)
		if c > 0 || (c == 0 && !r.Max.Inclusive) {
			return false
		}
	}
	return true
}

// String renders the range in interval notation
func (r Range) String() string {
	var b strings.Builder
	if r.Min != nil && r.Min.Inclusive {
		b.WriteString("[")
	} else {
		b.WriteString("(")
	}
	if r.Min != nil {
		b.WriteString(r.Min.Value.String())
	} else {
		b.WriteString("-inf")
	}
	b.WriteString(",")
	if r.Max != nil {
		b.WriteString(r.Max.Value.String())
	} else {
		b.WriteString("+inf")
	}
	if r.Max != nil && r.Max.Inclusive {
		b.WriteString("]")
	} else {
		b.WriteString(")")
	}
	return b.String()
}

// Cell is a matchable row field value
type Cell struct {
	kind    CellKind
	text    string
	number  decimal.Decimal
	numeric bool
	rng     Range
}

// Exact creates an exact cell. Numeric text compares numerically.
func Exact(text string) Cell {
	c := Cell{kind: CellExact, text: text}
	if d, err := decimal.NewFromString(text); err == nil {
		c.number = d
		c.numeric = true
	}
	return c
}

// ExactNumber creates an exact numeric cell
func ExactNumber(d decimal.Decimal) Cell {
	return Cell{kind: CellExact, text: d.String(), number: d, numeric: true}
}

// InRange creates a bucket cell
func InRange(r Range) Cell {
	return Cell{kind: CellRange, rng: r}
}

// Any creates a placeholder cell
func Any() Cell {
	return Cell{kind: CellAny}
}

// Kind returns the cell kind
func (c Cell) Kind() CellKind {
	return c.kind
}

// Range returns the cell bounds for range cells
func (c Cell) Range() (Range, bool) {
	return c.rng, c.kind == CellRange
}

// Truthy interprets an exact cell as a boolean flag (1/0, true/false)
func (c Cell) Truthy() (bool, bool) {
	if c.kind != CellExact {
		return false, false
	}
	if c.numeric {
		return !c.number.IsZero(), true
	}
	switch strings.ToLower(c.text) {
	case "true", "oui", "yes":
		return true, true
	case "false", "non", "no":
		return false, true
	}
	return false, false
}

// Match reports whether the criteria value satisfies this cell
func (c Cell) Match(v Value) bool {
	switch c.kind {
	case CellAny:
		return true
	case CellRange:
		return v.numeric && c.rng.Contains(v.number)
	default:
		if c.numeric && v.numeric {
			return c.number.Equal(v.number)
		}
		return c.text == v.String()
	}
}

// String returns a canonical representation used for hashing and logs
func (c Cell) String() string {
	switch c.kind {
	case CellAny:
		return "*"
	case CellRange:
		return c.rng.String()
	default:
		if c.numeric {
			return c.number.String()
		}
		return c.text
	}
}

// Value is a criteria value: a code, a label, a number or a flag
type Value struct {
	text    string
	number  decimal.Decimal
	numeric bool
}

// Code creates a value from an enumeration code
func Code(code int) Value {
	return Value{number: decimal.NewFromInt(int64(code)), numeric: true}
}

// Text creates a value from a label
func Text(s string) Value {
	return Value{text: s}
}

// Number creates a numeric bucket target. The shortest decimal
// representation of f is used, so Number(0.46) equals a "0.46" cell.
// Non-finite numbers never match a numeric cell.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{text: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return Value{number: decimal.NewFromFloat(f), numeric: true}
}

// Bool creates a flag value, matched as 1 or 0
func Bool(b bool) Value {
	if b {
		return Code(1)
	}
	return Code(0)
}

// String returns the value text
func (v Value) String() string {
	if v.numeric {
		return v.number.String()
	}
	return v.text
}

// Criteria maps field names to the values a row must match
type Criteria map[string]Value

// With returns a copy of the criteria with one field set
func (c Criteria) With(field string, v Value) Criteria {
	out := make(Criteria, len(c)+1)
	for k, val := range c {
		out[k] = val
	}
	out[field] = v
	return out
}

// String renders criteria deterministically
func (c Criteria) String() string {
	parts := make([]string, 0, len(c))
	for _, k := range determinism.SortedKeys(c) {
		parts = append(parts, k+"="+c[k].String())
	}
	return strings.Join(parts, ",")
}
