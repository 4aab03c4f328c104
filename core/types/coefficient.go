// Package types - Envelope calculation types
package types

import (
	"encoding/json"
	"strconv"
)

// Coefficient is a thermal coefficient that is either resolved or
// explicitly missing. A missing coefficient is never coerced to zero.
type Coefficient struct {
	value    float64
	resolved bool
}

// Known creates a resolved coefficient
func Known(v float64) Coefficient {
	return Coefficient{value: v, resolved: true}
}

// Unresolved is the missing coefficient
var Unresolved = Coefficient{}

// Float returns the value and whether it is resolved
func (c Coefficient) Float() (float64, bool) {
	return c.value, c.resolved
}

// IsResolved reports whether the coefficient has a value
func (c Coefficient) IsResolved() bool {
	return c.resolved
}

// Min returns the smaller of two coefficients, unresolved if either is
func (c Coefficient) Min(other Coefficient) Coefficient {
	if !c.resolved || !other.resolved {
		return Unresolved
	}
	if other.value < c.value {
		return other
	}
	return c
}

// String returns the value or "unresolved"
func (c Coefficient) String() string {
	if !c.resolved {
		return "unresolved"
	}
	return strconv.FormatFloat(c.value, 'g', -1, 64)
}

// MarshalJSON encodes a missing coefficient as null
func (c Coefficient) MarshalJSON() ([]byte, error) {
	if !c.resolved {
		return []byte("null"), nil
	}
	return json.Marshal(c.value)
}
