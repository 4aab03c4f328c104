// Package resolver matches criteria against reference tables and derives
// coefficients by snapping, bracketing and linear interpolation.
package resolver

import (
	"math"

	"go.uber.org/zap"

	"dpe-envelope/core/tables"
	apperrors "dpe-envelope/internal/errors"
	"dpe-envelope/internal/logging"
)

// Resolver resolves rows from a reference table store
type Resolver struct {
	store tables.Store
	log   *zap.Logger
}

// New creates a resolver. A nil logger uses the global one.
func New(store tables.Store, log *zap.Logger) *Resolver {
	return &Resolver{
		store: store,
		log:   logging.Component("resolver", log),
	}
}

// With returns a resolver whose diagnostics carry extra fields
func (r *Resolver) With(fields ...zap.Field) *Resolver {
	return &Resolver{store: r.store, log: r.log.With(fields...)}
}

// Resolve returns the first row of the table matching the criteria.
// A missing row is logged and reported as an unresolved coefficient.
func (r *Resolver) Resolve(table string, c tables.Criteria) (*tables.Row, error) {
	t, ok := r.store.Table(table)
	if !ok {
		r.log.Error("reference table not found", zap.String("table", table))
		return nil, apperrors.NotFound("reference table", table)
	}
	row, ok := t.Find(c)
	if !ok {
		r.log.Error("no reference value found",
			zap.String("kind", string(apperrors.TypeUnresolvedCoefficient)),
			zap.String("table", table),
			zap.String("criteria", c.String()),
		)
		return nil, apperrors.Unresolved(table).WithContext("criteria", c.String())
	}
	return row, nil
}

// ResolveByID returns a row by its identifier
func (r *Resolver) ResolveByID(table string, id tables.RowID) (*tables.Row, error) {
	t, ok := r.store.Table(table)
	if !ok {
		return nil, apperrors.NotFound("reference table", table)
	}
	row, ok := t.ByID(id)
	if !ok {
		return nil, apperrors.Unresolved(table).WithContext("row_id", int(id))
	}
	return row, nil
}

// ResolvePair resolves the two bracket rows used for interpolation
func (r *Resolver) ResolvePair(table string, low, high tables.Criteria) (*tables.Row, *tables.Row, error) {
	lowRow, err := r.Resolve(table, low)
	if err != nil {
		return nil, nil, err
	}
	highRow, err := r.Resolve(table, high)
	if err != nil {
		return nil, nil, err
	}
	return lowRow, highRow, nil
}

// Nearest snaps target to the closest published value. On a tie the value
// listed first wins; a non-finite target keeps the first value.
func Nearest(published []float64, target float64) float64 {
	if len(published) == 0 {
		return target
	}
	best := published[0]
	for _, v := range published[1:] {
		if math.Abs(v-target) < math.Abs(best-target) {
			best = v
		}
	}
	return best
}

// Bracket returns the published values bounding value, in ascending
// published order. An exact hit returns it as both bounds; a value outside
// the published span is clamped to the nearest edge.
func Bracket(value float64, published []float64) (low, high float64) {
	n := len(published)
	if n == 0 {
		return value, value
	}
	if !(value > published[0]) {
		return published[0], published[0]
	}
	if value >= published[n-1] {
		return published[n-1], published[n-1]
	}
	for i := 0; i < n-1; i++ {
		switch {
		case value == published[i]:
			return published[i], published[i]
		case value < published[i+1]:
			return published[i], published[i+1]
		}
	}
	return published[n-1], published[n-1]
}

// Interpolate maps actual from [lowX, highX] onto [lowY, highY]. A
// degenerate bracket or equal coefficients return lowY without dividing.
func Interpolate(actual, lowX, highX, lowY, highY float64) float64 {
	if highX == lowX || highY == lowY {
		return lowY
	}
	return lowY + (highY-lowY)*(actual-lowX)/(highX-lowX)
}
