// Package envelope computes the thermal transmittance of low floors:
// legacy method correction, per-method dispatch, and the grouped
// earth-contact coefficient resolved across sibling floors.
package envelope

import (
	"math"

	"go.uber.org/zap"

	"dpe-envelope/core/enums"
	"dpe-envelope/core/resolver"
	"dpe-envelope/core/tables"
	"dpe-envelope/core/types"
	apperrors "dpe-envelope/internal/errors"
	"dpe-envelope/internal/logging"
)

// Reference tables used by the floor calculation
const (
	TableU0 = "upb0"
	TableU  = "upb"
	TableUe = "ue"
)

// Options controls engine behaviour
type Options struct {
	// LegacyCompat reproduces the reference engine's corrections and quirks
	LegacyCompat bool
}

// DefaultOptions matches the historical reference engine
func DefaultOptions() Options {
	return Options{LegacyCompat: true}
}

// Calculator computes floor coefficients against a reference table store
type Calculator struct {
	resolver *resolver.Resolver
	dict     enums.Dictionary
	opts     Options
	log      *zap.Logger
}

// NewCalculator creates a calculator. A nil logger uses the global one.
func NewCalculator(store tables.Store, dict enums.Dictionary, opts Options, log *zap.Logger) *Calculator {
	log = logging.Component("envelope", log)
	return &Calculator{
		resolver: resolver.New(store, log),
		dict:     dict,
		opts:     opts,
		log:      log,
	}
}

// element binds the calculator to one floor for the duration of a stage
type element struct {
	*Calculator
	in       types.FloorInput
	log      *zap.Logger
	resolver *resolver.Resolver
}

func (c *Calculator) element(in types.FloorInput) *element {
	field := zap.String("element", in.Label())
	return &element{
		Calculator: c,
		in:         in,
		log:        c.log.With(field),
		resolver:   c.resolver.With(field),
	}
}

// emit logs a diagnostic and records it on the accumulator
func (e *element) emit(res *types.FloorResult, d types.Diagnostic) {
	d.Element = e.in.Label()
	fields := []zap.Field{
		zap.String("kind", string(d.Kind)),
	}
	if d.Rule != "" {
		fields = append(fields, zap.String("rule", d.Rule))
	}
	if d.Table != "" {
		fields = append(fields, zap.String("table", d.Table))
	}
	if d.From != 0 || d.To != 0 {
		fields = append(fields, zap.Int("from", d.From), zap.Int("to", d.To))
	}
	if d.Severity == types.SeverityError {
		e.log.Error(d.Message, fields...)
	} else {
		e.log.Warn(d.Message, fields...)
	}
	res.Diagnostics = append(res.Diagnostics, d)
}

// unresolved records a failed lookup already logged by the resolver
func (e *element) unresolved(res *types.FloorResult, table string, err error) {
	res.Diagnostics = append(res.Diagnostics, types.Diagnostic{
		Severity: types.SeverityError,
		Kind:     apperrors.TypeOf(err),
		Element:  e.in.Label(),
		Table:    table,
		Message:  err.Error(),
	})
}

// requestCode records an enumeration input and returns its label
func (e *element) requestCode(res *types.FloorResult, enum string, code int) (string, bool) {
	label, ok := e.dict.Label(enum, code)
	res.User.Inputs = append(res.User.Inputs, types.UserInput{
		Field:   enum,
		Code:    code,
		Label:   label,
		Missing: !ok,
	})
	return label, ok
}

// requestNumber records a numeric input. A missing value is reported and
// leaves the coefficient unresolved.
func (e *element) requestNumber(res *types.FloorResult, field string, v *float64) types.Coefficient {
	if v == nil {
		res.User.Inputs = append(res.User.Inputs, types.UserInput{Field: field, Missing: true})
		e.emit(res, types.Diagnostic{
			Severity: types.SeverityWarning,
			Kind:     apperrors.TypeInput,
			Rule:     field,
			Message:  "required input not declared",
		})
		return types.Unresolved
	}
	val := *v
	if math.IsNaN(val) || math.IsInf(val, 0) {
		res.User.Inputs = append(res.User.Inputs, types.UserInput{Field: field})
		e.invalid(res, field, "declared input is not a finite number")
		return types.Unresolved
	}
	res.User.Inputs = append(res.User.Inputs, types.UserInput{Field: field, Number: &val})
	return types.Known(val)
}

// invalid reports an input that cannot produce a coefficient
func (e *element) invalid(res *types.FloorResult, field, message string) {
	e.emit(res, types.Diagnostic{
		Severity: types.SeverityError,
		Kind:     apperrors.TypeInput,
		Rule:     field,
		Message:  message,
	})
}
