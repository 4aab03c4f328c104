package envelope

import (
	"slices"

	"dpe-envelope/core/types"
	apperrors "dpe-envelope/internal/errors"
)

// overrideRule forces the method implied by a declared field
type overrideRule struct {
	name    string
	present func(types.FloorInput) bool
	accepts []types.UMethod
	forced  types.UMethod
	message string
}

// Evaluated in order; each rule sees the method left by the previous one.
var overrideRules = []overrideRule{
	{
		name:    "insulation_thickness",
		present: func(in types.FloorInput) bool { return types.Present(in.InsulationThickness) },
		accepts: []types.UMethod{types.MethodThicknessMeasured, types.MethodThicknessDocumented},
		forced:  types.MethodThicknessMeasured,
		message: "insulation thickness is declared but the method is not a thickness method, method overridden",
	},
	{
		name:    "insulation_resistance",
		present: func(in types.FloorInput) bool { return types.Present(in.InsulationResistance) },
		accepts: []types.UMethod{types.MethodResistanceObserved, types.MethodResistanceDocumented},
		forced:  types.MethodResistanceObserved,
		message: "insulation resistance is declared but the method is not a resistance method, method overridden",
	},
	{
		name:    "direct_u",
		present: func(in types.FloorInput) bool { return types.Present(in.UEntered) },
		accepts: []types.UMethod{types.MethodDirectJustified, types.MethodDirectStudy},
		forced:  types.MethodDirectJustified,
		message: "U is entered directly but the method is not a direct entry method, method overridden",
	},
}

// Correct returns the method to dispatch on. Outside legacy mode this is the
// declared method; in legacy mode a declared field implying another method
// rewrites it. Only the method code is ever changed.
func (c *Calculator) Correct(in types.FloorInput, res types.FloorResult) (types.UMethod, types.FloorResult) {
	method := types.UMethod(in.UMethod)
	if !c.opts.LegacyCompat {
		return method, res
	}

	e := c.element(in)
	for _, rule := range overrideRules {
		if !rule.present(in) || slices.Contains(rule.accepts, method) {
			continue
		}
		e.emit(&res, types.Diagnostic{
			Severity: types.SeverityError,
			Kind:     apperrors.TypeInconsistentInputOverride,
			Rule:     rule.name,
			From:     int(method),
			To:       int(rule.forced),
			Message:  rule.message,
		})
		method = rule.forced
	}
	return method, res
}
