package envelope

import (
	"math"

	"go.uber.org/zap"

	"dpe-envelope/core/enums"
	"dpe-envelope/core/tables"
	"dpe-envelope/core/types"
	apperrors "dpe-envelope/internal/errors"
)

// Conventional conductivity of floor insulation, W/(m.K)
const insulationConductivity = 0.042

// Construction periods whose insulation is deemed from 1975-1977 when no
// insulation period is declared.
var substitutedPeriods = []string{"avant 1948", "1948-1974"}

const substitutePeriodLabel = "1975-1977"

// Dispatch computes U with the strategy of the given method and writes U,
// U0 and their provenance into the accumulator.
func (c *Calculator) Dispatch(in types.FloorInput, fc types.Context, method types.UMethod, res types.FloorResult) types.FloorResult {
	e := c.element(in)
	res.Intermediate.Method = method
	e.requestCode(&res, enums.UMethod, int(method))

	strategy, ok := method.Strategy()
	if !ok {
		e.emit(&res, types.Diagnostic{
			Severity: types.SeverityWarning,
			Kind:     apperrors.TypeUnknownEnumerationCode,
			Rule:     enums.UMethod,
			From:     int(method),
			Message:  apperrors.UnknownCode(enums.UMethod, int(method)).Message,
		})
		res.Intermediate.U = types.Unresolved
		return res
	}

	switch strategy {
	case types.StrategyUninsulated:
		res = e.resolveU0(res)
		res.Intermediate.U = res.Intermediate.U0

	case types.StrategyThickness:
		thickness := e.requestNumber(&res, "epaisseur_isolation", in.InsulationThickness)
		res = e.resolveU0(res)
		res.Intermediate.U = types.Unresolved
		if cm, ok := thickness.Float(); ok {
			res.Intermediate.U = e.addResistance(&res, "epaisseur_isolation", cm*0.01/insulationConductivity)
		}

	case types.StrategyResistance:
		r := e.requestNumber(&res, "resistance_isolation", in.InsulationResistance)
		res = e.resolveU0(res)
		res.Intermediate.U = types.Unresolved
		if rv, ok := r.Float(); ok {
			res.Intermediate.U = e.addResistance(&res, "resistance_isolation", rv)
		}

	case types.StrategyInsulationTable:
		period := in.InsulationPeriod
		if period == 0 {
			period = fc.ConstructionPeriod
		}
		res = e.resolveU0(res)
		var u types.Coefficient
		u, _, res = e.resolveInsulated(fc, period, tables.RowID(in.DeclaredUpbRowID), res)
		res.Intermediate.U = u.Min(res.Intermediate.U0)

	case types.StrategyConstructionPeriodTable:
		res = e.constructionPeriodTable(fc, res)

	case types.StrategyDirect:
		res.Intermediate.U = e.requestNumber(&res, "upb_saisi", in.UEntered)
	}

	return res
}

// constructionPeriodTable resolves U from the construction period, deeming
// early periods insulated in 1975-1977. When that substitution changes the
// resolved row, legacy mode resolves again with the construction period,
// as the reference engine does.
func (e *element) constructionPeriodTable(fc types.Context, res types.FloorResult) types.FloorResult {
	period := e.in.InsulationPeriod
	if period == 0 {
		period = fc.ConstructionPeriod
		label, _ := e.dict.Label(enums.ConstructionPeriod, fc.ConstructionPeriod)
		for _, p := range substitutedPeriods {
			if label != p {
				continue
			}
			if code, ok := e.dict.Code(enums.InsulationPeriod, substitutePeriodLabel); ok {
				period = code
			}
		}
	}

	res = e.resolveU0(res)
	before := tables.RowID(e.in.DeclaredUpbRowID)
	u, row, res := e.resolveInsulated(fc, period, before, res)

	if row != before && period != fc.ConstructionPeriod {
		e.emit(&res, types.Diagnostic{
			Severity: types.SeverityWarning,
			Kind:     apperrors.TypeInconsistentInputOverride,
			Rule:     "insulation_period_substitution",
			Table:    TableU,
			From:     period,
			To:       fc.ConstructionPeriod,
			Message:  "construction before 1975 implies insulation period 1975-1977, resolved row differs from the declared one",
		})
		if e.opts.LegacyCompat {
			var legacy types.Coefficient
			legacy, _, res = e.resolveInsulated(fc, fc.ConstructionPeriod, row, res)
			if legacy.IsResolved() {
				u = legacy
			}
		}
	}

	res.Intermediate.U = u.Min(res.Intermediate.U0)
	return res
}

// resolveInsulated resolves the insulated U for a period. prior is the row
// previously associated with the floor; in legacy mode its Joule-effect
// value wins over the dwelling's when they disagree. The returned row is
// prior when nothing was resolved.
func (e *element) resolveInsulated(fc types.Context, period int, prior tables.RowID, res types.FloorResult) (types.Coefficient, tables.RowID, types.FloorResult) {
	joule := fc.JouleEffect
	if e.opts.LegacyCompat && prior != 0 {
		if row, err := e.resolver.ResolveByID(TableU, prior); err == nil {
			if cell, ok := row.Field("effet_joule"); ok {
				if declared, ok := cell.Truthy(); ok && declared != joule {
					e.emit(&res, types.Diagnostic{
						Severity: types.SeverityError,
						Kind:     apperrors.TypeInconsistentInputOverride,
						Rule:     "effet_joule",
						Table:    TableU,
						From:     boolCode(joule),
						To:       boolCode(declared),
						Message:  "Joule effect of the declared row differs from the dwelling, declared value kept",
					})
					joule = declared
				}
			}
		}
	}

	row, err := e.resolver.Resolve(TableU, tables.Criteria{
		"enum_periode_construction_id": tables.Code(period),
		"enum_zone_climatique_id":      tables.Code(fc.ClimateZone),
		"effet_joule":                  tables.Bool(joule),
	})
	if err != nil {
		e.unresolved(&res, TableU, err)
		return types.Unresolved, prior, res
	}
	u, ok := row.Float("upb")
	if !ok {
		e.log.Error("reference row has no upb column", zap.Int("row", int(row.ID)))
		return types.Unresolved, prior, res
	}
	res.Intermediate.Provenance.URow = row.ID
	return types.Known(u), row.ID, res
}

// resolveU0 computes the uninsulated coefficient according to the U0 method.
// The U0 seeded from prior data is kept when the method does not compute one.
func (e *element) resolveU0(res types.FloorResult) types.FloorResult {
	method := types.U0Method(e.in.U0Method)
	e.requestCode(&res, enums.U0Method, int(method))

	strategy, ok := method.Strategy()
	if !ok {
		e.emit(&res, types.Diagnostic{
			Severity: types.SeverityWarning,
			Kind:     apperrors.TypeUnknownEnumerationCode,
			Rule:     enums.U0Method,
			From:     int(method),
			Message:  apperrors.UnknownCode(enums.U0Method, int(method)).Message,
		})
		return res
	}

	switch strategy {
	case types.U0StrategyTable:
		e.requestCode(&res, enums.FloorType, e.in.FloorType)
		row, err := e.resolver.Resolve(TableU0, tables.Criteria{
			"enum_type_plancher_bas_id": tables.Code(e.in.FloorType),
		})
		if err != nil {
			e.unresolved(&res, TableU0, err)
			return res
		}
		if u0, ok := row.Float("upb0"); ok {
			res.Intermediate.U0 = types.Known(u0)
			res.Intermediate.Provenance.U0Row = row.ID
		}
	case types.U0StrategyDirect:
		res.Intermediate.U0 = e.requestNumber(&res, "upb0_saisi", e.in.U0Entered)
	case types.U0StrategyKeep:
	}
	return res
}

// addResistance combines U0 with an added thermal resistance. A total
// resistance that is not positive yields no coefficient.
func (e *element) addResistance(res *types.FloorResult, field string, r float64) types.Coefficient {
	v, ok := res.Intermediate.U0.Float()
	if !ok {
		return types.Unresolved
	}
	u := 1 / (1/v + r)
	if math.IsNaN(u) || math.IsInf(u, 0) || u <= 0 {
		e.invalid(res, field, "insulation gives a non-positive thermal resistance")
		return types.Unresolved
	}
	return types.Known(u)
}

func boolCode(b bool) int {
	if b {
		return 1
	}
	return 0
}
