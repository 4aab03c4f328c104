package envelope

import (
	"math"

	"dpe-envelope/core/enums"
	"dpe-envelope/core/resolver"
	"dpe-envelope/core/tables"
	"dpe-envelope/core/types"
	apperrors "dpe-envelope/internal/errors"
)

// Published 2S/P values of the ue table
var shapeRatios = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 12, 14, 16, 18, 20}

// floorClass selects the ue sub-table and its published U brackets
type floorClass struct {
	label    string
	brackets []float64
}

var (
	earthContactBefore2001 = floorClass{
		label:    "terre plein bâtiment construit avant 2001",
		brackets: []float64{0.46, 0.59, 0.85, 1.5, 3.4},
	}
	earthContactFrom2001 = floorClass{
		label:    "terre plein bâtiment construit à partir de 2001",
		brackets: []float64{0.31, 0.37, 0.46, 0.6, 0.85, 1.5, 3.4},
	}
	crawlSpaceOrBasement = floorClass{
		label:    "plancher sur vide sanitaire ou sous-sol non chauffé",
		brackets: []float64{0.31, 0.34, 0.37, 0.41, 0.45, 0.83, 1.43, 3.33},
	}
)

// First construction period built from 2001
const periodFrom2001 = 7

// classify returns the ue class of an adjacency, and false when the floor
// does not use a grouped coefficient.
func classify(adjacency string, constructionPeriod int) (floorClass, bool) {
	switch adjacency {
	case enums.AdjacencyEarthContact:
		if constructionPeriod < periodFrom2001 {
			return earthContactBefore2001, true
		}
		return earthContactFrom2001, true
	case enums.AdjacencyCrawlSpace, enums.AdjacencyUnheatedBasement:
		return crawlSpaceOrBasement, true
	default:
		return floorClass{}, false
	}
}

// groupGeometry sums the Ue surface and perimeter of every sibling sharing
// the adjacency code. Surface falls back to the opaque surface, perimeter
// to zero.
func groupGeometry(siblings []types.FloorInput, adjacency int) (surface, perimeter float64) {
	for _, s := range siblings {
		if s.AdjacencyType != adjacency {
			continue
		}
		if types.Present(s.SurfaceUe) {
			surface += *s.SurfaceUe
		} else {
			surface += s.OpaqueSurface
		}
		if types.Present(s.PerimeterUe) {
			perimeter += *s.PerimeterUe
		}
	}
	return surface, perimeter
}

// Aggregate is the second pass. For floors over earth, a crawl space or an
// unheated basement the final coefficient is interpolated from the ue table
// using the whole group's geometry; other floors keep U. The gate must be
// closed, i.e. every sibling's first pass has completed.
func (c *Calculator) Aggregate(gate *PhaseGate, in types.FloorInput, fc types.Context, res types.FloorResult) types.FloorResult {
	gate.AssertClosed()
	e := c.element(in)

	adjacency, _ := e.requestCode(&res, enums.AdjacencyType, in.AdjacencyType)
	class, grouped := classify(adjacency, fc.ConstructionPeriod)
	if !grouped {
		res.Intermediate.Final = res.Intermediate.U
		return res
	}

	res.Intermediate.Ue = types.Unresolved
	res.Intermediate.Final = types.Unresolved

	u, ok := res.Intermediate.U.Float()
	if !ok {
		e.emit(&res, types.Diagnostic{
			Severity: types.SeverityError,
			Kind:     apperrors.TypeAggregationDependencyFailure,
			Table:    TableUe,
			Message:  "floor U is unresolved, grouped coefficient cannot be interpolated",
		})
		return res
	}

	surface, perimeter := groupGeometry(fc.Siblings, in.AdjacencyType)
	if perimeter <= 0 {
		e.emit(&res, types.Diagnostic{
			Severity: types.SeverityWarning,
			Kind:     apperrors.TypeInput,
			Rule:     "perimetre_ue",
			Message:  "group perimeter is zero, smallest 2S/P value used",
		})
	}
	ratio := resolver.Nearest(shapeRatios, math.Round(2*surface/perimeter))

	low, high := resolver.Bracket(u, class.brackets)
	base := tables.Criteria{
		"type_adjacence_plancher": tables.Text(class.label),
		"2s_p":                    tables.Number(ratio),
	}
	lowRow, highRow, err := e.resolver.ResolvePair(TableUe,
		base.With("upb", tables.Number(low)),
		base.With("upb", tables.Number(high)),
	)
	if err != nil {
		e.emit(&res, types.Diagnostic{
			Severity: types.SeverityError,
			Kind:     apperrors.TypeAggregationDependencyFailure,
			Table:    TableUe,
			Message:  "ue bracket row missing: " + err.Error(),
		})
		return res
	}
	ueLow, okLow := lowRow.Float("ue")
	ueHigh, okHigh := highRow.Float("ue")
	if !okLow || !okHigh {
		e.emit(&res, types.Diagnostic{
			Severity: types.SeverityError,
			Kind:     apperrors.TypeAggregationDependencyFailure,
			Table:    TableUe,
			Message:  "ue bracket row has no ue column",
		})
		return res
	}

	ue := types.Known(resolver.Interpolate(u, low, high, ueLow, ueHigh))
	res.Intermediate.Ue = ue
	res.Intermediate.Final = ue
	res.Intermediate.Provenance.UeLowRow = lowRow.ID
	res.Intermediate.Provenance.UeHighRow = highRow.ID
	return res
}
