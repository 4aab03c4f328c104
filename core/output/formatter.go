// Package output provides output formatting of dwelling results.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"dpe-envelope/core/engine"
	"dpe-envelope/core/types"
	apperrors "dpe-envelope/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable summary box
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given dwellings
	Render(w io.Writer, results []*engine.Result) error
}

// New returns the formatter of a format. Coefficients are rounded half away
// from zero to precision decimal places.
func New(format Format, precision int32) (Formatter, error) {
	switch format {
	case FormatJSON:
		return jsonFormatter{precision: precision}, nil
	case FormatCLI:
		return cliFormatter{precision: precision}, nil
	default:
		return nil, apperrors.Newf(apperrors.TypeConfig, "unknown output format: %s", format)
	}
}

// number is a rounded decimal encoded as a bare JSON number. A value that
// is not finite has no decimal form and is encoded as null.
type number struct {
	decimal.Decimal
	finite bool
}

// MarshalJSON implements json.Marshaler
func (n number) MarshalJSON() ([]byte, error) {
	if !n.finite {
		return []byte("null"), nil
	}
	return []byte(n.Decimal.String()), nil
}

// String returns the rounded value, or "invalid" when it is not finite
func (n number) String() string {
	if !n.finite {
		return "invalid"
	}
	return n.Decimal.String()
}

func round(v float64, precision int32) number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return number{}
	}
	return number{Decimal: decimal.NewFromFloat(v).Round(precision), finite: true}
}

// roundCoefficient returns nil for an unresolved or non-finite coefficient
func roundCoefficient(c types.Coefficient, precision int32) *number {
	v, ok := c.Float()
	if !ok {
		return nil
	}
	n := round(v, precision)
	if !n.finite {
		return nil
	}
	return &n
}

type floorView struct {
	ID          string                `json:"id"`
	Description string                `json:"description,omitempty"`
	Method      types.UMethod         `json:"methode_saisie_u"`
	U0          *number               `json:"upb0"`
	U           *number               `json:"upb"`
	Ue          *number               `json:"ue,omitempty"`
	Final       *number               `json:"upb_final"`
	Provenance  types.Provenance      `json:"provenance"`
	User        types.UserInputRecord `json:"donnee_utilisateur"`
	Diagnostics []types.Diagnostic    `json:"diagnostics,omitempty"`
}

type needsView struct {
	Nadeq                number             `json:"nadeq"`
	V40                  number             `json:"v40_ecs_journalier"`
	V40HighUsage         number             `json:"v40_ecs_journalier_depensier"`
	SouthEquivalentArea  number             `json:"surface_sud_equivalente"`
	HotWaterNeed         number             `json:"besoin_ecs"`
	HotWaterNeedHigh     number             `json:"besoin_ecs_depensier"`
	InternalGainsHeating number             `json:"apport_interne_ch"`
	InternalGainsCooling number             `json:"apport_interne_fr"`
	SolarGainsHeating    number             `json:"apport_solaire_ch"`
	SolarGainsCooling    number             `json:"apport_solaire_fr"`
	CoolingNeed          number             `json:"besoin_fr"`
	CoolingNeedHigh      number             `json:"besoin_fr_depensier"`
	Diagnostics          []types.Diagnostic `json:"diagnostics,omitempty"`
}

type dwellingView struct {
	ID         string                   `json:"id"`
	Snapshot   engine.SnapshotReference `json:"snapshot"`
	InputHash  string                   `json:"input_hash"`
	Floors     []floorView              `json:"plancher_bas"`
	Needs      *needsView               `json:"apport_et_besoin,omitempty"`
	Unresolved []string                 `json:"unresolved,omitempty"`
}

func view(r *engine.Result, precision int32) dwellingView {
	v := dwellingView{
		ID:         r.Dwelling,
		Snapshot:   r.Snapshot,
		InputHash:  r.InputHash,
		Floors:     make([]floorView, 0, len(r.Floors)),
		Unresolved: r.Unresolved,
	}
	for _, f := range r.Floors {
		v.Floors = append(v.Floors, floorView{
			ID:          f.Element,
			Description: f.Description,
			Method:      f.Intermediate.Method,
			U0:          roundCoefficient(f.Intermediate.U0, precision),
			U:           roundCoefficient(f.Intermediate.U, precision),
			Ue:          roundCoefficient(f.Intermediate.Ue, precision),
			Final:       roundCoefficient(f.Intermediate.Final, precision),
			Provenance:  f.Intermediate.Provenance,
			User:        f.User,
			Diagnostics: f.Diagnostics,
		})
	}
	if n := r.Needs; n != nil {
		v.Needs = &needsView{
			Nadeq:                round(n.Nadeq, precision),
			V40:                  round(n.V40, precision),
			V40HighUsage:         round(n.V40HighUsage, precision),
			SouthEquivalentArea:  round(n.SouthEquivalentArea, precision),
			HotWaterNeed:         round(n.HotWaterNeed, precision),
			HotWaterNeedHigh:     round(n.HotWaterNeedHigh, precision),
			InternalGainsHeating: round(n.InternalGainsHeating, precision),
			InternalGainsCooling: round(n.InternalGainsCooling, precision),
			SolarGainsHeating:    round(n.SolarGainsHeating, precision),
			SolarGainsCooling:    round(n.SolarGainsCooling, precision),
			CoolingNeed:          round(n.CoolingNeed, precision),
			CoolingNeedHigh:      round(n.CoolingNeedHigh, precision),
			Diagnostics:          n.Diagnostics,
		}
	}
	return v
}

type jsonFormatter struct {
	precision int32
}

func (jsonFormatter) Format() Format { return FormatJSON }

// Render writes one JSON document: an object for a single dwelling, an
// array otherwise.
func (f jsonFormatter) Render(w io.Writer, results []*engine.Result) error {
	views := make([]dwellingView, 0, len(results))
	for _, r := range results {
		views = append(views, view(r, f.precision))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(views) == 1 {
		return enc.Encode(views[0])
	}
	return enc.Encode(views)
}

type cliFormatter struct {
	precision int32
}

func (cliFormatter) Format() Format { return FormatCLI }

const boxWidth = 73

func (f cliFormatter) Render(w io.Writer, results []*engine.Result) error {
	var b strings.Builder
	for _, r := range results {
		line := strings.Repeat("─", boxWidth)
		fmt.Fprintf(&b, "┌%s┐\n", line)
		fmt.Fprintf(&b, "│ %-71s │\n", truncate("DWELLING "+r.Dwelling, 71))
		fmt.Fprintf(&b, "├%s┤\n", line)

		for _, fl := range r.Floors {
			fmt.Fprintf(&b, "│ %-50s %20s │\n", truncate(fl.Element, 50), f.coefficient(fl.Intermediate.Final))
			fmt.Fprintf(&b, "│   └─ %-46s %20s │\n", "U", f.coefficient(fl.Intermediate.U))
			if fl.Intermediate.Ue.IsResolved() {
				fmt.Fprintf(&b, "│   └─ %-46s %20s │\n", "Ue", f.coefficient(fl.Intermediate.Ue))
			}
		}

		if n := r.Needs; n != nil {
			fmt.Fprintf(&b, "├%s┤\n", line)
			for _, row := range []struct {
				label string
				value float64
			}{
				{"V40 ECS JOURNALIER", n.V40},
				{"BESOIN ECS", n.HotWaterNeed},
				{"BESOIN FROID", n.CoolingNeed},
				{"APPORTS INTERNES (CHAUFFAGE)", n.InternalGainsHeating},
				{"APPORTS SOLAIRES (CHAUFFAGE)", n.SolarGainsHeating},
			} {
				fmt.Fprintf(&b, "│ %-50s %20s │\n", row.label, round(row.value, f.precision).String())
			}
		}
		fmt.Fprintf(&b, "└%s┘\n", line)

		if len(r.Unresolved) > 0 {
			fmt.Fprintf(&b, "Unresolved floors: %s\n", strings.Join(r.Unresolved, ", "))
		}
		fmt.Fprintf(&b, "Reference tables: %s\n\n", r.Snapshot.ID)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (f cliFormatter) coefficient(c types.Coefficient) string {
	n := roundCoefficient(c, f.precision)
	if n == nil {
		return "unresolved"
	}
	return n.String()
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
