package types

import (
	apperrors "dpe-envelope/internal/errors"

	"dpe-envelope/core/tables"
)

// Provenance records which reference rows produced each coefficient
type Provenance struct {
	U0Row     tables.RowID `json:"tv_upb0_id,omitempty"`
	URow      tables.RowID `json:"tv_upb_id,omitempty"`
	UeLowRow  tables.RowID `json:"tv_ue_low_id,omitempty"`
	UeHighRow tables.RowID `json:"tv_ue_high_id,omitempty"`
}

// IntermediateResult holds the coefficients resolved for one floor
type IntermediateResult struct {
	// Method is the effective method after legacy correction
	Method     UMethod     `json:"methode_saisie_u"`
	U0         Coefficient `json:"upb0"`
	U          Coefficient `json:"upb"`
	Ue         Coefficient `json:"ue"`
	Final      Coefficient `json:"upb_final"`
	Provenance Provenance  `json:"provenance"`
}

// UserInput is one value requested during dispatch
type UserInput struct {
	Field  string   `json:"field"`
	Code   int      `json:"code,omitempty"`
	Label  string   `json:"label,omitempty"`
	Number *float64 `json:"number,omitempty"`

	// Missing is set when the value was requested but not declared
	Missing bool `json:"missing,omitempty"`
}

// UserInputRecord lists the values used in computation, in request order
type UserInputRecord struct {
	Inputs []UserInput `json:"inputs"`
}

// Get returns the last recorded value for a field
func (r UserInputRecord) Get(field string) (UserInput, bool) {
	for i := len(r.Inputs) - 1; i >= 0; i-- {
		if r.Inputs[i].Field == field {
			return r.Inputs[i], true
		}
	}
	return UserInput{}, false
}

// Severity of a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a structured event raised while computing one element
type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Kind     apperrors.Type `json:"kind"`
	Element  string         `json:"element"`
	Rule     string         `json:"rule,omitempty"`
	Table    string         `json:"table,omitempty"`
	From     int            `json:"from,omitempty"`
	To       int            `json:"to,omitempty"`
	Message  string         `json:"message"`
}

// FloorResult is the accumulator owned by one floor's computation.
// Each stage receives it by value and returns the updated copy.
type FloorResult struct {
	Element      string             `json:"id"`
	Description  string             `json:"description,omitempty"`
	Intermediate IntermediateResult `json:"donnee_intermediaire"`
	User         UserInputRecord    `json:"donnee_utilisateur"`
	Diagnostics  []Diagnostic       `json:"diagnostics,omitempty"`
}

// NewFloorResult starts a fresh accumulator for a floor
func NewFloorResult(in FloorInput) FloorResult {
	res := FloorResult{
		Element:     in.ID,
		Description: in.Description,
	}
	if in.PriorU0 != nil {
		res.Intermediate.U0 = Known(*in.PriorU0)
	}
	return res
}

// Diagnosed returns the diagnostics of a given kind
func (r FloorResult) Diagnosed(kind apperrors.Type) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
