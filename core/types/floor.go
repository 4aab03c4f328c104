package types

// FloorInput is the declared data of one low floor (plancher bas).
// It is read-only for the calculation.
type FloorInput struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`

	AdjacencyType    int `json:"enum_type_adjacence_id" yaml:"enum_type_adjacence_id"`
	FloorType        int `json:"enum_type_plancher_bas_id" yaml:"enum_type_plancher_bas_id"`
	UMethod          int `json:"enum_methode_saisie_u_id" yaml:"enum_methode_saisie_u_id"`
	U0Method         int `json:"enum_methode_saisie_u0_id" yaml:"enum_methode_saisie_u0_id"`
	InsulationPeriod int `json:"enum_periode_isolation_id,omitempty" yaml:"enum_periode_isolation_id,omitempty"`

	// InsulationThickness is in centimetres
	InsulationThickness  *float64 `json:"epaisseur_isolation,omitempty" yaml:"epaisseur_isolation,omitempty"`
	InsulationResistance *float64 `json:"resistance_isolation,omitempty" yaml:"resistance_isolation,omitempty"`
	UEntered             *float64 `json:"upb_saisi,omitempty" yaml:"upb_saisi,omitempty"`
	U0Entered            *float64 `json:"upb0_saisi,omitempty" yaml:"upb0_saisi,omitempty"`

	SurfaceUe     *float64 `json:"surface_ue,omitempty" yaml:"surface_ue,omitempty"`
	OpaqueSurface float64  `json:"surface_paroi_opaque" yaml:"surface_paroi_opaque"`
	PerimeterUe   *float64 `json:"perimetre_ue,omitempty" yaml:"perimetre_ue,omitempty"`

	// DeclaredUpbRowID is the insulated-U row referenced by the source document
	DeclaredUpbRowID int `json:"tv_upb_id,omitempty" yaml:"tv_upb_id,omitempty"`

	// PriorU0 is the U0 carried by the source document's intermediate data
	PriorU0 *float64 `json:"upb0,omitempty" yaml:"upb0,omitempty"`
}

// Present reports whether an optional numeric field is declared and non-zero
func Present(v *float64) bool {
	return v != nil && *v != 0
}

// Label returns the description, falling back to the identifier
func (f FloorInput) Label() string {
	if f.Description != "" {
		return f.Description
	}
	return f.ID
}

// Context is the dwelling-level data shared by every floor
type Context struct {
	ClimateZone        int          `json:"enum_zone_climatique_id" yaml:"enum_zone_climatique_id"`
	ConstructionPeriod int          `json:"enum_periode_construction_id" yaml:"enum_periode_construction_id"`
	JouleEffect        bool         `json:"effet_joule" yaml:"effet_joule"`
	Siblings           []FloorInput `json:"-" yaml:"-"`
}
