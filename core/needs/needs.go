// Package needs assembles the per-dwelling needs and gains record from the
// independently computed subsystems.
package needs

import (
	"go.uber.org/zap"

	"dpe-envelope/core/enums"
	"dpe-envelope/core/types"
	apperrors "dpe-envelope/internal/errors"
	"dpe-envelope/internal/logging"
)

// Daily hot-water volume at 40°C per equivalent adult, in litres
const (
	V40PerAdult          = 56
	V40PerAdultHighUsage = 79
)

// Input is the dwelling-level data the subsystems are computed from
type Input struct {
	ClimateZone   int     `json:"enum_zone_climatique_id" yaml:"enum_zone_climatique_id"`
	AltitudeClass int     `json:"enum_classe_altitude_id" yaml:"enum_classe_altitude_id"`
	InertiaClass  int     `json:"enum_classe_inertie_id" yaml:"enum_classe_inertie_id"`
	LivingArea    float64 `json:"surface_habitable" yaml:"surface_habitable"`
	Dwellings     int     `json:"nombre_logement" yaml:"nombre_logement"`
	GV            float64 `json:"gv" yaml:"gv"`

	// ILPA is passed through to the gains and cooling formulas
	ILPA bool `json:"ilpa" yaml:"ilpa"`

	CoolingSystems []CoolingSystem `json:"climatisation" yaml:"climatisation"`
}

// CoolingSystem is one declared cooling equipment
type CoolingSystem struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
}

// Conditions are the labels the leaf formulas are keyed by
type Conditions struct {
	ClimateZone   string
	AltitudeClass string
	Inertia       string
}

// HotWater is the hot-water need, conventional and high-usage scenarios
type HotWater struct {
	Need     float64
	NeedHigh float64
}

// Cooling is the cooling need, conventional and high-usage scenarios
type Cooling struct {
	Need     float64
	NeedHigh float64
}

// Gains split between the heating and cooling seasons
type Gains struct {
	Heating float64
	Cooling float64
}

// Calculators are the leaf formulas of the method, computed outside this
// package.
type Calculators interface {
	Nadeq(in Input) float64
	SouthEquivalentArea(c Conditions, in Input) float64
	HotWaterNeed(c Conditions, nadeq float64) HotWater
	CoolingNeed(c Conditions, in Input, nadeq float64) Cooling
	InternalGains(c Conditions, in Input, nadeq float64) Gains
	SolarGains(c Conditions, in Input) Gains
}

// Result is the aggregate needs record of one dwelling. The heating need is
// not part of it: it is computed downstream from these gains.
type Result struct {
	Nadeq               float64 `json:"nadeq"`
	V40                 float64 `json:"v40_ecs_journalier"`
	V40HighUsage        float64 `json:"v40_ecs_journalier_depensier"`
	SouthEquivalentArea float64 `json:"surface_sud_equivalente"`

	HotWaterNeed     float64 `json:"besoin_ecs"`
	HotWaterNeedHigh float64 `json:"besoin_ecs_depensier"`

	InternalGainsHeating float64 `json:"apport_interne_ch"`
	InternalGainsCooling float64 `json:"apport_interne_fr"`
	SolarGainsHeating    float64 `json:"apport_solaire_ch"`
	SolarGainsCooling    float64 `json:"apport_solaire_fr"`

	CoolingNeed     float64 `json:"besoin_fr"`
	CoolingNeedHigh float64 `json:"besoin_fr_depensier"`

	Diagnostics []types.Diagnostic `json:"diagnostics,omitempty"`
}

// Orchestrator composes the subsystem results. It holds no per-call state.
type Orchestrator struct {
	dict enums.Dictionary
	log  *zap.Logger
}

// New creates an orchestrator. A nil logger uses the global one.
func New(dict enums.Dictionary, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		dict: dict,
		log:  logging.Component("needs", log),
	}
}

// Compute runs every subsystem once and assembles the dwelling record.
// Without cooling equipment the cooling need and the cooling-season gains
// are zero whatever the subsystems returned.
func (o *Orchestrator) Compute(element string, in Input, calc Calculators) Result {
	log := o.log.With(zap.String("element", element))
	var res Result

	cond := Conditions{
		ClimateZone:   o.label(log, &res, element, enums.ClimateZone, in.ClimateZone),
		AltitudeClass: o.label(log, &res, element, enums.AltitudeClass, in.AltitudeClass),
		Inertia:       o.label(log, &res, element, enums.InertiaClass, in.InertiaClass),
	}

	res.Nadeq = calc.Nadeq(in)
	res.V40 = res.Nadeq * V40PerAdult
	res.V40HighUsage = res.Nadeq * V40PerAdultHighUsage
	res.SouthEquivalentArea = calc.SouthEquivalentArea(cond, in)

	hw := calc.HotWaterNeed(cond, res.Nadeq)
	res.HotWaterNeed, res.HotWaterNeedHigh = hw.Need, hw.NeedHigh

	cooling := calc.CoolingNeed(cond, in, res.Nadeq)
	internal := calc.InternalGains(cond, in, res.Nadeq)
	solar := calc.SolarGains(cond, in)

	if len(in.CoolingSystems) == 0 {
		log.Debug("no cooling equipment, cooling outputs zeroed")
		cooling = Cooling{}
		internal.Cooling = 0
		solar.Cooling = 0
	}

	res.CoolingNeed, res.CoolingNeedHigh = cooling.Need, cooling.NeedHigh
	res.InternalGainsHeating, res.InternalGainsCooling = internal.Heating, internal.Cooling
	res.SolarGainsHeating, res.SolarGainsCooling = solar.Heating, solar.Cooling
	return res
}

// label resolves a condition code. An unknown code is reported and leaves
// the label empty for the leaf formulas to reject.
func (o *Orchestrator) label(log *zap.Logger, res *Result, element, enum string, code int) string {
	label, ok := o.dict.Label(enum, code)
	if ok {
		return label
	}
	unknown := apperrors.UnknownCode(enum, code)
	log.Warn(unknown.Message,
		zap.String("kind", string(apperrors.TypeUnknownEnumerationCode)),
		zap.String("rule", enum),
		zap.Int("from", code),
	)
	res.Diagnostics = append(res.Diagnostics, types.Diagnostic{
		Severity: types.SeverityWarning,
		Kind:     apperrors.TypeUnknownEnumerationCode,
		Element:  element,
		Rule:     enum,
		From:     code,
		Message:  unknown.Message,
	})
	return ""
}
