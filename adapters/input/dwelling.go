// Package input loads dwelling documents: the declared floors, the
// dwelling context and the needs inputs, from YAML or JSON files.
package input

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"dpe-envelope/core/engine"
	"dpe-envelope/core/needs"
	"dpe-envelope/core/types"
	apperrors "dpe-envelope/internal/errors"
)

// Dwelling is one dwelling document
type Dwelling struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`

	Context types.Context      `json:"contexte" yaml:"contexte"`
	Floors  []types.FloorInput `json:"plancher_bas" yaml:"plancher_bas"`

	// Needs is optional; without it only the floors are computed
	Needs *needs.Input `json:"besoins,omitempty" yaml:"besoins,omitempty"`

	// Subsystems carries the leaf formula results computed upstream
	Subsystems *Subsystems `json:"sous_systemes,omitempty" yaml:"sous_systemes,omitempty"`

	// Source is the file the document was read from
	Source string `json:"-" yaml:"-"`
}

// Subsystems are pre-computed leaf results
type Subsystems struct {
	Nadeq                float64 `json:"nadeq" yaml:"nadeq"`
	SouthEquivalentArea  float64 `json:"surface_sud_equivalente" yaml:"surface_sud_equivalente"`
	HotWaterNeed         float64 `json:"besoin_ecs" yaml:"besoin_ecs"`
	HotWaterNeedHigh     float64 `json:"besoin_ecs_depensier" yaml:"besoin_ecs_depensier"`
	CoolingNeed          float64 `json:"besoin_fr" yaml:"besoin_fr"`
	CoolingNeedHigh      float64 `json:"besoin_fr_depensier" yaml:"besoin_fr_depensier"`
	InternalGainsHeating float64 `json:"apport_interne_ch" yaml:"apport_interne_ch"`
	InternalGainsCooling float64 `json:"apport_interne_fr" yaml:"apport_interne_fr"`
	SolarGainsHeating    float64 `json:"apport_solaire_ch" yaml:"apport_solaire_ch"`
	SolarGainsCooling    float64 `json:"apport_solaire_fr" yaml:"apport_solaire_fr"`
}

// Calculators returns leaf calculators answering with the recorded values
func (s *Subsystems) Calculators() needs.Calculators {
	return recorded{s}
}

type recorded struct {
	s *Subsystems
}

func (r recorded) Nadeq(needs.Input) float64 { return r.s.Nadeq }

func (r recorded) SouthEquivalentArea(needs.Conditions, needs.Input) float64 {
	return r.s.SouthEquivalentArea
}

func (r recorded) HotWaterNeed(needs.Conditions, float64) needs.HotWater {
	return needs.HotWater{Need: r.s.HotWaterNeed, NeedHigh: r.s.HotWaterNeedHigh}
}

func (r recorded) CoolingNeed(needs.Conditions, needs.Input, float64) needs.Cooling {
	return needs.Cooling{Need: r.s.CoolingNeed, NeedHigh: r.s.CoolingNeedHigh}
}

func (r recorded) InternalGains(needs.Conditions, needs.Input, float64) needs.Gains {
	return needs.Gains{Heating: r.s.InternalGainsHeating, Cooling: r.s.InternalGainsCooling}
}

func (r recorded) SolarGains(needs.Conditions, needs.Input) needs.Gains {
	return needs.Gains{Heating: r.s.SolarGainsHeating, Cooling: r.s.SolarGainsCooling}
}

// Load reads a dwelling document
func Load(path string) (*Dwelling, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("dwelling document", path)
		}
		return nil, apperrors.Wrap(apperrors.TypeInput, "failed to read dwelling document", err)
	}
	d, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	d.Source = path
	return d, nil
}

// Parse decodes and validates a dwelling document
func Parse(r io.Reader) (*Dwelling, error) {
	var d Dwelling
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, apperrors.Parsing("invalid dwelling document", err)
	}
	if err := d.normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

// normalize fills floor identifiers and the needs climate zone, and rejects
// documents the engine cannot compute.
func (d *Dwelling) normalize() error {
	if d.ID == "" {
		d.ID = "logement"
	}
	if d.Context.ClimateZone == 0 {
		return apperrors.Input("climate zone is required").WithContext("dwelling", d.ID)
	}
	if d.Context.ConstructionPeriod == 0 {
		return apperrors.Input("construction period is required").WithContext("dwelling", d.ID)
	}

	seen := make(map[string]bool, len(d.Floors))
	for i := range d.Floors {
		f := &d.Floors[i]
		if f.ID == "" {
			f.ID = fmt.Sprintf("plancher_bas_%d", i+1)
		}
		if seen[f.ID] {
			return apperrors.Input("duplicate floor id").WithContext("dwelling", d.ID).WithContext("floor", f.ID)
		}
		seen[f.ID] = true
	}

	if d.Needs != nil {
		if d.Subsystems == nil {
			return apperrors.Input("needs declared without subsystem results").WithContext("dwelling", d.ID)
		}
		if d.Needs.ClimateZone == 0 {
			d.Needs.ClimateZone = d.Context.ClimateZone
		}
	}
	return nil
}

// Request converts the document into an engine request
func (d *Dwelling) Request() *engine.Request {
	req := &engine.Request{
		ID:      d.ID,
		Context: d.Context,
		Floors:  d.Floors,
		Needs:   d.Needs,
	}
	if d.Subsystems != nil {
		req.Calculators = d.Subsystems.Calculators()
	}
	return req
}
