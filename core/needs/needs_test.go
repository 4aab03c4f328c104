package needs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dpe-envelope/core/enums"
	"dpe-envelope/core/types"
)

// fixedCalculators returns the same values for every dwelling and records
// the conditions it was called with.
type fixedCalculators struct {
	seen []Conditions
}

func (f *fixedCalculators) Nadeq(Input) float64 { return 2.5 }

func (f *fixedCalculators) SouthEquivalentArea(c Conditions, _ Input) float64 {
	f.seen = append(f.seen, c)
	return 12.5
}

func (f *fixedCalculators) HotWaterNeed(_ Conditions, nadeq float64) HotWater {
	return HotWater{Need: 1000 * nadeq, NeedHigh: 1400 * nadeq}
}

func (f *fixedCalculators) CoolingNeed(Conditions, Input, float64) Cooling {
	return Cooling{Need: 300, NeedHigh: 450}
}

func (f *fixedCalculators) InternalGains(Conditions, Input, float64) Gains {
	return Gains{Heating: 2000, Cooling: 800}
}

func (f *fixedCalculators) SolarGains(Conditions, Input) Gains {
	return Gains{Heating: 1500, Cooling: 600}
}

func dwelling() Input {
	return Input{
		ClimateZone:   1,
		AltitudeClass: 1,
		InertiaClass:  2,
		LivingArea:    80,
		Dwellings:     1,
		GV:            150,
	}
}

func newTestOrchestrator() (*Orchestrator, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(enums.Default(), zap.New(core)), logs
}

func TestComputeWithCooling(t *testing.T) {
	o, _ := newTestOrchestrator()
	in := dwelling()
	in.CoolingSystems = []CoolingSystem{{ID: "clim1"}}

	got := o.Compute("logement", in, &fixedCalculators{})

	want := Result{
		Nadeq:                2.5,
		V40:                  140,
		V40HighUsage:         197.5,
		SouthEquivalentArea:  12.5,
		HotWaterNeed:         2500,
		HotWaterNeedHigh:     3500,
		InternalGainsHeating: 2000,
		InternalGainsCooling: 800,
		SolarGainsHeating:    1500,
		SolarGainsCooling:    600,
		CoolingNeed:          300,
		CoolingNeedHigh:      450,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeZeroesCoolingWithoutEquipment(t *testing.T) {
	o, logs := newTestOrchestrator()

	got := o.Compute("logement", dwelling(), &fixedCalculators{})

	cooling := map[string]float64{
		"besoin_fr":           got.CoolingNeed,
		"besoin_fr_depensier": got.CoolingNeedHigh,
		"apport_interne_fr":   got.InternalGainsCooling,
		"apport_solaire_fr":   got.SolarGainsCooling,
	}
	for field, v := range cooling {
		if v != 0 {
			t.Errorf("%s = %v, want 0", field, v)
		}
	}
	if got.InternalGainsHeating != 2000 || got.SolarGainsHeating != 1500 {
		t.Error("heating-season gains must not be zeroed")
	}
	if logs.FilterMessageSnippet("cooling outputs zeroed").Len() != 1 {
		t.Error("zeroing must be logged")
	}
}

func TestComputeResolvesConditionLabels(t *testing.T) {
	o, _ := newTestOrchestrator()
	calc := &fixedCalculators{}

	o.Compute("logement", dwelling(), calc)

	want := []Conditions{{ClimateZone: "h1a", AltitudeClass: "inférieur à 400m", Inertia: "lourde"}}
	if diff := cmp.Diff(want, calc.seen); diff != "" {
		t.Errorf("conditions mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeUnknownConditionCode(t *testing.T) {
	o, logs := newTestOrchestrator()
	in := dwelling()
	in.ClimateZone = 99

	got := o.Compute("logement", in, &fixedCalculators{})

	want := []types.Diagnostic{{
		Severity: types.SeverityWarning,
		Kind:     "UNKNOWN_ENUMERATION_CODE",
		Element:  "logement",
		Rule:     enums.ClimateZone,
		From:     99,
		Message:  "unknown zone_climatique code: 99",
	}}
	if diff := cmp.Diff(want, got.Diagnostics); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Error("unknown code must be logged once")
	}
	if got.Nadeq != 2.5 {
		t.Error("subsystems still run with an unknown condition")
	}
}
