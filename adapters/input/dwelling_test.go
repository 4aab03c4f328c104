package input

import (
	"strings"
	"testing"

	"dpe-envelope/core/needs"
	apperrors "dpe-envelope/internal/errors"
)

func TestLoadYAMLDocument(t *testing.T) {
	d, err := Load("testdata/maison.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if d.ID != "maison-1948" || d.Source != "testdata/maison.yaml" {
		t.Errorf("unexpected identity %q from %q", d.ID, d.Source)
	}
	if d.Context.ClimateZone != 1 || d.Context.ConstructionPeriod != 2 || d.Context.JouleEffect {
		t.Errorf("unexpected context %+v", d.Context)
	}
	if len(d.Floors) != 3 {
		t.Fatalf("expected 3 floors, got %d", len(d.Floors))
	}
	if d.Floors[0].UEntered == nil || *d.Floors[0].UEntered != 0.5 {
		t.Error("upb_saisi not decoded")
	}
	if d.Floors[1].UEntered != nil {
		t.Error("absent optional field must stay nil")
	}
	if d.Needs == nil || d.Needs.ClimateZone != 1 {
		t.Errorf("needs climate zone must default to the context's, got %+v", d.Needs)
	}
	if len(d.Needs.CoolingSystems) != 0 {
		t.Error("no cooling equipment declared")
	}
}

func TestLoadJSONDocument(t *testing.T) {
	d, err := Load("testdata/appartement.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.Floors[0].ID != "plancher_bas_1" {
		t.Errorf("missing floor id must be generated, got %q", d.Floors[0].ID)
	}
	if !d.Context.JouleEffect {
		t.Error("effet_joule not decoded")
	}
	if len(d.Needs.CoolingSystems) != 1 || d.Needs.CoolingSystems[0].ID != "clim1" {
		t.Errorf("unexpected cooling systems %+v", d.Needs.CoolingSystems)
	}
}

func TestSubsystemsAnswerRecordedValues(t *testing.T) {
	d, err := Load("testdata/maison.yaml")
	if err != nil {
		t.Fatal(err)
	}
	calc := d.Subsystems.Calculators()

	if got := calc.Nadeq(*d.Needs); got != 2.5 {
		t.Errorf("Nadeq = %v", got)
	}
	if got := calc.CoolingNeed(needs.Conditions{}, *d.Needs, 2.5); got.Need != 300 || got.NeedHigh != 450 {
		t.Errorf("CoolingNeed = %+v", got)
	}
	if got := calc.SolarGains(needs.Conditions{}, *d.Needs); got.Heating != 1500 || got.Cooling != 600 {
		t.Errorf("SolarGains = %+v", got)
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want apperrors.Type
	}{
		{
			name: "unknown field",
			doc:  "contexte: {enum_zone_climatique_id: 1, enum_periode_construction_id: 1}\nplanchers: []\n",
			want: apperrors.TypeParsing,
		},
		{
			name: "missing climate zone",
			doc:  "contexte: {enum_periode_construction_id: 1}\n",
			want: apperrors.TypeInput,
		},
		{
			name: "missing construction period",
			doc:  "contexte: {enum_zone_climatique_id: 1}\n",
			want: apperrors.TypeInput,
		},
		{
			name: "duplicate floor ids",
			doc: `contexte: {enum_zone_climatique_id: 1, enum_periode_construction_id: 1}
plancher_bas:
  - id: pb1
  - id: pb1
`,
			want: apperrors.TypeInput,
		},
		{
			name: "needs without subsystems",
			doc: `contexte: {enum_zone_climatique_id: 1, enum_periode_construction_id: 1}
besoins: {surface_habitable: 50}
`,
			want: apperrors.TypeInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if !apperrors.IsType(err, tt.want) {
				t.Errorf("error = %v, want type %s", err, tt.want)
			}
		})
	}
}

func TestLoadMissingDocument(t *testing.T) {
	_, err := Load("testdata/absent.yaml")
	if !apperrors.IsType(err, apperrors.TypeNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRequestCarriesDocument(t *testing.T) {
	d, err := Load("testdata/maison.yaml")
	if err != nil {
		t.Fatal(err)
	}
	req := d.Request()

	if req.ID != d.ID || len(req.Floors) != len(d.Floors) || req.Needs != d.Needs {
		t.Errorf("request does not carry the document: %+v", req)
	}
	if req.Calculators == nil {
		t.Error("subsystems must provide the calculators")
	}
}
