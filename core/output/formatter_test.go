package output

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"dpe-envelope/core/engine"
	"dpe-envelope/core/needs"
	"dpe-envelope/core/types"
	apperrors "dpe-envelope/internal/errors"
)

func sampleResult() *engine.Result {
	return &engine.Result{
		Dwelling:  "maison",
		Snapshot:  engine.SnapshotReference{ID: "0123456789abcdef"},
		InputHash: "feed",
		Floors: []types.FloorResult{
			{
				Element: "pb1",
				Intermediate: types.IntermediateResult{
					Method: types.MethodDirectJustified,
					U:      types.Known(0.5),
					Ue:     types.Known(0.398461538),
					Final:  types.Known(0.398461538),
				},
			},
			{
				Element: "pb2",
				Intermediate: types.IntermediateResult{
					Method: 42,
				},
			},
		},
		Needs:      &needs.Result{Nadeq: 2.5, V40: 140, V40HighUsage: 197.5, HotWaterNeed: 2500.123456},
		Unresolved: []string{"pb2"},
		ComputedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestJSONRoundsCoefficients(t *testing.T) {
	f, err := New(FormatJSON, 4)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := f.Render(&buf, []*engine.Result{sampleResult()}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var doc struct {
		ID     string `json:"id"`
		Floors []struct {
			ID    string   `json:"id"`
			U0    *float64 `json:"upb0"`
			Final *float64 `json:"upb_final"`
		} `json:"plancher_bas"`
		Needs struct {
			HotWaterNeed json.Number `json:"besoin_ecs"`
		} `json:"apport_et_besoin"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not a JSON object: %v\n%s", err, buf.String())
	}

	if doc.ID != "maison" || len(doc.Floors) != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if doc.Floors[0].Final == nil || *doc.Floors[0].Final != 0.3985 {
		t.Errorf("pb1 final = %v, want 0.3985", doc.Floors[0].Final)
	}
	if doc.Floors[0].U0 != nil || doc.Floors[1].Final != nil {
		t.Error("unresolved coefficients must be null")
	}
	if doc.Needs.HotWaterNeed.String() != "2500.1235" {
		t.Errorf("besoin_ecs = %s, want 2500.1235", doc.Needs.HotWaterNeed)
	}
}

func TestJSONRendersArrayForSeveralDwellings(t *testing.T) {
	f, _ := New(FormatJSON, 2)
	var buf bytes.Buffer
	if err := f.Render(&buf, []*engine.Result{sampleResult(), sampleResult()}); err != nil {
		t.Fatal(err)
	}
	var docs []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil || len(docs) != 2 {
		t.Errorf("expected an array of 2 documents, got %v (%v)", len(docs), err)
	}
}

func TestCLISummary(t *testing.T) {
	f, _ := New(FormatCLI, 3)
	var buf bytes.Buffer
	if err := f.Render(&buf, []*engine.Result{sampleResult()}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{"DWELLING maison", "0.398", "unresolved", "Unresolved floors: pb2", "0123456789abcdef"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNonFiniteValuesRenderWithoutPanic(t *testing.T) {
	r := sampleResult()
	// U = 1/(1/2 - 0.5)
	half := 0.5
	r.Floors[0].Intermediate.U = types.Known(1 / (1/2.0 - half))
	r.Floors[0].Intermediate.Final = types.Known(math.NaN())
	r.Needs.CoolingNeed = math.Inf(-1)

	jsonFormatter, _ := New(FormatJSON, 4)
	var buf bytes.Buffer
	if err := jsonFormatter.Render(&buf, []*engine.Result{r}); err != nil {
		t.Fatalf("json Render failed: %v", err)
	}
	var doc struct {
		Floors []struct {
			U     *float64 `json:"upb"`
			Final *float64 `json:"upb_final"`
		} `json:"plancher_bas"`
		Needs struct {
			CoolingNeed *float64 `json:"besoin_fr"`
		} `json:"apport_et_besoin"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if doc.Floors[0].U != nil || doc.Floors[0].Final != nil || doc.Needs.CoolingNeed != nil {
		t.Errorf("non-finite values must encode as null:\n%s", buf.String())
	}

	cliFormatter, _ := New(FormatCLI, 4)
	buf.Reset()
	if err := cliFormatter.Render(&buf, []*engine.Result{r}); err != nil {
		t.Fatalf("cli Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "invalid") {
		t.Errorf("non-finite need must be marked invalid:\n%s", buf.String())
	}
}

func TestJSONIsReproducible(t *testing.T) {
	f, _ := New(FormatJSON, 4)
	a, b := sampleResult(), sampleResult()
	b.ComputedAt = a.ComputedAt.Add(time.Hour)
	b.Duration = time.Second

	var first, second bytes.Buffer
	if err := f.Render(&first, []*engine.Result{a}); err != nil {
		t.Fatal(err)
	}
	if err := f.Render(&second, []*engine.Result{b}); err != nil {
		t.Fatal(err)
	}
	if first.String() != second.String() {
		t.Errorf("same snapshot and input must render identically:\n%s\n%s", first.String(), second.String())
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := New("html", 4); !apperrors.IsType(err, apperrors.TypeConfig) {
		t.Errorf("expected a config error, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("plancher bas séjour", 10); got != "planche..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("pb1", 10); got != "pb1" {
		t.Errorf("truncate = %q", got)
	}
}
