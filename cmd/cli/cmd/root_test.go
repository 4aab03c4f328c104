package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

const (
	referenceTables = "../../../adapters/tables/testdata/reference.yaml"
	house           = "../../../adapters/input/testdata/maison.yaml"
	flat            = "../../../adapters/input/testdata/appartement.json"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTablesCommand(t *testing.T) {
	out, _, err := run(t, "tables", "--tables", referenceTables)
	if err != nil {
		t.Fatalf("tables failed: %v", err)
	}
	for _, want := range []string{"ue", "25", "upb", "20", "upb0", "Snapshot:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestComputeCommandJSON(t *testing.T) {
	out, _, err := run(t, "compute", "--tables", referenceTables, "--format", "json", house)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	var doc struct {
		ID     string `json:"id"`
		Floors []struct {
			ID    string   `json:"id"`
			Final *float64 `json:"upb_final"`
		} `json:"plancher_bas"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if doc.ID != "maison-1948" || len(doc.Floors) != 3 {
		t.Fatalf("unexpected document %+v", doc)
	}
	for _, fl := range doc.Floors {
		if fl.Final == nil {
			t.Errorf("%s: final coefficient unresolved", fl.ID)
		}
	}
}

func TestBatchCommandReportsFailures(t *testing.T) {
	out, stderr, err := run(t, "batch", "--tables", referenceTables, "--format", "cli", house, "absent.yaml", flat)
	if err == nil {
		t.Fatal("a missing dwelling must fail the batch")
	}
	if !strings.Contains(stderr, "absent.yaml") {
		t.Errorf("failure not reported:\n%s", stderr)
	}
	if !strings.Contains(out, "DWELLING maison-1948") || !strings.Contains(out, "plancher_bas_1") {
		t.Errorf("computed dwellings missing from output:\n%s", out)
	}
}

func TestComputeCommandRejectsUnknownFormat(t *testing.T) {
	if _, _, err := run(t, "compute", "--tables", referenceTables, "--format", "html", house); err == nil {
		t.Error("unknown format must fail")
	}
}
