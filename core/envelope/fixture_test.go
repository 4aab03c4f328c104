package envelope

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dpe-envelope/core/enums"
	"dpe-envelope/core/tables"
)

// ue values published for 2S/P = 3, earth contact before 2001
var ueBefore2001 = [][2]string{
	{"0.46", "0.38"},
	{"0.59", "0.44"},
	{"0.85", "0.52"},
	{"1.5", "0.65"},
	{"3.4", "0.75"},
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func upbRow(id, period, zone, joule int, upb string) tables.Row {
	return tables.Row{
		ID: tables.RowID(id),
		Fields: map[string]tables.Cell{
			"enum_periode_construction_id": tables.ExactNumber(decimal.NewFromInt(int64(period))),
			"enum_zone_climatique_id":      tables.ExactNumber(decimal.NewFromInt(int64(zone))),
			"effet_joule":                  tables.ExactNumber(decimal.NewFromInt(int64(joule))),
		},
		Results: map[string]decimal.Decimal{"upb": d(upb)},
	}
}

func referenceTables(t *testing.T) *tables.Snapshot {
	t.Helper()
	b := tables.NewSnapshotBuilder()

	b.AddRow(TableU0, tables.Row{
		ID:      1,
		Fields:  map[string]tables.Cell{"enum_type_plancher_bas_id": tables.Exact("1")},
		Results: map[string]decimal.Decimal{"upb0": d("2")},
	})
	b.AddRow(TableU0, tables.Row{
		ID:      8,
		Fields:  map[string]tables.Cell{"enum_type_plancher_bas_id": tables.Exact("8")},
		Results: map[string]decimal.Decimal{"upb0": d("2.5")},
	})

	b.AddRow(TableU, upbRow(101, 1, 1, 0, "2"))
	b.AddRow(TableU, upbRow(102, 3, 1, 0, "0.9"))
	b.AddRow(TableU, upbRow(103, 3, 1, 1, "0.7"))
	b.AddRow(TableU, upbRow(104, 6, 1, 0, "0.5"))
	b.AddRow(TableU, upbRow(105, 2, 1, 0, "2"))

	for i, pair := range ueBefore2001 {
		upb, ue := pair[0], pair[1]
		b.AddRow(TableUe, tables.Row{
			ID: tables.RowID(1001 + i),
			Fields: map[string]tables.Cell{
				"type_adjacence_plancher": tables.Exact(earthContactBefore2001.label),
				"2s_p":                    tables.Exact("3"),
				"upb":                     tables.Exact(upb),
			},
			Results: map[string]decimal.Decimal{"ue": d(ue)},
		})
	}
	b.AddRow(TableUe, tables.Row{
		ID: 2001,
		Fields: map[string]tables.Cell{
			"type_adjacence_plancher": tables.Exact(earthContactBefore2001.label),
			"2s_p":                    tables.Exact("1"),
			"upb":                     tables.Any(),
		},
		Results: map[string]decimal.Decimal{"ue": d("0.9")},
	})

	snap, err := b.Build()
	if err != nil {
		t.Fatalf("build reference tables: %v", err)
	}
	return snap
}

func newTestCalculator(t *testing.T, legacy bool) (*Calculator, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	calc := NewCalculator(referenceTables(t), enums.Default(), Options{LegacyCompat: legacy}, zap.New(core))
	return calc, logs
}

func f(v float64) *float64 {
	return &v
}
