// Package engine provides the API-primary dwelling calculation engine.
// CLI is a thin wrapper around this engine.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"dpe-envelope/core/determinism"
	"dpe-envelope/core/enums"
	"dpe-envelope/core/envelope"
	"dpe-envelope/core/needs"
	"dpe-envelope/core/tables"
	"dpe-envelope/core/types"
	apperrors "dpe-envelope/internal/errors"
	"dpe-envelope/internal/logging"
)

// Engine computes dwellings against one reference table snapshot.
// It is safe for concurrent use; every dwelling's pipeline runs on a
// single goroutine.
type Engine struct {
	snapshot *tables.Snapshot
	floors   *envelope.Calculator
	needs    *needs.Orchestrator
	config   Config
	log      *zap.Logger
}

// Config configures the engine
type Config struct {
	// LegacyCompat enables the method overrides and the period-substitution
	// fallback of the reference engine
	LegacyCompat bool

	// Workers bounds how many dwellings ComputeBatch runs at once
	Workers int
}

// DefaultConfig matches the historical reference engine
func DefaultConfig() Config {
	return Config{LegacyCompat: true, Workers: 4}
}

// NewEngine creates an engine. A nil logger uses the global one.
func NewEngine(snapshot *tables.Snapshot, dict enums.Dictionary, config Config, log *zap.Logger) *Engine {
	log = logging.Component("engine", log)
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Engine{
		snapshot: snapshot,
		floors:   envelope.NewCalculator(snapshot, dict, envelope.Options{LegacyCompat: config.LegacyCompat}, log),
		needs:    needs.New(dict, log),
		config:   config,
		log:      log,
	}
}

// Request is one dwelling to compute
type Request struct {
	ID      string
	Context types.Context
	Floors  []types.FloorInput

	// Needs and Calculators are optional; both or neither must be set
	Needs       *needs.Input
	Calculators needs.Calculators
}

// Result is the output of one dwelling
type Result struct {
	Dwelling string `json:"id"`

	// Snapshot identifies the reference tables used (for reproducibility)
	Snapshot SnapshotReference `json:"snapshot"`

	// InputHash identifies the declared data
	InputHash string `json:"input_hash"`

	Floors []types.FloorResult `json:"plancher_bas"`
	Needs  *needs.Result       `json:"apport_et_besoin,omitempty"`

	// Unresolved lists the floors without a final coefficient
	Unresolved []string `json:"unresolved,omitempty"`

	// ComputedAt is informational and is left out of rendered output, which
	// depends only on the snapshot and the input
	ComputedAt time.Time     `json:"-"`
	Duration   time.Duration `json:"-"`
}

// Degraded reports whether some floor has no final coefficient
func (r *Result) Degraded() bool {
	return len(r.Unresolved) > 0
}

// SnapshotReference is an immutable reference to the table snapshot used
type SnapshotReference struct {
	ID          tables.SnapshotID `json:"id"`
	ContentHash string            `json:"content_hash"`
}

// Compute runs the floor passes and the needs orchestration for one
// dwelling. Missing reference data never fails the call: it surfaces as
// unresolved coefficients and diagnostics on the result.
func (e *Engine) Compute(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()

	if req == nil {
		return nil, apperrors.Input("dwelling request is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Needs != nil && req.Calculators == nil {
		return nil, apperrors.Input("needs declared without subsystem calculators").WithContext("dwelling", req.ID)
	}

	// Verify snapshot integrity
	if !e.snapshot.Verify() {
		return nil, apperrors.New(apperrors.TypeInternal, "reference table snapshot failed integrity check")
	}

	inputHash, err := hashRequest(req)
	if err != nil {
		return nil, apperrors.Internal("failed to hash dwelling input", err)
	}

	result := &Result{
		Dwelling: req.ID,
		Snapshot: SnapshotReference{
			ID:          e.snapshot.ID,
			ContentHash: e.snapshot.ContentHash.Hex(),
		},
		InputHash:  inputHash.Hex(),
		ComputedAt: time.Now().UTC(),
	}

	result.Floors = e.floors.ComputeFloors(req.Floors, req.Context)
	for _, f := range result.Floors {
		if !f.Intermediate.Final.IsResolved() {
			result.Unresolved = append(result.Unresolved, f.Element)
		}
	}

	if req.Needs != nil {
		n := e.needs.Compute(req.ID, *req.Needs, req.Calculators)
		result.Needs = &n
	}

	result.Duration = time.Since(start)
	e.log.Info("dwelling computed",
		zap.String("dwelling", req.ID),
		zap.Int("floors", len(result.Floors)),
		zap.Int("unresolved", len(result.Unresolved)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// Outcome is the result or the error of one dwelling in a batch
type Outcome struct {
	Result *Result
	Err    error
}

// ComputeBatch computes dwellings concurrently, at most Workers at a time.
// Outcomes are returned in request order. A failing dwelling does not stop
// the others; only cancellation of ctx aborts the batch.
func (e *Engine) ComputeBatch(ctx context.Context, reqs []*Request) ([]Outcome, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	outcomes := make([]Outcome, len(reqs))
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.Compute(gctx, req)
			if err != nil {
				e.log.Warn("dwelling failed", zap.Int("index", i), zap.Error(err))
			}
			outcomes[i] = Outcome{Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// hashRequest hashes the declared data of a request. YAML encodes
// non-finite numbers, so a malformed floor still hashes and stays local to
// its own diagnostics.
func hashRequest(req *Request) (determinism.ContentHash, error) {
	h := determinism.NewHasher("dwelling-input")
	parts := []any{req.Context, req.Floors, req.Needs}
	for _, p := range parts {
		data, err := yaml.Marshal(p)
		if err != nil {
			return determinism.ContentHash{}, err
		}
		h.Write(string(data))
	}
	return h.Sum(), nil
}
