package batch

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/perceptualtools/refbatch/evaluator"
	"github.com/perceptualtools/refbatch/pairing"
)

// Outcome records one pair that was evaluated, or failed evaluation or write.
type Outcome struct {
	Pair      pairing.Pair
	MeanError float64
	Output    string
	Err       string
}

// Report summarizes one batch run. It is returned to the caller and logged;
// it is never persisted.
type Report struct {
	RunID string
	Mode  evaluator.Mode

	Evaluated []Outcome
	Skipped   []pairing.Skip
	Failed    []Outcome
	Ambiguous map[string]int
}

// NewReport creates an empty report for a run of cfg with a fresh run id.
func NewReport(cfg Config) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Mode:      cfg.Mode,
		Ambiguous: map[string]int{},
	}
}

// Clean reports whether the run finished without per-pair failures.
func (r *Report) Clean() bool {
	return len(r.Failed) == 0
}

// LogSummary emits the end-of-run summary, one line of counts plus one line
// per failed pair.
func (r *Report) LogSummary() {
	ev := log.Info()
	if !r.Clean() {
		ev = log.Warn()
	}
	ev.Str("run", r.RunID).
		Str("mode", string(r.Mode)).
		Int("evaluated", len(r.Evaluated)).
		Int("skipped", len(r.Skipped)).
		Int("failed", len(r.Failed)).
		Int("ambiguousKeys", len(r.Ambiguous)).
		Msg("batch finished")
	for _, o := range r.Failed {
		log.Warn().
			Str("run", r.RunID).
			Str("ref", o.Pair.Ref).
			Str("test", o.Pair.Test).
			Msg(o.Err)
	}
}
