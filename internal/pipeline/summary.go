package pipeline

import (
	"log/slog"

	"github.com/lepinkainen/springer-meta/internal/springer"
)

// Summary counts the outcomes of a run.
type Summary struct {
	RunID     string
	Total     int
	Emitted   int
	Enriched  int
	ByOutcome map[springer.Outcome]int
}

// Summarize tallies run.
func Summarize(run *Run) Summary {
	s := Summary{
		RunID:     run.ID,
		Total:     len(run.Items),
		ByOutcome: make(map[springer.Outcome]int),
	}
	for _, it := range run.Items {
		s.ByOutcome[it.Outcome]++
		if it.Record != nil {
			s.Emitted++
		}
		if it.Enriched {
			s.Enriched++
		}
	}
	return s
}

// Log writes the summary at info level.
func (s Summary) Log(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	log.Info("Batch run finished",
		"run_id", s.RunID,
		"total", s.Total,
		"records", s.Emitted,
		"enriched", s.Enriched,
		springer.OutcomeOK.String(), s.ByOutcome[springer.OutcomeOK],
		springer.OutcomeParseDegraded.String(), s.ByOutcome[springer.OutcomeParseDegraded],
		springer.OutcomeNoInput.String(), s.ByOutcome[springer.OutcomeNoInput],
		springer.OutcomeFetchFailed.String(), s.ByOutcome[springer.OutcomeFetchFailed],
		springer.OutcomeUnexpected.String(), s.ByOutcome[springer.OutcomeUnexpected],
	)
}
