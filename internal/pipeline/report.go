package pipeline

import (
	"time"

	"chartsync/internal/store"
)

// Report summarizes one pipeline run.
type Report struct {
	RunID  string
	Mode   Mode
	Window string

	Started  time.Time
	Finished time.Time

	TracksIn         int
	TracksNormalized int
	TracksSkipped    int
	VideosIn         int
	VideosNormalized int
	VideosSkipped    int
	Pairs            int
	Metrics          int
	MetricsSkipped   int
	Aggregates       int

	// Outcomes maps document family to its load result. Empty for extract
	// runs and for families with nothing to load.
	Outcomes map[string]store.Outcome
}

// Elapsed returns the run duration.
func (r *Report) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Failed reports whether any family had load failures.
func (r *Report) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Failed > 0 {
			return true
		}
	}
	return false
}
