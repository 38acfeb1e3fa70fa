package metrics

import (
	"log/slog"
	"math"

	"chartsync/internal/config"
	"chartsync/internal/logging"
	"chartsync/internal/record"
	"chartsync/internal/services"
)

// Calculator computes DerivedMetrics for matched pairs.
type Calculator struct {
	popularityWeight float64
	viewsWeight      float64
	confidenceWeight float64
	viewCap          int64
	logger           *slog.Logger
}

// New constructs a Calculator from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Calculator {
	return &Calculator{
		popularityWeight: cfg.Metrics.PopularityWeight,
		viewsWeight:      cfg.Metrics.ViewsWeight,
		confidenceWeight: cfg.Metrics.ConfidenceWeight,
		viewCap:          cfg.Metrics.ViewCap,
		logger:           logging.NewComponentLogger(logger, "metrics"),
	}
}

// Compute derives the metrics document for a matched pair and its records.
// Denominators floor at 1, so ErrArithmeticGuard is an assertion boundary
// rather than an expected outcome.
func (c *Calculator) Compute(pair record.MatchedPair, track record.TrackRecord, video record.VideoRecord) (record.DerivedMetrics, error) {
	popularityFloor := track.Popularity
	if popularityFloor < 1 {
		popularityFloor = 1
	}

	m := record.DerivedMetrics{
		TrackID:             pair.TrackID,
		VideoID:             pair.VideoID,
		ViewPopularityRatio: float64(video.ViewCount) / float64(popularityFloor),
		CrossPlatformScore: c.popularityWeight*float64(track.Popularity)/100 +
			c.viewsWeight*c.normalizeViews(video.ViewCount) +
			c.confidenceWeight*pair.Confidence,
		PlatformConsistency: record.DurationSimilarity(track.DurationMS, video.DurationMS),
		MatchConfidence:     pair.Confidence,
	}

	for _, v := range []float64{m.ViewPopularityRatio, m.CrossPlatformScore, m.PlatformConsistency, m.MatchConfidence} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return record.DerivedMetrics{}, services.Wrap(
				services.ErrArithmeticGuard, "metrics", "compute",
				"non-finite value for pair "+pair.Key(), nil)
		}
	}
	return m, nil
}

// normalizeViews maps a view count onto [0,1] by log scaling against the
// configured reference cap. Counts beyond the cap clamp to 1.
func (c *Calculator) normalizeViews(views int64) float64 {
	if views <= 0 {
		return 0
	}
	scaled := math.Log10(1+float64(views)) / math.Log10(1+float64(c.viewCap))
	if scaled > 1 {
		return 1
	}
	return scaled
}
