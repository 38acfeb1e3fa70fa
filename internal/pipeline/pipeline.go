// Package pipeline sequences the transform stages for one run: ingest,
// normalize, match, derive metrics, aggregate, and load. A filesystem lock
// keeps runs mutually exclusive per database.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"chartsync/internal/aggregate"
	"chartsync/internal/config"
	"chartsync/internal/ingest"
	"chartsync/internal/logging"
	"chartsync/internal/match"
	"chartsync/internal/metrics"
	"chartsync/internal/normalize"
	"chartsync/internal/record"
	"chartsync/internal/services"
	"chartsync/internal/store"
)

// Mode selects which platform families a run processes.
type Mode string

const (
	// ModeFull runs every stage across both platforms.
	ModeFull Mode = "full"
	// ModeSpotify ingests, normalizes, and loads tracks only.
	ModeSpotify Mode = "spotify"
	// ModeYouTube ingests, normalizes, and loads videos only.
	ModeYouTube Mode = "youtube"
	// ModeExtract decodes and normalizes snapshots without persisting,
	// reporting what a full run would process.
	ModeExtract Mode = "extract"
)

// ParseMode validates a mode flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFull, ModeSpotify, ModeYouTube, ModeExtract:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (want full, spotify, youtube, or extract)", s)
	}
}

// Runner executes pipeline runs against one store.
type Runner struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewRunner constructs a Runner. The store may be nil only for ModeExtract.
func NewRunner(cfg *config.Config, st *store.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, store: st, logger: logging.NewComponentLogger(logger, "pipeline")}
}

// Run executes one pipeline run in the given mode.
func (r *Runner) Run(ctx context.Context, mode Mode) (*Report, error) {
	runID := uuid.New().String()
	started := time.Now().UTC()
	report := &Report{
		RunID:    runID,
		Mode:     mode,
		Window:   started.Format("2006-01-02"),
		Started:  started,
		Outcomes: make(map[string]store.Outcome),
	}
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))
	logger.Info("run started", logging.String("mode", string(mode)))

	if mode != ModeExtract {
		lock := flock.New(r.cfg.Paths.DatabasePath + ".lock")
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !locked {
			return nil, services.Wrap(services.ErrTransient, "pipeline", "lock",
				"another run holds the lock", nil)
		}
		defer func() { _ = lock.Unlock() }()
	}

	reader := ingest.NewReader(r.cfg.Paths.DataDir)
	normalizer := normalize.New(logger)

	var tracks []record.TrackRecord
	var videos []record.VideoRecord

	if mode != ModeYouTube {
		raw, err := reader.Tracks()
		if err != nil {
			return nil, err
		}
		tracks = r.normalizeTracks(logger, normalizer, raw, report)
	}
	if mode != ModeSpotify {
		raw, err := reader.Videos()
		if err != nil {
			return nil, err
		}
		videos = r.normalizeVideos(logger, normalizer, raw, report)
	}

	var pairs []record.MatchedPair
	var derived []record.DerivedMetrics
	var aggregates []record.RegionalAggregate
	if mode == ModeFull || mode == ModeExtract {
		pairs = match.New(r.cfg, logger).Match(ctx, tracks, videos)
		report.Pairs = len(pairs)

		derived = r.deriveMetrics(ctx, logger, tracks, videos, pairs, report)
		aggregates = aggregate.New(r.cfg, logger).Build(report.Window, tracks, videos, pairs)
		report.Aggregates = len(aggregates)
	}

	if mode != ModeExtract {
		if err := r.load(ctx, runID, tracks, videos, pairs, derived, aggregates, report); err != nil {
			return nil, err
		}
	}

	report.Finished = time.Now().UTC()
	logger.Info("run finished",
		logging.Int("tracks", report.TracksNormalized),
		logging.Int("videos", report.VideosNormalized),
		logging.Int("pairs", report.Pairs),
		logging.Int("aggregates", report.Aggregates),
		logging.Duration("elapsed", report.Finished.Sub(report.Started)))
	return report, nil
}

// normalizeTracks drops records that fail validation; one bad record never
// aborts a run.
func (r *Runner) normalizeTracks(logger *slog.Logger, n *normalize.Normalizer, raw []record.RawTrack, report *Report) []record.TrackRecord {
	report.TracksIn = len(raw)
	out := make([]record.TrackRecord, 0, len(raw))
	for _, rt := range raw {
		track, err := n.Track(rt)
		if err != nil {
			report.TracksSkipped++
			logger.Warn("track skipped", logging.String("track_id", rt.ID), logging.Error(err))
			continue
		}
		out = append(out, track)
	}
	report.TracksNormalized = len(out)
	return out
}

func (r *Runner) normalizeVideos(logger *slog.Logger, n *normalize.Normalizer, raw []record.RawVideo, report *Report) []record.VideoRecord {
	report.VideosIn = len(raw)
	out := make([]record.VideoRecord, 0, len(raw))
	for _, rv := range raw {
		video, err := n.Video(rv)
		if err != nil {
			report.VideosSkipped++
			logger.Warn("video skipped", logging.String("video_id", rv.ID), logging.Error(err))
			continue
		}
		out = append(out, video)
	}
	report.VideosNormalized = len(out)
	return out
}

func (r *Runner) deriveMetrics(ctx context.Context, logger *slog.Logger, tracks []record.TrackRecord, videos []record.VideoRecord, pairs []record.MatchedPair, report *Report) []record.DerivedMetrics {
	calc := metrics.New(r.cfg, logger)

	trackByID := make(map[string]*record.TrackRecord, len(tracks))
	for i := range tracks {
		trackByID[tracks[i].TrackID] = &tracks[i]
	}
	videoByKey := make(map[string]*record.VideoRecord, len(videos))
	for i := range videos {
		videoByKey[videos[i].VideoID+":"+videos[i].RegionCode] = &videos[i]
	}

	out := make([]record.DerivedMetrics, 0, len(pairs))
	for _, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		track, okT := trackByID[pair.TrackID]
		video, okV := videoByKey[pair.VideoID+":"+pair.RegionCode]
		if !okT || !okV {
			report.MetricsSkipped++
			continue
		}
		m, err := calc.Compute(pair, *track, *video)
		if err != nil {
			report.MetricsSkipped++
			logger.Warn("metrics skipped", logging.String("track_id", pair.TrackID), logging.Error(err))
			continue
		}
		out = append(out, m)
	}
	report.Metrics = len(out)
	return out
}

func (r *Runner) load(ctx context.Context, runID string, tracks []record.TrackRecord, videos []record.VideoRecord, pairs []record.MatchedPair, derived []record.DerivedMetrics, aggregates []record.RegionalAggregate, report *Report) error {
	loader := store.NewLoader(r.cfg, r.store, r.logger)

	families := []struct {
		name string
		load func(context.Context) store.Outcome
	}{
		{"tracks", func(ctx context.Context) store.Outcome { return loader.Tracks(ctx, tracks) }},
		{"videos", func(ctx context.Context) store.Outcome { return loader.Videos(ctx, videos) }},
		{"matched_pairs", func(ctx context.Context) store.Outcome { return loader.Pairs(ctx, pairs) }},
		{"derived_metrics", func(ctx context.Context) store.Outcome { return loader.Metrics(ctx, derived) }},
		{"regional_aggregates", func(ctx context.Context) store.Outcome { return loader.Aggregates(ctx, aggregates) }},
	}
	for _, family := range families {
		outcome := family.load(ctx)
		if outcome.Total() == 0 {
			continue
		}
		report.Outcomes[family.name] = outcome
		if err := r.store.RecordLoadRun(ctx, runID, family.name, outcome); err != nil {
			return services.Wrap(services.ErrPersistence, "pipeline", "record load run",
				family.name, err)
		}
	}
	return nil
}
