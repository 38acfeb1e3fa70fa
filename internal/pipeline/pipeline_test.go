package pipeline_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"chartsync/internal/config"
	"chartsync/internal/pipeline"
	"chartsync/internal/record"
	"chartsync/internal/testsupport"
)

func writeSnapshot[T any](t *testing.T, cfg *config.Config, name string, docs []T) {
	t.Helper()
	data, err := json.Marshal(docs)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Paths.DataDir, name), data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func seedSnapshots(t *testing.T, cfg *config.Config) {
	t.Helper()
	writeSnapshot(t, cfg, "tracks.json", []record.RawTrack{
		{
			ID: "t1", Title: "Shape of You", Artist: "Ed Sheeran", Album: "Divide",
			Popularity: 95, DurationMS: 233712, ReleaseDate: "2017-01-06",
		},
		{
			ID: "t2", Title: "Despacito", Artist: "Luis Fonsi",
			Popularity: 90, DurationMS: 228200, ReleaseDate: "2017",
		},
		// Missing id, dropped during normalization.
		{Title: "Orphan", Artist: "Nobody", Popularity: 10, DurationMS: 1000},
	})
	writeSnapshot(t, cfg, "videos_us.json", []record.RawVideo{
		{
			ID: "v1", Title: "Ed Sheeran - Shape of You (Official Music Video)",
			Channel: "Ed Sheeran", ViewCount: 5000000000, LikeCount: 31000000,
			CommentCount: 1200000, PublishedAt: "2017-01-30T10:00:00Z",
			Duration: "PT3M54S", Category: "10", RegionCode: "us",
		},
		{
			ID: "v2", Title: "Cooking Pasta At Home", Channel: "Kitchen Tips",
			ViewCount: 12000, LikeCount: 400, CommentCount: 20,
			PublishedAt: "2026-01-01T00:00:00Z", Duration: "PT12M0S",
			Category: "26", RegionCode: "us",
		},
	})
}

func TestRunFull(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedSnapshots(t, cfg)
	s := testsupport.MustOpenStore(t, cfg)

	runner := pipeline.NewRunner(cfg, s, nil)
	report, err := runner.Run(context.Background(), pipeline.ModeFull)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.TracksIn != 3 || report.TracksNormalized != 2 || report.TracksSkipped != 1 {
		t.Errorf("track counts: in=%d normalized=%d skipped=%d",
			report.TracksIn, report.TracksNormalized, report.TracksSkipped)
	}
	if report.VideosNormalized != 2 {
		t.Errorf("expected 2 normalized videos, got %d", report.VideosNormalized)
	}
	if report.Pairs != 1 {
		t.Fatalf("expected 1 matched pair, got %d", report.Pairs)
	}
	if report.Metrics != 1 {
		t.Errorf("expected 1 metrics document, got %d", report.Metrics)
	}
	if report.Aggregates != 1 {
		t.Errorf("expected 1 regional aggregate, got %d", report.Aggregates)
	}
	if report.Failed() {
		t.Errorf("unexpected load failures: %+v", report.Outcomes)
	}
	if report.RunID == "" || report.Window == "" {
		t.Error("report missing run id or window")
	}

	counts, err := s.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Tracks != 2 || counts.Videos != 2 || counts.Pairs != 1 {
		t.Errorf("stored counts: %+v", counts)
	}

	pair, err := s.PairByTrack(context.Background(), "t1")
	if err != nil {
		t.Fatalf("pair by track: %v", err)
	}
	if pair == nil || pair.VideoID != "v1" {
		t.Fatalf("expected t1 matched to v1, got %+v", pair)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedSnapshots(t, cfg)
	s := testsupport.MustOpenStore(t, cfg)
	runner := pipeline.NewRunner(cfg, s, nil)
	ctx := context.Background()

	first, err := runner.Run(ctx, pipeline.ModeFull)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := runner.Run(ctx, pipeline.ModeFull)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.RunID == second.RunID {
		t.Error("runs should have distinct ids")
	}

	// Rerunning the same snapshots converges to pure updates.
	if o := second.Outcomes["tracks"]; o.Inserted != 0 || o.Updated != 2 {
		t.Errorf("second run track outcome: %+v", o)
	}
	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Tracks != 2 || counts.Videos != 2 || counts.Pairs != 1 {
		t.Errorf("counts changed on rerun: %+v", counts)
	}
}

func TestRunSpotifyOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedSnapshots(t, cfg)
	s := testsupport.MustOpenStore(t, cfg)

	report, err := pipeline.NewRunner(cfg, s, nil).Run(context.Background(), pipeline.ModeSpotify)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Pairs != 0 || report.Aggregates != 0 {
		t.Errorf("spotify-only run should skip matching, got %+v", report)
	}

	counts, err := s.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Tracks != 2 || counts.Videos != 0 {
		t.Errorf("spotify-only counts: %+v", counts)
	}
}

func TestRunExtractPersistsNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedSnapshots(t, cfg)
	s := testsupport.MustOpenStore(t, cfg)

	report, err := pipeline.NewRunner(cfg, s, nil).Run(context.Background(), pipeline.ModeExtract)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Pairs != 1 {
		t.Errorf("extract run should still report matches, got %d", report.Pairs)
	}
	if len(report.Outcomes) != 0 {
		t.Errorf("extract run should not load, got %+v", report.Outcomes)
	}

	counts, err := s.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Tracks != 0 || counts.Videos != 0 {
		t.Errorf("extract run persisted documents: %+v", counts)
	}
}

func TestRunMissingSnapshots(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	if _, err := pipeline.NewRunner(cfg, s, nil).Run(context.Background(), pipeline.ModeFull); err == nil {
		t.Fatal("expected error for missing snapshots")
	}
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"full", "spotify", "youtube", "extract"} {
		if _, err := pipeline.ParseMode(valid); err != nil {
			t.Errorf("ParseMode(%q): %v", valid, err)
		}
	}
	if _, err := pipeline.ParseMode("everything"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
