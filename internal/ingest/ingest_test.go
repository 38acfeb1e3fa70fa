package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chartsync/internal/services"
)

func writeDrop(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestTracksConcatenatesDrops(t *testing.T) {
	dir := t.TempDir()
	writeDrop(t, dir, "tracks_b.json", `[{"track_id":"t2","name":"Two"}]`)
	writeDrop(t, dir, "tracks_a.json", `[{"track_id":"t1","name":"One"}]`)

	tracks, err := NewReader(dir).Tracks()
	if err != nil {
		t.Fatalf("tracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	// File-name order makes ingestion deterministic.
	if tracks[0].ID != "t1" || tracks[1].ID != "t2" {
		t.Errorf("unexpected order: %s, %s", tracks[0].ID, tracks[1].ID)
	}
}

func TestVideosPerRegionDrops(t *testing.T) {
	dir := t.TempDir()
	writeDrop(t, dir, "videos_us.json", `[{"video_id":"v1","title":"A","source_region":"us"}]`)
	writeDrop(t, dir, "videos_gb.json", `[{"video_id":"v1","title":"A","source_region":"gb"}]`)

	videos, err := NewReader(dir).Videos()
	if err != nil {
		t.Fatalf("videos: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
}

func TestMissingSnapshots(t *testing.T) {
	_, err := NewReader(t.TempDir()).Tracks()
	if err == nil {
		t.Fatal("expected error for empty data dir")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestMalformedSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeDrop(t, dir, "videos.json", `{"not":"an array"}`)

	_, err := NewReader(dir).Videos()
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
