package aggregate

import (
	"fmt"
	"math"
	"testing"

	"chartsync/internal/config"
	"chartsync/internal/record"
)

func testAggregator(t *testing.T, mutate func(*config.Config)) *Aggregator {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	return New(&cfg, nil)
}

func video(id, region string, views, likes, comments int64) record.VideoRecord {
	return record.VideoRecord{
		VideoID:      id,
		Title:        "video " + id,
		RegionCode:   region,
		ViewCount:    views,
		LikeCount:    likes,
		CommentCount: comments,
	}
}

func track(id string, popularity int) record.TrackRecord {
	return record.TrackRecord{TrackID: id, Title: "track " + id, Popularity: popularity}
}

func TestBuildOneAggregatePerRegion(t *testing.T) {
	a := testAggregator(t, nil)
	videos := []record.VideoRecord{
		video("v1", "us", 1000, 100, 10),
		video("v2", "us", 2000, 50, 5),
		video("v3", "gb", 500, 20, 2),
		video("v4", "unknown", 300, 0, 0),
	}
	aggs := a.Build("2026-09-01", nil, videos, nil)

	if len(aggs) != 3 {
		t.Fatalf("got %d aggregates, want 3", len(aggs))
	}
	// Sorted by region code.
	wantRegions := []string{"gb", "unknown", "us"}
	for i, want := range wantRegions {
		if aggs[i].RegionCode != want {
			t.Errorf("aggs[%d].RegionCode = %q, want %q", i, aggs[i].RegionCode, want)
		}
		if aggs[i].Window != "2026-09-01" {
			t.Errorf("Window = %q", aggs[i].Window)
		}
	}
}

func TestBuildTotalViewsConservation(t *testing.T) {
	a := testAggregator(t, nil)
	var videos []record.VideoRecord
	var wantTotal int64
	for i := 0; i < 30; i++ {
		region := []string{"us", "gb", "br", "unknown"}[i%4]
		views := int64(1000 * (i + 1))
		wantTotal += views
		videos = append(videos, video(fmt.Sprintf("v%02d", i), region, views, 0, 0))
	}

	aggs := a.Build("w", nil, videos, nil)
	var gotTotal int64
	for _, agg := range aggs {
		gotTotal += agg.TotalViews
	}
	if gotTotal != wantTotal {
		t.Errorf("sum of regional TotalViews = %d, want %d", gotTotal, wantTotal)
	}
}

func TestBuildUnknownRegionBatch(t *testing.T) {
	a := testAggregator(t, nil)
	var videos []record.VideoRecord
	var wantViews int64
	for i := 0; i < 100; i++ {
		views := int64(10 + i)
		wantViews += views
		videos = append(videos, video(fmt.Sprintf("v%03d", i), record.UnknownRegion, views, 0, 0))
	}

	aggs := a.Build("w", nil, videos, nil)
	if len(aggs) != 1 {
		t.Fatalf("got %d aggregates, want 1", len(aggs))
	}
	agg := aggs[0]
	if agg.RegionCode != record.UnknownRegion {
		t.Errorf("RegionCode = %q, want unknown sentinel", agg.RegionCode)
	}
	if agg.TotalViews != wantViews {
		t.Errorf("TotalViews = %d, want %d", agg.TotalViews, wantViews)
	}
	if agg.VideoCount != 100 {
		t.Errorf("VideoCount = %d, want 100", agg.VideoCount)
	}
}

func TestBuildAvgPopularityOnlyOverMatchedTracks(t *testing.T) {
	a := testAggregator(t, nil)
	tracks := []record.TrackRecord{track("t1", 80), track("t2", 60), track("t3", 10)}
	videos := []record.VideoRecord{
		video("v1", "us", 1000, 0, 0),
		video("v2", "us", 2000, 0, 0),
	}
	// t1 and t2 matched in us; t3 unmatched everywhere.
	pairs := []record.MatchedPair{
		{TrackID: "t1", VideoID: "v1", RegionCode: "us", Confidence: 0.9},
		{TrackID: "t2", VideoID: "v2", RegionCode: "us", Confidence: 0.8},
	}

	aggs := a.Build("w", tracks, videos, pairs)
	if len(aggs) != 1 {
		t.Fatalf("got %d aggregates, want 1", len(aggs))
	}
	agg := aggs[0]
	if agg.MatchedTrackCount != 2 {
		t.Errorf("MatchedTrackCount = %d, want 2", agg.MatchedTrackCount)
	}
	if math.Abs(agg.AvgTrackPopularity-70) > 1e-9 {
		t.Errorf("AvgTrackPopularity = %v, want 70", agg.AvgTrackPopularity)
	}
}

func TestBuildTopNRanking(t *testing.T) {
	a := testAggregator(t, func(c *config.Config) { c.Aggregation.TopN = 2 })
	videos := []record.VideoRecord{
		video("vb", "us", 500, 0, 0),
		video("va", "us", 500, 0, 0),
		video("vc", "us", 900, 0, 0),
		video("vd", "us", 100, 0, 0),
	}
	aggs := a.Build("w", nil, videos, nil)
	if len(aggs) != 1 {
		t.Fatalf("got %d aggregates, want 1", len(aggs))
	}
	top := aggs[0].TopVideos
	if len(top) != 2 {
		t.Fatalf("TopVideos has %d entries, want 2", len(top))
	}
	if top[0].ID != "vc" {
		t.Errorf("top video = %q, want vc", top[0].ID)
	}
	// 500-view tie: lexicographically smaller id wins.
	if top[1].ID != "va" {
		t.Errorf("second video = %q, want va", top[1].ID)
	}
}

func TestBuildEngagementRate(t *testing.T) {
	a := testAggregator(t, nil)
	videos := []record.VideoRecord{
		video("v1", "us", 1000, 80, 20),
		video("v2", "us", 1000, 50, 50),
	}
	aggs := a.Build("w", nil, videos, nil)
	want := float64(80+20+50+50) / 2000
	if math.Abs(aggs[0].AvgEngagementRate-want) > 1e-12 {
		t.Errorf("AvgEngagementRate = %v, want %v", aggs[0].AvgEngagementRate, want)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	a := testAggregator(t, nil)
	if aggs := a.Build("w", nil, nil, nil); len(aggs) != 0 {
		t.Errorf("got %d aggregates for empty input, want 0", len(aggs))
	}
}
