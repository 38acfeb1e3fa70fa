package record

import (
	"math"
	"testing"
)

func TestDurationSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
		want float64
	}{
		{"identical", 233000, 233000, 1.0},
		{"close", 233000, 235000, 1 - 2000.0/235000},
		{"zero a", 0, 235000, 0},
		{"zero b", 233000, 0, 0},
		{"both zero", 0, 0, 0},
		{"negative", -5, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DurationSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("DurationSimilarity(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("DurationSimilarity(%d, %d) = %v, out of [0,1]", tt.a, tt.b, got)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	track := TrackRecord{TrackID: "t1"}
	if got := track.Key(); got != "spotify:t1" {
		t.Errorf("track key = %q", got)
	}
	video := VideoRecord{VideoID: "v1", RegionCode: "us"}
	if got := video.Key(); got != "youtube:v1:us" {
		t.Errorf("video key = %q", got)
	}
	pair := MatchedPair{TrackID: "t1", VideoID: "v1"}
	if got := pair.Key(); got != "t1:v1" {
		t.Errorf("pair key = %q", got)
	}
	agg := RegionalAggregate{RegionCode: "us", Window: "2026-09-01"}
	if got := agg.Key(); got != "us:2026-09-01" {
		t.Errorf("aggregate key = %q", got)
	}
}

func TestCategorizeConfidence(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.95, "very_strong"},
		{0.9, "very_strong"},
		{0.75, "strong"},
		{0.5, "moderate"},
		{0.35, "weak"},
		{0.1, "very_weak"},
	}
	for _, tt := range tests {
		if got := CategorizeConfidence(tt.confidence); got != tt.want {
			t.Errorf("CategorizeConfidence(%v) = %q, want %q", tt.confidence, got, tt.want)
		}
	}
}

func TestCategorizeViews(t *testing.T) {
	tests := []struct {
		views int64
		want  string
	}{
		{5_000_000_000, "viral"},
		{2_000_000, "very_popular"},
		{150_000, "popular"},
		{20_000, "moderate"},
		{500, "low"},
	}
	for _, tt := range tests {
		if got := CategorizeViews(tt.views); got != tt.want {
			t.Errorf("CategorizeViews(%d) = %q, want %q", tt.views, got, tt.want)
		}
	}
}
