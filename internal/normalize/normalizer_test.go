package normalize

import (
	"errors"
	"strconv"
	"testing"

	"chartsync/internal/record"
	"chartsync/internal/services"
)

func rawTrackFixture() record.RawTrack {
	return record.RawTrack{
		ID:          "0tgVpDi06FyKpA1z0VMD4v",
		Title:       "Shape of You",
		Artist:      "Ed Sheeran",
		Album:       "÷ (Deluxe)",
		Popularity:  85,
		DurationMS:  233000,
		ReleaseDate: "2017-03-03",
		AudioFeatures: map[string]float64{
			"danceability": 0.825,
			"energy":       0.652,
			"valence":      0.931,
			"tempo":        95.977,
		},
	}
}

func rawVideoFixture() record.RawVideo {
	return record.RawVideo{
		ID:           "JGwWNGJdvx8",
		Title:        "Ed Sheeran - Shape of You (Official Music Video)",
		Channel:      "Ed Sheeran",
		ViewCount:    5_000_000_000,
		LikeCount:    31_000_000,
		CommentCount: 1_200_000,
		PublishedAt:  "2017-01-30T10:00:00.000Z",
		Duration:     "PT3M55S",
		Category:     "10",
		RegionCode:   "US",
	}
}

func TestTrackNormalization(t *testing.T) {
	n := New(nil)
	track, err := n.Track(rawTrackFixture())
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if track.MatchTitle != "shape of you" {
		t.Errorf("MatchTitle = %q", track.MatchTitle)
	}
	if track.MatchArtist != "ed sheeran" {
		t.Errorf("MatchArtist = %q", track.MatchArtist)
	}
	if track.PopularityCategory != "very_high" {
		t.Errorf("PopularityCategory = %q", track.PopularityCategory)
	}
	if track.Features.Danceability != 0.825 {
		t.Errorf("Danceability = %v", track.Features.Danceability)
	}
}

func TestTrackValidation(t *testing.T) {
	n := New(nil)
	tests := []struct {
		name   string
		mutate func(*record.RawTrack)
	}{
		{"missing id", func(r *record.RawTrack) { r.ID = " " }},
		{"missing title", func(r *record.RawTrack) { r.Title = "" }},
		{"popularity above 100", func(r *record.RawTrack) { r.Popularity = 101 }},
		{"negative popularity", func(r *record.RawTrack) { r.Popularity = -1 }},
		{"negative duration", func(r *record.RawTrack) { r.DurationMS = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawTrackFixture()
			tt.mutate(&raw)
			_, err := n.Track(raw)
			if !errors.Is(err, services.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestVideoNormalization(t *testing.T) {
	n := New(nil)
	video, err := n.Video(rawVideoFixture())
	if err != nil {
		t.Fatalf("Video: %v", err)
	}
	if video.DurationMS != 235000 {
		t.Errorf("DurationMS = %d, want 235000", video.DurationMS)
	}
	if video.MatchTitle != "ed sheeran shape of you" {
		t.Errorf("MatchTitle = %q", video.MatchTitle)
	}
	if video.RegionCode != "us" {
		t.Errorf("RegionCode = %q", video.RegionCode)
	}
	if video.PublishedAt != "2017-01-30T10:00:00" {
		t.Errorf("PublishedAt = %q", video.PublishedAt)
	}
	if video.EngagementRate <= 0 {
		t.Errorf("EngagementRate = %v, want positive", video.EngagementRate)
	}
	if video.ViewCategory != "viral" {
		t.Errorf("ViewCategory = %q", video.ViewCategory)
	}
}

func TestVideoMissingRegionGetsSentinel(t *testing.T) {
	n := New(nil)
	raw := rawVideoFixture()
	raw.RegionCode = ""
	video, err := n.Video(raw)
	if err != nil {
		t.Fatalf("Video: %v", err)
	}
	if video.RegionCode != record.UnknownRegion {
		t.Errorf("RegionCode = %q, want %q", video.RegionCode, record.UnknownRegion)
	}
}

func TestVideoValidation(t *testing.T) {
	n := New(nil)
	tests := []struct {
		name   string
		mutate func(*record.RawVideo)
	}{
		{"missing id", func(r *record.RawVideo) { r.ID = "" }},
		{"missing title", func(r *record.RawVideo) { r.Title = "  " }},
		{"negative views", func(r *record.RawVideo) { r.ViewCount = -1 }},
		{"negative likes", func(r *record.RawVideo) { r.LikeCount = -1 }},
		{"bad duration", func(r *record.RawVideo) { r.Duration = "three minutes" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawVideoFixture()
			tt.mutate(&raw)
			_, err := n.Video(raw)
			if !errors.Is(err, services.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestTrackNormalizationIdempotent(t *testing.T) {
	n := New(nil)
	once, err := n.Track(rawTrackFixture())
	if err != nil {
		t.Fatalf("Track: %v", err)
	}

	roundTrip := record.RawTrack{
		ID:          once.TrackID,
		Title:       once.Title,
		Artist:      once.Artist,
		Album:       once.Album,
		Popularity:  once.Popularity,
		DurationMS:  once.DurationMS,
		ReleaseDate: once.ReleaseDate,
		AudioFeatures: map[string]float64{
			"danceability":     once.Features.Danceability,
			"energy":           once.Features.Energy,
			"speechiness":      once.Features.Speechiness,
			"acousticness":     once.Features.Acousticness,
			"instrumentalness": once.Features.Instrumentalness,
			"liveness":         once.Features.Liveness,
			"valence":          once.Features.Valence,
			"tempo":            once.Features.Tempo,
		},
	}
	twice, err := n.Track(roundTrip)
	if err != nil {
		t.Fatalf("Track (second pass): %v", err)
	}
	if once != twice {
		t.Errorf("normalization not idempotent:\n once: %+v\ntwice: %+v", once, twice)
	}
}

func TestVideoNormalizationIdempotent(t *testing.T) {
	n := New(nil)
	once, err := n.Video(rawVideoFixture())
	if err != nil {
		t.Fatalf("Video: %v", err)
	}

	roundTrip := record.RawVideo{
		ID:           once.VideoID,
		Title:        once.Title,
		Channel:      once.Channel,
		ViewCount:    once.ViewCount,
		LikeCount:    once.LikeCount,
		CommentCount: once.CommentCount,
		PublishedAt:  once.PublishedAt,
		Duration:     strconv.FormatInt(once.DurationMS, 10),
		Category:     once.Category,
		RegionCode:   once.RegionCode,
	}
	twice, err := n.Video(roundTrip)
	if err != nil {
		t.Fatalf("Video (second pass): %v", err)
	}
	if once != twice {
		t.Errorf("normalization not idempotent:\n once: %+v\ntwice: %+v", once, twice)
	}
}

func TestFeatureClamping(t *testing.T) {
	n := New(nil)
	raw := rawTrackFixture()
	raw.AudioFeatures = map[string]float64{
		"danceability": 1.2,
		"energy":       -0.3,
		"tempo":        500,
	}
	track, err := n.Track(raw)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if track.Features.Danceability != 1 {
		t.Errorf("Danceability = %v, want clamped to 1", track.Features.Danceability)
	}
	if track.Features.Energy != 0 {
		t.Errorf("Energy = %v, want clamped to 0", track.Features.Energy)
	}
	if track.Features.Tempo != 300 {
		t.Errorf("Tempo = %v, want clamped to 300", track.Features.Tempo)
	}
}

func TestMatchTextStripsFeaturingAndParentheticals(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Shape of You (feat. Someone)", "shape of you"},
		{"Despacito ft. Justin Bieber", "despacito"},
		{"Perfect Duet (Official Video)", "perfect duet"},
		{"Señorita", "senorita"},
		{"HUMBLE. [Official Audio]", "humble"},
		{"soft rock anthem", "soft rock anthem"},
	}
	for _, tt := range tests {
		if got := MatchText(tt.in); got != tt.want {
			t.Errorf("MatchText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDurationMS(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"PT3M55S", 235000, false},
		{"PT1H2M3S", 3723000, false},
		{"PT45S", 45000, false},
		{"233000", 233000, false},
		{"", 0, false},
		{"PTXS", 0, true},
		{"-100", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDurationMS(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDurationMS(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDurationMS(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
