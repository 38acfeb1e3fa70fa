package normalize

import (
	"log/slog"
	"strings"

	"chartsync/internal/logging"
	"chartsync/internal/record"
	"chartsync/internal/services"
	"chartsync/internal/textutil"
)

// Normalizer converts raw extraction records into canonical records.
type Normalizer struct {
	logger *slog.Logger
}

// New constructs a Normalizer.
func New(logger *slog.Logger) *Normalizer {
	return &Normalizer{logger: logging.NewComponentLogger(logger, "normalizer")}
}

// Track normalizes a raw Spotify track.
func (n *Normalizer) Track(raw record.RawTrack) (record.TrackRecord, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return record.TrackRecord{}, services.Wrap(services.ErrValidation, "normalize", "track", "missing track id", nil)
	}
	title := CleanText(raw.Title)
	if title == "" {
		return record.TrackRecord{}, services.Wrap(services.ErrValidation, "normalize", "track "+id, "missing title", nil)
	}
	if raw.Popularity < 0 || raw.Popularity > 100 {
		return record.TrackRecord{}, services.Wrap(services.ErrValidation, "normalize", "track "+id, "popularity outside [0,100]", nil)
	}
	if raw.DurationMS < 0 {
		return record.TrackRecord{}, services.Wrap(services.ErrValidation, "normalize", "track "+id, "negative duration", nil)
	}

	artist := CleanText(raw.Artist)
	track := record.TrackRecord{
		TrackID:            id,
		Title:              title,
		Artist:             artist,
		Album:              CleanText(raw.Album),
		MatchTitle:         MatchText(title),
		MatchArtist:        MatchText(artist),
		Popularity:         raw.Popularity,
		DurationMS:         raw.DurationMS,
		ReleaseDate:        normalizeReleaseDate(raw.ReleaseDate),
		Features:           clampFeatures(raw.AudioFeatures),
		PopularityCategory: record.CategorizePopularity(raw.Popularity),
		DurationCategory:   record.CategorizeDuration(raw.DurationMS),
	}
	return track, nil
}

// Video normalizes a raw YouTube video.
func (n *Normalizer) Video(raw record.RawVideo) (record.VideoRecord, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return record.VideoRecord{}, services.Wrap(services.ErrValidation, "normalize", "video", "missing video id", nil)
	}
	title := CleanText(raw.Title)
	if title == "" {
		return record.VideoRecord{}, services.Wrap(services.ErrValidation, "normalize", "video "+id, "missing title", nil)
	}
	if raw.ViewCount < 0 || raw.LikeCount < 0 || raw.CommentCount < 0 {
		return record.VideoRecord{}, services.Wrap(services.ErrValidation, "normalize", "video "+id, "negative engagement count", nil)
	}
	durationMS, err := ParseDurationMS(raw.Duration)
	if err != nil {
		return record.VideoRecord{}, services.Wrap(services.ErrValidation, "normalize", "video "+id, "bad duration", err)
	}

	channel := CleanText(raw.Channel)
	video := record.VideoRecord{
		VideoID:          id,
		Title:            title,
		Channel:          channel,
		MatchTitle:       MatchText(title),
		MatchChannel:     MatchText(channel),
		ViewCount:        raw.ViewCount,
		LikeCount:        raw.LikeCount,
		CommentCount:     raw.CommentCount,
		PublishedAt:      normalizeTimestamp(raw.PublishedAt),
		DurationMS:       durationMS,
		Category:         strings.TrimSpace(raw.Category),
		RegionCode:       textutil.SanitizeToken(raw.RegionCode),
		ViewCategory:     record.CategorizeViews(raw.ViewCount),
		DurationCategory: record.CategorizeDuration(durationMS),
	}
	applyEngagement(&video)
	return video, nil
}

// applyEngagement computes the per-video engagement metrics. A video with no
// views scores zero everywhere rather than dividing by zero.
func applyEngagement(v *record.VideoRecord) {
	if v.ViewCount <= 0 {
		v.LikeRate, v.CommentRate, v.EngagementRate, v.EngagementScore = 0, 0, 0, 0
		return
	}
	views := float64(v.ViewCount)
	v.LikeRate = float64(v.LikeCount) / views
	v.CommentRate = float64(v.CommentCount) / views
	v.EngagementRate = float64(v.LikeCount+v.CommentCount) / views
	v.EngagementScore = v.EngagementRate * 1000
	if v.EngagementScore > 100 {
		v.EngagementScore = 100
	}
}

func clampFeatures(features map[string]float64) record.AudioFeatures {
	f := record.AudioFeatures{
		Danceability:     clamp01(features["danceability"]),
		Energy:           clamp01(features["energy"]),
		Speechiness:      clamp01(features["speechiness"]),
		Acousticness:     clamp01(features["acousticness"]),
		Instrumentalness: clamp01(features["instrumentalness"]),
		Liveness:         clamp01(features["liveness"]),
		Valence:          clamp01(features["valence"]),
		Tempo:            clampRange(features["tempo"], 0, 300),
	}
	return f
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeReleaseDate pads partial release dates to YYYY-MM-DD.
func normalizeReleaseDate(date string) string {
	date = strings.TrimSpace(date)
	switch {
	case date == "":
		return ""
	case len(date) == 4:
		return date + "-01-01"
	case len(date) == 7:
		return date + "-01"
	case len(date) > 10:
		return date[:10]
	default:
		return date
	}
}

// normalizeTimestamp trims RFC 3339 timestamps to whole seconds without zone.
func normalizeTimestamp(ts string) string {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return ""
	}
	ts = strings.TrimSuffix(ts, "Z")
	if i := strings.IndexByte(ts, '.'); i >= 0 {
		ts = ts[:i]
	}
	return ts
}
