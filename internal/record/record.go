package record

import "fmt"

// Platform identifiers for the two catalog sources.
const (
	PlatformSpotify = "spotify"
	PlatformYouTube = "youtube"
)

// UnknownRegion is the sentinel substituted when a video carries no region code.
const UnknownRegion = "unknown"

// RawTrack is a track record as handed over by the extraction boundary.
// Field contents are unvalidated; the normalizer owns validation.
type RawTrack struct {
	ID            string             `json:"track_id"`
	Title         string             `json:"name"`
	Artist        string             `json:"artist_name"`
	Album         string             `json:"album_name"`
	Popularity    int                `json:"popularity"`
	DurationMS    int64              `json:"duration_ms"`
	ReleaseDate   string             `json:"release_date"`
	AudioFeatures map[string]float64 `json:"audio_features"`
}

// RawVideo is a video record as handed over by the extraction boundary.
// Duration may be ISO-8601 ("PT3M55S") or a plain integer second count.
type RawVideo struct {
	ID           string `json:"video_id"`
	Title        string `json:"title"`
	Channel      string `json:"channel_title"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	PublishedAt  string `json:"published_at"`
	Duration     string `json:"duration"`
	Category     string `json:"category_id"`
	RegionCode   string `json:"source_region"`
}

// AudioFeatures holds the bounded audio-feature values for a track.
// All values are clamped into [0,1] except Tempo, which is BPM in [0,300].
type AudioFeatures struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
}

// TrackRecord is a normalized Spotify track. MatchTitle and MatchArtist carry
// the normalized-for-matching text variants; Title and Artist keep the cleaned
// display forms.
type TrackRecord struct {
	TrackID            string        `json:"track_id"`
	Title              string        `json:"title"`
	Artist             string        `json:"artist"`
	Album              string        `json:"album"`
	MatchTitle         string        `json:"match_title"`
	MatchArtist        string        `json:"match_artist"`
	Popularity         int           `json:"popularity"`
	DurationMS         int64         `json:"duration_ms"`
	ReleaseDate        string        `json:"release_date"`
	Features           AudioFeatures `json:"features"`
	PopularityCategory string        `json:"popularity_category"`
	DurationCategory   string        `json:"duration_category"`
}

// Key returns the track's identity key.
func (t TrackRecord) Key() string {
	return fmt.Sprintf("%s:%s", PlatformSpotify, t.TrackID)
}

// VideoRecord is a normalized YouTube video. The same video may appear under
// multiple regions with distinct trending ranks, so the identity key includes
// the region code.
type VideoRecord struct {
	VideoID          string  `json:"video_id"`
	Title            string  `json:"title"`
	Channel          string  `json:"channel"`
	MatchTitle       string  `json:"match_title"`
	MatchChannel     string  `json:"match_channel"`
	ViewCount        int64   `json:"view_count"`
	LikeCount        int64   `json:"like_count"`
	CommentCount     int64   `json:"comment_count"`
	PublishedAt      string  `json:"published_at"`
	DurationMS       int64   `json:"duration_ms"`
	Category         string  `json:"category"`
	RegionCode       string  `json:"region_code"`
	LikeRate         float64 `json:"like_rate"`
	CommentRate      float64 `json:"comment_rate"`
	EngagementRate   float64 `json:"engagement_rate"`
	EngagementScore  float64 `json:"engagement_score"`
	ViewCategory     string  `json:"view_category"`
	DurationCategory string  `json:"duration_category"`
}

// Key returns the video's identity key.
func (v VideoRecord) Key() string {
	return fmt.Sprintf("%s:%s:%s", PlatformYouTube, v.VideoID, v.RegionCode)
}

// MatchedPair links one track to its best video candidate for a run.
// At most one pair exists per track; a video may serve several tracks.
type MatchedPair struct {
	TrackID       string  `json:"track_id"`
	VideoID       string  `json:"video_id"`
	RegionCode    string  `json:"region_code"`
	Confidence    float64 `json:"confidence"`
	TextScore     float64 `json:"text_score"`
	DurationScore float64 `json:"duration_score"`
	ArtistScore   float64 `json:"artist_score"`
	Strength      string  `json:"strength"`
}

// Key returns the pair's identity key.
func (p MatchedPair) Key() string {
	return fmt.Sprintf("%s:%s", p.TrackID, p.VideoID)
}

// DerivedMetrics carries the cross-platform metrics computed for a matched
// pair. It is always derivable from the pair and its records, never
// independently authoritative.
type DerivedMetrics struct {
	TrackID             string  `json:"track_id"`
	VideoID             string  `json:"video_id"`
	ViewPopularityRatio float64 `json:"view_popularity_ratio"`
	CrossPlatformScore  float64 `json:"cross_platform_score"`
	PlatformConsistency float64 `json:"platform_consistency"`
	MatchConfidence     float64 `json:"match_confidence"`
}

// Key returns the metrics document's identity key.
func (m DerivedMetrics) Key() string {
	return fmt.Sprintf("%s:%s", m.TrackID, m.VideoID)
}

// RankedRef is a reference entry in a top-N ranking.
type RankedRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Value int64  `json:"value"`
}

// RegionalAggregate is the per-region rollup for one aggregation window.
// Recomputed wholesale each run.
type RegionalAggregate struct {
	RegionCode         string      `json:"region_code"`
	Window             string      `json:"window"`
	VideoCount         int         `json:"video_count"`
	TotalViews         int64       `json:"total_views"`
	TotalLikes         int64       `json:"total_likes"`
	TotalComments      int64       `json:"total_comments"`
	MatchedTrackCount  int         `json:"matched_track_count"`
	AvgTrackPopularity float64     `json:"avg_track_popularity"`
	AvgViewsPerVideo   float64     `json:"avg_views_per_video"`
	AvgEngagementRate  float64     `json:"avg_engagement_rate"`
	TopTracks          []RankedRef `json:"top_tracks"`
	TopVideos          []RankedRef `json:"top_videos"`
}

// Key returns the aggregate's identity key.
func (a RegionalAggregate) Key() string {
	return fmt.Sprintf("%s:%s", a.RegionCode, a.Window)
}

// DurationSimilarity scores how close two durations are on [0,1]:
// 1 - |a-b| / max(a,b). Non-positive maxima score 0 so a zero-duration record
// still yields a finite, non-negative value.
func DurationSimilarity(a, b int64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	maxDur := a
	if b > maxDur {
		maxDur = b
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return 1 - float64(diff)/float64(maxDur)
}
