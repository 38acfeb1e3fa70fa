package store

import (
	"context"
	"encoding/json"
	"fmt"

	"chartsync/internal/record"
)

// UpsertTrack writes a normalized track, overwriting any prior document with
// the same track id. Reports whether the write inserted a new row.
func (s *Store) UpsertTrack(ctx context.Context, t record.TrackRecord) (bool, error) {
	featuresJSON, err := json.Marshal(t.Features)
	if err != nil {
		return false, fmt.Errorf("marshal features: %w", err)
	}
	return s.upsert(ctx,
		`SELECT COUNT(1) FROM tracks WHERE track_id = ?`, []any{t.TrackID},
		`INSERT INTO tracks (
            track_id, title, artist, album, match_title, match_artist,
            popularity, duration_ms, release_date, features_json,
            popularity_category, duration_category, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(track_id) DO UPDATE SET
            title = excluded.title,
            artist = excluded.artist,
            album = excluded.album,
            match_title = excluded.match_title,
            match_artist = excluded.match_artist,
            popularity = excluded.popularity,
            duration_ms = excluded.duration_ms,
            release_date = excluded.release_date,
            features_json = excluded.features_json,
            popularity_category = excluded.popularity_category,
            duration_category = excluded.duration_category,
            updated_at = excluded.updated_at`,
		[]any{
			t.TrackID, t.Title, t.Artist, t.Album, t.MatchTitle, t.MatchArtist,
			t.Popularity, t.DurationMS, t.ReleaseDate, string(featuresJSON),
			t.PopularityCategory, t.DurationCategory, timestamp(),
		})
}

// UpsertVideo writes a normalized video keyed by (video id, region code).
func (s *Store) UpsertVideo(ctx context.Context, v record.VideoRecord) (bool, error) {
	return s.upsert(ctx,
		`SELECT COUNT(1) FROM videos WHERE video_id = ? AND region_code = ?`,
		[]any{v.VideoID, v.RegionCode},
		`INSERT INTO videos (
            video_id, region_code, title, channel, match_title, match_channel,
            view_count, like_count, comment_count, published_at, duration_ms,
            category, like_rate, comment_rate, engagement_rate, engagement_score,
            view_category, duration_category, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(video_id, region_code) DO UPDATE SET
            title = excluded.title,
            channel = excluded.channel,
            match_title = excluded.match_title,
            match_channel = excluded.match_channel,
            view_count = excluded.view_count,
            like_count = excluded.like_count,
            comment_count = excluded.comment_count,
            published_at = excluded.published_at,
            duration_ms = excluded.duration_ms,
            category = excluded.category,
            like_rate = excluded.like_rate,
            comment_rate = excluded.comment_rate,
            engagement_rate = excluded.engagement_rate,
            engagement_score = excluded.engagement_score,
            view_category = excluded.view_category,
            duration_category = excluded.duration_category,
            updated_at = excluded.updated_at`,
		[]any{
			v.VideoID, v.RegionCode, v.Title, v.Channel, v.MatchTitle, v.MatchChannel,
			v.ViewCount, v.LikeCount, v.CommentCount, v.PublishedAt, v.DurationMS,
			v.Category, v.LikeRate, v.CommentRate, v.EngagementRate, v.EngagementScore,
			v.ViewCategory, v.DurationCategory, timestamp(),
		})
}

// UpsertPair writes a matched pair. The table keys on track id, which both
// enforces at-most-one pair per track and deduplicates the (track, video)
// identity: a rematch to a different video overwrites the old pair.
func (s *Store) UpsertPair(ctx context.Context, p record.MatchedPair) (bool, error) {
	return s.upsert(ctx,
		`SELECT COUNT(1) FROM matched_pairs WHERE track_id = ?`, []any{p.TrackID},
		`INSERT INTO matched_pairs (
            track_id, video_id, region_code, confidence,
            text_score, duration_score, artist_score, strength, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(track_id) DO UPDATE SET
            video_id = excluded.video_id,
            region_code = excluded.region_code,
            confidence = excluded.confidence,
            text_score = excluded.text_score,
            duration_score = excluded.duration_score,
            artist_score = excluded.artist_score,
            strength = excluded.strength,
            updated_at = excluded.updated_at`,
		[]any{
			p.TrackID, p.VideoID, p.RegionCode, p.Confidence,
			p.TextScore, p.DurationScore, p.ArtistScore, p.Strength, timestamp(),
		})
}

// UpsertMetrics writes a derived metrics document keyed by track id.
func (s *Store) UpsertMetrics(ctx context.Context, m record.DerivedMetrics) (bool, error) {
	return s.upsert(ctx,
		`SELECT COUNT(1) FROM derived_metrics WHERE track_id = ?`, []any{m.TrackID},
		`INSERT INTO derived_metrics (
            track_id, video_id, view_popularity_ratio, cross_platform_score,
            platform_consistency, match_confidence, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(track_id) DO UPDATE SET
            video_id = excluded.video_id,
            view_popularity_ratio = excluded.view_popularity_ratio,
            cross_platform_score = excluded.cross_platform_score,
            platform_consistency = excluded.platform_consistency,
            match_confidence = excluded.match_confidence,
            updated_at = excluded.updated_at`,
		[]any{
			m.TrackID, m.VideoID, m.ViewPopularityRatio, m.CrossPlatformScore,
			m.PlatformConsistency, m.MatchConfidence, timestamp(),
		})
}

// UpsertAggregate writes a regional aggregate keyed by (region, window).
func (s *Store) UpsertAggregate(ctx context.Context, a record.RegionalAggregate) (bool, error) {
	topTracksJSON, err := json.Marshal(a.TopTracks)
	if err != nil {
		return false, fmt.Errorf("marshal top tracks: %w", err)
	}
	topVideosJSON, err := json.Marshal(a.TopVideos)
	if err != nil {
		return false, fmt.Errorf("marshal top videos: %w", err)
	}
	return s.upsert(ctx,
		`SELECT COUNT(1) FROM regional_aggregates WHERE region_code = ? AND agg_window = ?`,
		[]any{a.RegionCode, a.Window},
		`INSERT INTO regional_aggregates (
            region_code, agg_window, video_count, total_views, total_likes,
            total_comments, matched_track_count, avg_track_popularity,
            avg_views_per_video, avg_engagement_rate, top_tracks_json,
            top_videos_json, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(region_code, agg_window) DO UPDATE SET
            video_count = excluded.video_count,
            total_views = excluded.total_views,
            total_likes = excluded.total_likes,
            total_comments = excluded.total_comments,
            matched_track_count = excluded.matched_track_count,
            avg_track_popularity = excluded.avg_track_popularity,
            avg_views_per_video = excluded.avg_views_per_video,
            avg_engagement_rate = excluded.avg_engagement_rate,
            top_tracks_json = excluded.top_tracks_json,
            top_videos_json = excluded.top_videos_json,
            updated_at = excluded.updated_at`,
		[]any{
			a.RegionCode, a.Window, a.VideoCount, a.TotalViews, a.TotalLikes,
			a.TotalComments, a.MatchedTrackCount, a.AvgTrackPopularity,
			a.AvgViewsPerVideo, a.AvgEngagementRate, string(topTracksJSON),
			string(topVideosJSON), timestamp(),
		})
}

// RecordLoadRun stores the load summary for one document family in a run.
func (s *Store) RecordLoadRun(ctx context.Context, runID, family string, outcome Outcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO load_runs (run_id, family, inserted, updated, failed, finished_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(run_id, family) DO UPDATE SET
            inserted = excluded.inserted,
            updated = excluded.updated,
            failed = excluded.failed,
            finished_at = excluded.finished_at`,
		runID, family, outcome.Inserted, outcome.Updated, outcome.Failed, timestamp())
	if err != nil {
		return fmt.Errorf("record load run: %w", err)
	}
	return nil
}
