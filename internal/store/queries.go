package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"chartsync/internal/record"
)

// FamilyCounts holds the stored document count per family.
type FamilyCounts struct {
	Tracks     int64
	Videos     int64
	Pairs      int64
	Metrics    int64
	Aggregates int64
}

// Counts returns the stored document count for each family.
func (s *Store) Counts(ctx context.Context) (FamilyCounts, error) {
	var counts FamilyCounts
	for _, q := range []struct {
		table string
		dest  *int64
	}{
		{"tracks", &counts.Tracks},
		{"videos", &counts.Videos},
		{"matched_pairs", &counts.Pairs},
		{"derived_metrics", &counts.Metrics},
		{"regional_aggregates", &counts.Aggregates},
	} {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+q.table).Scan(q.dest); err != nil {
			return FamilyCounts{}, fmt.Errorf("count %s: %w", q.table, err)
		}
	}
	return counts, nil
}

// CountForKey returns how many documents exist for a single track identity.
// Used to verify upsert idempotence.
func (s *Store) CountForKey(ctx context.Context, table, keyColumn, key string) (int64, error) {
	switch table {
	case "tracks", "matched_pairs", "derived_metrics":
	default:
		return 0, fmt.Errorf("unsupported table %q", table)
	}
	switch keyColumn {
	case "track_id":
	default:
		return 0, fmt.Errorf("unsupported key column %q", keyColumn)
	}
	var count int64
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE %s = ?", table, keyColumn), key).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count for key: %w", err)
	}
	return count, nil
}

// RegionCount holds the stored video count for one region.
type RegionCount struct {
	RegionCode string
	Videos     int64
}

// VideoCountsByRegion returns stored video counts grouped by region, ordered
// by region code.
func (s *Store) VideoCountsByRegion(ctx context.Context) ([]RegionCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT region_code, COUNT(1) FROM videos GROUP BY region_code ORDER BY region_code")
	if err != nil {
		return nil, fmt.Errorf("count videos by region: %w", err)
	}
	defer rows.Close()

	var out []RegionCount
	for rows.Next() {
		var rc RegionCount
		if err := rows.Scan(&rc.RegionCode, &rc.Videos); err != nil {
			return nil, fmt.Errorf("scan region count: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// PairByTrack fetches the stored matched pair for a track, or nil when the
// track is unmatched.
func (s *Store) PairByTrack(ctx context.Context, trackID string) (*record.MatchedPair, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT track_id, video_id, region_code, confidence,
                text_score, duration_score, artist_score, strength
         FROM matched_pairs WHERE track_id = ?`, trackID)
	var p record.MatchedPair
	err := row.Scan(&p.TrackID, &p.VideoID, &p.RegionCode, &p.Confidence,
		&p.TextScore, &p.DurationScore, &p.ArtistScore, &p.Strength)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pair: %w", err)
	}
	return &p, nil
}

// AggregatesByWindow returns the stored aggregates for one window, ordered by
// region code.
func (s *Store) AggregatesByWindow(ctx context.Context, window string) ([]record.RegionalAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT region_code, agg_window, video_count, total_views, total_likes,
                total_comments, matched_track_count, avg_track_popularity,
                avg_views_per_video, avg_engagement_rate, top_tracks_json, top_videos_json
         FROM regional_aggregates WHERE agg_window = ? ORDER BY region_code`, window)
	if err != nil {
		return nil, fmt.Errorf("query aggregates: %w", err)
	}
	defer rows.Close()

	var out []record.RegionalAggregate
	for rows.Next() {
		var a record.RegionalAggregate
		var topTracksJSON, topVideosJSON string
		if err := rows.Scan(&a.RegionCode, &a.Window, &a.VideoCount, &a.TotalViews,
			&a.TotalLikes, &a.TotalComments, &a.MatchedTrackCount, &a.AvgTrackPopularity,
			&a.AvgViewsPerVideo, &a.AvgEngagementRate, &topTracksJSON, &topVideosJSON); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		if err := json.Unmarshal([]byte(topTracksJSON), &a.TopTracks); err != nil {
			return nil, fmt.Errorf("decode top tracks: %w", err)
		}
		if err := json.Unmarshal([]byte(topVideosJSON), &a.TopVideos); err != nil {
			return nil, fmt.Errorf("decode top videos: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// LatestAggregates returns the aggregates from the most recent window, or nil
// when none exist.
func (s *Store) LatestAggregates(ctx context.Context) ([]record.RegionalAggregate, error) {
	var window string
	err := s.db.QueryRowContext(ctx,
		"SELECT agg_window FROM regional_aggregates ORDER BY agg_window DESC LIMIT 1").Scan(&window)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest window: %w", err)
	}
	return s.AggregatesByWindow(ctx, window)
}
