package aggregate

import (
	"log/slog"
	"sort"

	"chartsync/internal/config"
	"chartsync/internal/logging"
	"chartsync/internal/record"
)

// Aggregator builds regional rollups.
type Aggregator struct {
	topN   int
	logger *slog.Logger
}

// New constructs an Aggregator from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		topN:   cfg.Aggregation.TopN,
		logger: logging.NewComponentLogger(logger, "aggregator"),
	}
}

type regionState struct {
	videos        []*record.VideoRecord
	matchedTracks map[string]struct{}
}

// Build returns one aggregate per distinct region code in the input videos,
// sorted by region code for deterministic output. The window labels the
// aggregation run and is part of each aggregate's identity key.
func (a *Aggregator) Build(window string, tracks []record.TrackRecord, videos []record.VideoRecord, pairs []record.MatchedPair) []record.RegionalAggregate {
	trackByID := make(map[string]*record.TrackRecord, len(tracks))
	for i := range tracks {
		trackByID[tracks[i].TrackID] = &tracks[i]
	}

	regions := make(map[string]*regionState)
	for i := range videos {
		region := videos[i].RegionCode
		state := regions[region]
		if state == nil {
			state = &regionState{matchedTracks: make(map[string]struct{})}
			regions[region] = state
		}
		state.videos = append(state.videos, &videos[i])
	}

	for _, pair := range pairs {
		state := regions[pair.RegionCode]
		if state == nil {
			continue
		}
		if _, ok := trackByID[pair.TrackID]; ok {
			state.matchedTracks[pair.TrackID] = struct{}{}
		}
	}

	out := make([]record.RegionalAggregate, 0, len(regions))
	for region, state := range regions {
		out = append(out, a.buildRegion(region, window, state, trackByID))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegionCode < out[j].RegionCode })

	a.logger.Info("regional aggregation complete",
		logging.Int("regions", len(out)),
		logging.String("window", window))

	return out
}

func (a *Aggregator) buildRegion(region, window string, state *regionState, trackByID map[string]*record.TrackRecord) record.RegionalAggregate {
	agg := record.RegionalAggregate{
		RegionCode: region,
		Window:     window,
		VideoCount: len(state.videos),
	}

	for _, v := range state.videos {
		agg.TotalViews += v.ViewCount
		agg.TotalLikes += v.LikeCount
		agg.TotalComments += v.CommentCount
	}
	if agg.VideoCount > 0 {
		agg.AvgViewsPerVideo = float64(agg.TotalViews) / float64(agg.VideoCount)
	}
	if agg.TotalViews > 0 {
		agg.AvgEngagementRate = float64(agg.TotalLikes+agg.TotalComments) / float64(agg.TotalViews)
	}

	matched := make([]*record.TrackRecord, 0, len(state.matchedTracks))
	var popularitySum int
	for id := range state.matchedTracks {
		track := trackByID[id]
		matched = append(matched, track)
		popularitySum += track.Popularity
	}
	agg.MatchedTrackCount = len(matched)
	if len(matched) > 0 {
		agg.AvgTrackPopularity = float64(popularitySum) / float64(len(matched))
	}

	agg.TopVideos = topVideos(state.videos, a.topN)
	agg.TopTracks = topTracks(matched, a.topN)
	return agg
}

// topVideos ranks by view count descending, ties broken by identifier.
func topVideos(videos []*record.VideoRecord, n int) []record.RankedRef {
	ranked := make([]*record.VideoRecord, len(videos))
	copy(ranked, videos)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ViewCount != ranked[j].ViewCount {
			return ranked[i].ViewCount > ranked[j].ViewCount
		}
		return ranked[i].VideoID < ranked[j].VideoID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]record.RankedRef, len(ranked))
	for i, v := range ranked {
		out[i] = record.RankedRef{ID: v.VideoID, Title: v.Title, Value: v.ViewCount}
	}
	return out
}

// topTracks ranks matched tracks by popularity descending, ties broken by identifier.
func topTracks(tracks []*record.TrackRecord, n int) []record.RankedRef {
	ranked := make([]*record.TrackRecord, len(tracks))
	copy(ranked, tracks)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Popularity != ranked[j].Popularity {
			return ranked[i].Popularity > ranked[j].Popularity
		}
		return ranked[i].TrackID < ranked[j].TrackID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]record.RankedRef, len(ranked))
	for i, t := range ranked {
		out[i] = record.RankedRef{ID: t.TrackID, Title: t.Title, Value: int64(t.Popularity)}
	}
	return out
}
