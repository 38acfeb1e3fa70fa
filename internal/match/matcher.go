package match

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"chartsync/internal/config"
	"chartsync/internal/logging"
	"chartsync/internal/record"
	"chartsync/internal/textutil"
)

// Matcher scores tracks against the video candidate set for a batch.
type Matcher struct {
	threshold      float64
	textWeight     float64
	durationWeight float64
	artistWeight   float64
	blocking       bool
	logger         *slog.Logger
}

// New constructs a Matcher from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Matcher {
	return &Matcher{
		threshold:      cfg.Matching.Threshold,
		textWeight:     cfg.Matching.TextWeight,
		durationWeight: cfg.Matching.DurationWeight,
		artistWeight:   cfg.Matching.ArtistWeight,
		blocking:       cfg.Matching.Blocking,
		logger:         logging.NewComponentLogger(logger, "matcher"),
	}
}

// candidate is a video with its precomputed fingerprints.
type candidate struct {
	video  *record.VideoRecord
	textFP *textutil.Fingerprint
	chanFP *textutil.Fingerprint
}

// Match returns the matched pairs for the batch, one at most per track,
// ordered by track input order. Tracks without a candidate at or above the
// threshold produce no pair.
func (m *Matcher) Match(ctx context.Context, tracks []record.TrackRecord, videos []record.VideoRecord) []record.MatchedPair {
	if len(tracks) == 0 || len(videos) == 0 {
		return nil
	}

	candidates := make([]candidate, len(videos))
	for i := range videos {
		v := &videos[i]
		candidates[i] = candidate{
			video:  v,
			textFP: textutil.NewFingerprint(v.MatchTitle + " " + v.MatchChannel),
			chanFP: textutil.NewFingerprint(v.MatchChannel),
		}
	}

	var index *blockIndex
	if m.blocking {
		index = buildBlockIndex(candidates)
	}

	results := make([]*record.MatchedPair, len(tracks))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(tracks) {
		workers = len(tracks)
	}
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = m.matchTrack(&tracks[i], candidates, index)
			}
		}()
	}

	for i := range tracks {
		if ctx.Err() != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	pairs := make([]record.MatchedPair, 0, len(tracks))
	for _, pair := range results {
		if pair != nil {
			pairs = append(pairs, *pair)
		}
	}

	m.logger.Info("matching complete",
		logging.Int("tracks", len(tracks)),
		logging.Int("videos", len(videos)),
		logging.Int("matched", len(pairs)),
		logging.Int("unmatched", len(tracks)-len(pairs)))

	return pairs
}

// matchTrack scores one track against its candidate set and returns the best
// pair at or above the threshold, or nil when the track stays unmatched.
func (m *Matcher) matchTrack(track *record.TrackRecord, candidates []candidate, index *blockIndex) *record.MatchedPair {
	trackText := textutil.NewFingerprint(track.MatchTitle + " " + track.MatchArtist)
	artistFP := textutil.NewFingerprint(track.MatchArtist)

	pool := candidates
	var scratch []int
	if index != nil {
		scratch = index.candidatesFor(trackText)
	}

	var (
		best      *candidate
		bestPair  record.MatchedPair
		haveMatch bool
	)

	consider := func(c *candidate) {
		textScore := textutil.CosineSimilarity(trackText, c.textFP)
		durationScore := record.DurationSimilarity(track.DurationMS, c.video.DurationMS)
		artistScore := textutil.CosineSimilarity(artistFP, c.chanFP)
		confidence := m.textWeight*textScore + m.durationWeight*durationScore + m.artistWeight*artistScore

		if haveMatch {
			switch {
			case confidence < bestPair.Confidence:
				return
			case confidence == bestPair.Confidence:
				if c.video.ViewCount < best.video.ViewCount {
					return
				}
				if c.video.ViewCount == best.video.ViewCount && c.video.VideoID >= best.video.VideoID {
					return
				}
			}
		}
		best = c
		bestPair = record.MatchedPair{
			TrackID:       track.TrackID,
			VideoID:       c.video.VideoID,
			RegionCode:    c.video.RegionCode,
			Confidence:    confidence,
			TextScore:     textScore,
			DurationScore: durationScore,
			ArtistScore:   artistScore,
		}
		haveMatch = true
	}

	if index != nil {
		for _, i := range scratch {
			consider(&pool[i])
		}
	} else {
		for i := range pool {
			consider(&pool[i])
		}
	}

	if !haveMatch || bestPair.Confidence < m.threshold {
		return nil
	}
	bestPair.Strength = record.CategorizeConfidence(bestPair.Confidence)
	return &bestPair
}
