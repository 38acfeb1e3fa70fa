package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"chartsync/internal/config"
	"chartsync/internal/logging"
	"chartsync/internal/record"
	"chartsync/internal/services"
)

// Outcome reports the result of loading one document family.
type Outcome struct {
	Inserted int
	Updated  int
	Failed   int
}

// Total returns the number of documents the load attempted.
func (o Outcome) Total() int {
	return o.Inserted + o.Updated + o.Failed
}

func (o *Outcome) merge(other Outcome) {
	o.Inserted += other.Inserted
	o.Updated += other.Updated
	o.Failed += other.Failed
}

// Loader persists document families with batching, bounded retry, bounded
// concurrency across batches, and a per-batch timeout. A document that still
// fails after the retry budget is logged and skipped; its batch continues.
type Loader struct {
	store         *Store
	batchSize     int
	retryLimit    int
	backoff       time.Duration
	maxConcurrent int
	batchTimeout  time.Duration
	logger        *slog.Logger
}

// NewLoader constructs a Loader from configuration.
func NewLoader(cfg *config.Config, store *Store, logger *slog.Logger) *Loader {
	return &Loader{
		store:         store,
		batchSize:     cfg.Load.BatchSize,
		retryLimit:    cfg.Load.RetryLimit,
		backoff:       time.Duration(cfg.Load.RetryBackoffMS) * time.Millisecond,
		maxConcurrent: cfg.Load.MaxConcurrentBatches,
		batchTimeout:  time.Duration(cfg.Load.BatchTimeoutSeconds) * time.Second,
		logger:        logging.NewComponentLogger(logger, "loader"),
	}
}

// Tracks persists normalized tracks.
func (l *Loader) Tracks(ctx context.Context, tracks []record.TrackRecord) Outcome {
	return l.run(ctx, "tracks", len(tracks), func(ctx context.Context, i int) (bool, error) {
		return l.store.UpsertTrack(ctx, tracks[i])
	})
}

// Videos persists normalized videos.
func (l *Loader) Videos(ctx context.Context, videos []record.VideoRecord) Outcome {
	return l.run(ctx, "videos", len(videos), func(ctx context.Context, i int) (bool, error) {
		return l.store.UpsertVideo(ctx, videos[i])
	})
}

// Pairs persists matched pairs.
func (l *Loader) Pairs(ctx context.Context, pairs []record.MatchedPair) Outcome {
	return l.run(ctx, "matched_pairs", len(pairs), func(ctx context.Context, i int) (bool, error) {
		return l.store.UpsertPair(ctx, pairs[i])
	})
}

// Metrics persists derived metrics.
func (l *Loader) Metrics(ctx context.Context, metrics []record.DerivedMetrics) Outcome {
	return l.run(ctx, "derived_metrics", len(metrics), func(ctx context.Context, i int) (bool, error) {
		return l.store.UpsertMetrics(ctx, metrics[i])
	})
}

// Aggregates persists regional aggregates.
func (l *Loader) Aggregates(ctx context.Context, aggregates []record.RegionalAggregate) Outcome {
	return l.run(ctx, "regional_aggregates", len(aggregates), func(ctx context.Context, i int) (bool, error) {
		return l.store.UpsertAggregate(ctx, aggregates[i])
	})
}

// run splits total documents into batches and loads them with bounded
// concurrency. Batches never share identity keys within a family, so
// concurrent batches cannot contend on the same row.
func (l *Loader) run(ctx context.Context, family string, total int, upsert func(context.Context, int) (bool, error)) Outcome {
	if total == 0 {
		return Outcome{}
	}

	type batch struct{ start, end int }
	var batches []batch
	for start := 0; start < total; start += l.batchSize {
		end := start + l.batchSize
		if end > total {
			end = total
		}
		batches = append(batches, batch{start, end})
	}

	outcomes := make([]Outcome, len(batches))
	sem := make(chan struct{}, l.maxConcurrent)
	var wg sync.WaitGroup
	for bi, b := range batches {
		wg.Add(1)
		sem <- struct{}{}
		go func(bi, start, end int) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[bi] = l.runBatch(ctx, family, start, end, upsert)
		}(bi, b.start, b.end)
	}
	wg.Wait()

	var result Outcome
	for _, o := range outcomes {
		result.merge(o)
	}

	l.logger.Info("load complete",
		logging.String(logging.FieldFamily, family),
		logging.Int("inserted", result.Inserted),
		logging.Int("updated", result.Updated),
		logging.Int("failed", result.Failed))

	return result
}

// runBatch loads one batch under its own timeout. Documents that fail after
// retries are counted and skipped; a timed-out batch reports its remaining
// documents as failed rather than being silently dropped.
func (l *Loader) runBatch(ctx context.Context, family string, start, end int, upsert func(context.Context, int) (bool, error)) Outcome {
	batchCtx, cancel := context.WithTimeout(ctx, l.batchTimeout)
	defer cancel()

	var outcome Outcome
	for i := start; i < end; i++ {
		if batchCtx.Err() != nil {
			remaining := end - i
			outcome.Failed += remaining
			l.logger.Error("batch aborted, remaining documents failed",
				logging.String(logging.FieldFamily, family),
				logging.Int("remaining", remaining),
				logging.Error(services.Wrap(services.ErrTimeout, "load", family, "batch deadline exceeded", batchCtx.Err())))
			break
		}
		inserted, err := l.upsertWithRetry(batchCtx, i, upsert)
		switch {
		case err != nil:
			outcome.Failed++
			l.logger.Error("document load failed",
				logging.String(logging.FieldFamily, family),
				logging.Int("position", i),
				logging.Error(services.Wrap(services.ErrPersistence, "load", family, "upsert failed after retries", err)))
		case inserted:
			outcome.Inserted++
		default:
			outcome.Updated++
		}
	}
	return outcome
}

func (l *Loader) upsertWithRetry(ctx context.Context, i int, upsert func(context.Context, int) (bool, error)) (bool, error) {
	var lastErr error
	for attempt := 0; attempt <= l.retryLimit; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(l.backoff * time.Duration(attempt)):
			}
		}
		inserted, err := upsert(ctx, i)
		if err == nil {
			return inserted, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return false, lastErr
		}
	}
	return false, lastErr
}
