package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if c.Matching.Threshold < 0 || c.Matching.Threshold > 1 {
		problems = append(problems, fmt.Sprintf("matching.threshold must be in [0,1], got %v", c.Matching.Threshold))
	}
	if c.Matching.TextWeight < 0 || c.Matching.DurationWeight < 0 || c.Matching.ArtistWeight < 0 {
		problems = append(problems, "matching weights must be non-negative")
	}
	if c.Matching.TextWeight+c.Matching.DurationWeight+c.Matching.ArtistWeight == 0 {
		problems = append(problems, "matching weights must not all be zero")
	}
	if c.Metrics.PopularityWeight < 0 || c.Metrics.ViewsWeight < 0 || c.Metrics.ConfidenceWeight < 0 {
		problems = append(problems, "metrics weights must be non-negative")
	}
	if c.Metrics.PopularityWeight+c.Metrics.ViewsWeight+c.Metrics.ConfidenceWeight == 0 {
		problems = append(problems, "metrics weights must not all be zero")
	}
	if c.Metrics.ViewCap <= 0 {
		problems = append(problems, fmt.Sprintf("metrics.view_cap must be positive, got %d", c.Metrics.ViewCap))
	}
	if c.Aggregation.TopN < 1 {
		problems = append(problems, fmt.Sprintf("aggregation.top_n must be at least 1, got %d", c.Aggregation.TopN))
	}
	if c.Load.BatchSize < 1 {
		problems = append(problems, fmt.Sprintf("load.batch_size must be at least 1, got %d", c.Load.BatchSize))
	}
	if c.Load.RetryLimit < 0 {
		problems = append(problems, fmt.Sprintf("load.retry_limit must not be negative, got %d", c.Load.RetryLimit))
	}
	if c.Load.RetryBackoffMS < 0 {
		problems = append(problems, fmt.Sprintf("load.retry_backoff_ms must not be negative, got %d", c.Load.RetryBackoffMS))
	}
	if c.Load.MaxConcurrentBatches < 1 {
		problems = append(problems, fmt.Sprintf("load.max_concurrent_batches must be at least 1, got %d", c.Load.MaxConcurrentBatches))
	}
	if c.Load.BatchTimeoutSeconds < 1 {
		problems = append(problems, fmt.Sprintf("load.batch_timeout_seconds must be at least 1, got %d", c.Load.BatchTimeoutSeconds))
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be text or json, got %q", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
