package config

const (
	defaultDataDir      = "~/.local/share/chartsync/data"
	defaultLogDir       = "~/.local/share/chartsync/logs"
	defaultDatabasePath = "~/.local/share/chartsync/chartsync.db"

	defaultMatchThreshold = 0.5
	defaultTextWeight     = 0.5
	defaultDurationWeight = 0.3
	defaultArtistWeight   = 0.2

	defaultViewCap = int64(10_000_000_000)

	defaultTopN = 10

	defaultBatchSize            = 500
	defaultRetryLimit           = 3
	defaultRetryBackoffMS       = 250
	defaultMaxConcurrentBatches = 4
	defaultBatchTimeoutSeconds  = 30

	defaultLogFormat = "text"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			LogDir:       defaultLogDir,
			DatabasePath: defaultDatabasePath,
		},
		Matching: Matching{
			Threshold:      defaultMatchThreshold,
			TextWeight:     defaultTextWeight,
			DurationWeight: defaultDurationWeight,
			ArtistWeight:   defaultArtistWeight,
			Blocking:       true,
		},
		Metrics: Metrics{
			PopularityWeight: 1.0 / 3,
			ViewsWeight:      1.0 / 3,
			ConfidenceWeight: 1.0 / 3,
			ViewCap:          defaultViewCap,
		},
		Aggregation: Aggregation{
			TopN: defaultTopN,
		},
		Load: Load{
			BatchSize:            defaultBatchSize,
			RetryLimit:           defaultRetryLimit,
			RetryBackoffMS:       defaultRetryBackoffMS,
			MaxConcurrentBatches: defaultMaxConcurrentBatches,
			BatchTimeoutSeconds:  defaultBatchTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
