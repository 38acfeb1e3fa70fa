package record

// CategorizePopularity buckets a Spotify popularity score.
func CategorizePopularity(popularity int) string {
	switch {
	case popularity >= 80:
		return "very_high"
	case popularity >= 60:
		return "high"
	case popularity >= 40:
		return "medium"
	case popularity >= 20:
		return "low"
	default:
		return "very_low"
	}
}

// CategorizeDuration buckets a duration in milliseconds.
func CategorizeDuration(durationMS int64) string {
	seconds := durationMS / 1000
	switch {
	case seconds < 60:
		return "very_short"
	case seconds < 180:
		return "short"
	case seconds < 300:
		return "medium"
	case seconds < 600:
		return "long"
	default:
		return "very_long"
	}
}

// CategorizeViews buckets a YouTube view count.
func CategorizeViews(views int64) string {
	switch {
	case views >= 10_000_000:
		return "viral"
	case views >= 1_000_000:
		return "very_popular"
	case views >= 100_000:
		return "popular"
	case views >= 10_000:
		return "moderate"
	default:
		return "low"
	}
}

// CategorizeConfidence buckets a match confidence into a correlation strength.
func CategorizeConfidence(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "very_strong"
	case confidence >= 0.7:
		return "strong"
	case confidence >= 0.5:
		return "moderate"
	case confidence >= 0.3:
		return "weak"
	default:
		return "very_weak"
	}
}
