package config

import "strings"

// normalize expands paths and rescales weight groups so each sums to 1.
// Normalization runs before validation so weight ratios survive any absolute
// values the user wrote.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return err
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if sum := c.Matching.TextWeight + c.Matching.DurationWeight + c.Matching.ArtistWeight; sum > 0 {
		c.Matching.TextWeight /= sum
		c.Matching.DurationWeight /= sum
		c.Matching.ArtistWeight /= sum
	}
	if sum := c.Metrics.PopularityWeight + c.Metrics.ViewsWeight + c.Metrics.ConfidenceWeight; sum > 0 {
		c.Metrics.PopularityWeight /= sum
		c.Metrics.ViewsWeight /= sum
		c.Metrics.ConfidenceWeight /= sum
	}

	return nil
}
