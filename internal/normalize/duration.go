package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var iso8601Pattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDurationMS converts a raw duration representation to milliseconds.
// ISO-8601 durations ("PT3M55S") and plain integers (already in milliseconds)
// are accepted; an empty value is zero. Negative values and unparseable text
// are rejected.
func ParseDurationMS(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	if strings.HasPrefix(raw, "PT") {
		groups := iso8601Pattern.FindStringSubmatch(raw)
		if groups == nil {
			return 0, fmt.Errorf("malformed ISO-8601 duration %q", raw)
		}
		var seconds int64
		for i, scale := range []int64{3600, 60, 1} {
			if groups[i+1] == "" {
				continue
			}
			v, err := strconv.ParseInt(groups[i+1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("malformed ISO-8601 duration %q: %w", raw, err)
			}
			seconds += v * scale
		}
		return seconds * 1000, nil
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed duration %q", raw)
	}
	if ms < 0 {
		return 0, fmt.Errorf("negative duration %q", raw)
	}
	return ms, nil
}
