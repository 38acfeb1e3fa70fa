// Package ingest reads already-extracted raw catalog snapshots from the data
// directory. Extraction itself (API clients, quota handling) happens upstream;
// this boundary only decodes the JSON drops that extraction leaves behind.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"chartsync/internal/record"
	"chartsync/internal/services"
)

// Reader locates and decodes raw snapshot files under a data directory.
// Snapshots may be split across several files per platform, e.g. one video
// drop per trending region.
type Reader struct {
	dataDir string
}

// NewReader returns a Reader rooted at dataDir.
func NewReader(dataDir string) *Reader {
	return &Reader{dataDir: dataDir}
}

// Tracks decodes every tracks*.json drop, concatenated in file-name order.
func (r *Reader) Tracks() ([]record.RawTrack, error) {
	return readDrops[record.RawTrack](r.dataDir, "tracks*.json")
}

// Videos decodes every videos*.json drop, concatenated in file-name order.
func (r *Reader) Videos() ([]record.RawVideo, error) {
	return readDrops[record.RawVideo](r.dataDir, "videos*.json")
}

func readDrops[T any](dataDir, pattern string) ([]T, error) {
	paths, err := filepath.Glob(filepath.Join(dataDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "ingest", "read",
			fmt.Sprintf("no %s snapshots in %s", pattern, dataDir), os.ErrNotExist)
	}
	sort.Strings(paths)

	var out []T
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read snapshot %s: %w", path, err)
		}
		var batch []T
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, services.Wrap(services.ErrValidation, "ingest", "decode",
				fmt.Sprintf("malformed snapshot %s", filepath.Base(path)), err)
		}
		out = append(out, batch...)
	}
	return out, nil
}
