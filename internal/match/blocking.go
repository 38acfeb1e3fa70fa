package match

import (
	"sort"

	"chartsync/internal/textutil"
)

// blockIndex maps candidate tokens to video positions so a track only scores
// against videos sharing at least one token. With the confidence threshold
// above the duration weight, a pair sharing no token can never reach the
// threshold, so the pre-filter does not change which pairs are emitted.
type blockIndex struct {
	byToken map[string][]int
}

func buildBlockIndex(candidates []candidate) *blockIndex {
	index := &blockIndex{byToken: make(map[string][]int)}
	for i := range candidates {
		for _, token := range candidates[i].textFP.Tokens() {
			index.byToken[token] = append(index.byToken[token], i)
		}
	}
	return index
}

// candidatesFor returns the sorted, deduplicated candidate positions sharing a
// token with the track fingerprint. Sorting keeps scoring order deterministic.
func (b *blockIndex) candidatesFor(trackFP *textutil.Fingerprint) []int {
	if trackFP == nil {
		return nil
	}
	seen := make(map[int]struct{})
	for _, token := range trackFP.Tokens() {
		for _, i := range b.byToken[token] {
			seen[i] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
