// Package match finds the best video candidate for each normalized track.
//
// Each track is scored against candidate videos with a weighted combination of
// token-overlap text similarity, duration closeness, and artist/channel
// similarity. Ties break deterministically: higher view count first, then the
// lexicographically smaller video identifier. Matching is non-bijective: at
// most one pair is emitted per track, but a video may be the best candidate
// for several tracks. Tracks whose best candidate scores below the configured
// threshold stay unmatched, which is a normal outcome.
package match
