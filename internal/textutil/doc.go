// Package textutil provides the text processing primitives used for
// cross-platform matching.
//
// The primary use cases are:
//   - Creating token-based fingerprints from titles, artists, and channels
//   - Computing cosine similarity between fingerprints as a token-overlap score
//   - Sanitizing free-form codes into lowercase tokens with an "unknown" fallback
//
// Fingerprints use term frequency vectors normalized for efficient comparison.
// Tokenization lowercases text, splits on non-alphanumeric characters, and
// filters single-character tokens so short artist names survive.
package textutil
