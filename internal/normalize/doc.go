// Package normalize standardizes raw track and video records into their
// canonical shapes.
//
// Normalization cleans display text, derives the normalized-for-matching text
// variants, converts durations to milliseconds, clamps audio features into
// their documented ranges, and substitutes the "unknown" region sentinel.
// Structurally malformed records fail with services.ErrValidation and are
// skipped by the pipeline. Normalization is idempotent: feeding a normalized
// record back through produces the same canonical record.
package normalize
