// Package record defines the document families flowing through the pipeline:
// raw extraction payloads, normalized track and video records, matched pairs,
// derived cross-platform metrics, and regional aggregates.
//
// Normalized records are immutable once produced; re-ingestion with the same
// identity key supersedes the stored document via upsert rather than mutating
// it in place.
package record
