// Package store persists the pipeline's document families in SQLite.
//
// Every write is an upsert keyed by the document's natural identity, so
// re-running a load with identical input leaves the store unchanged apart from
// timestamps. The Loader groups writes into batches with bounded concurrency,
// a per-batch timeout, and a bounded per-document retry policy; a single
// document failure never aborts its batch.
package store
