// Package aggregate computes per-region rollups from normalized records and
// matched pairs.
//
// Aggregation is a pure function of its inputs and is recomputed wholesale
// each run, one aggregate per distinct region code including the "unknown"
// sentinel. Video totals count every video in the region regardless of match
// status; track statistics only cover tracks with at least one matched video
// in the region.
package aggregate
