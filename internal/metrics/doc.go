// Package metrics derives cross-platform metrics for matched pairs.
//
// Every output is finite: denominators floor at 1, views are log-scaled
// against a configured reference cap, and the remaining scores are bounded to
// [0,1]. The view/popularity ratio is unbounded above but never negative.
package metrics
