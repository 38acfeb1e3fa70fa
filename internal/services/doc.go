// Package services defines the shared error taxonomy for pipeline components.
//
// Components tag failures with sentinel errors so the pipeline can decide
// whether to skip a single record or surface a batch-level failure. A track
// with no match candidate above threshold is a normal outcome and has no
// sentinel here.
package services
