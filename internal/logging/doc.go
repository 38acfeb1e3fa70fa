// Package logging constructs the process-wide slog logger and provides
// attribute helpers with standardized field keys.
//
// Components receive a *slog.Logger at construction and fall back to the no-op
// logger when given nil, so library code never checks for a logger before
// emitting events.
package logging
