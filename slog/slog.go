// Package slog decorates readlater services with structured logging.
// Each decorator logs one record per call, after the call returns.
package slog
