// Package logger builds the process-wide structured logger on top of log/slog.
//
// Informational records go to standard output and error records go to
// standard error, so operators can separate the two streams.
package logger
