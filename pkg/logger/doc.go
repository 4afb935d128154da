// Package logger builds the structured slog logger shared by the service.
// Records carry the deployment environment, the level comes from config and
// the output format switches to JSON in production.
package logger
