// Package httpserver wraps net/http with validated listen addresses,
// configurable timeouts and graceful shutdown.
package httpserver
