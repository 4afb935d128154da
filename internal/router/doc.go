// Package router keeps the named chains served by the process and routes
// requests to them by name. It stamps request IDs and reports every routing
// pass to the metrics collector.
package router
