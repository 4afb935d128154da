// Package handler implements the HTTP surface of the chain router.
// It decodes routing requests, hands them to the router and encodes the
// outcome, including the unhandled one, as JSON.
package handler
