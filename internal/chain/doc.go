// Package chain implements a chain-of-responsibility request router.
//
// A Chain owns an ordered list of handlers. Routing a request walks the list
// from the first handler to the last and stops at the first handler whose
// predicate accepts the request:
//
//	c, err := chain.Build(teamLead, projectManager, director)
//	if err != nil {
//		return err
//	}
//
//	res := c.Route(req)
//	if !res.Handled() {
//		// every handler declined; the caller decides what to do next
//	}
//
// Handler order is data: the same handlers in a different order can produce a
// different outcome. A request no handler accepts yields a Result in
// StateExhausted, never an error. Errors are only returned while a chain is
// being configured.
//
// A Chain is sealed by its first Route call. After that it is immutable and
// safe for concurrent use, provided the handlers' actions are.
package chain
