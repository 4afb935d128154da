// Package rule provides the closed set of handler kinds routed by the service:
//
//   - max: accepts requests whose amount is at most a limit
//   - range: accepts requests whose amount falls inside an inclusive range
//   - any: accepts every request, used as an explicit catch-all
//
// Every rule approves on behalf of a named approver and logs the approval once.
// Requests that no rule accepts produce no log line.
package rule
