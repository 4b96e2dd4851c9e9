// Package resource enforces process-wide budgets around native I/O.
//
// A Controller governs three resources:
//
//   - Mapped bytes: address space consumed by live memory mappings
//     (non-blocking reservation, fail-fast)
//   - Background slots: concurrent background jobs such as cache warming
//   - IO bandwidth: a token bucket for throttled reads and writes
//
// A nil *Controller is valid and imposes no limits.
package resource
