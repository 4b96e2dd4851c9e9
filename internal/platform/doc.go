// Package platform exposes static facts about the host that the rest of the
// module depends on, currently the memory page size, together with the
// mask-based alignment helpers used to round ranges to page boundaries.
//
// Values are queried lazily on first use and cached for the lifetime of the
// process. They cannot change at runtime, so there is nothing to tear down.
package platform
