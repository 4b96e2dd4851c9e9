package platform

import (
	"os"
	"sync"
)

var pageSize = sync.OnceValue(os.Getpagesize)

// PageSize returns the memory page size of the host.
func PageSize() int {
	return pageSize()
}
