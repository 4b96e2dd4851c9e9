package nativeio

// Region is a view of part of a Mapping. It does not own the memory; the
// parent Mapping does.
type Region struct {
	parent *Mapping
	offset int64
	size   int64
}

// Region creates a view of [offset, offset+size) of the mapping.
func (m *Mapping) Region(offset, size int64) (*Region, error) {
	if !m.live() {
		return nil, invalidHandle("region", m.Path())
	}
	if offset < 0 || size < 0 || size > m.length-offset {
		return nil, invalidArgument("region", m.Path(), "range [offset=%d size=%d] outside mapping of %d bytes", offset, size, m.length)
	}
	return &Region{
		parent: m,
		offset: offset,
		size:   size,
	}, nil
}

// Offset returns the region's offset within the mapping.
func (r *Region) Offset() int64 { return r.offset }

// Len returns the region's size in bytes.
func (r *Region) Len() int64 { return r.size }

// Bytes returns the region's memory, or nil once the parent is released.
func (r *Region) Bytes() []byte {
	data := r.parent.Bytes()
	if data == nil {
		return nil
	}
	return data[r.offset : r.offset+r.size]
}

// Advise issues memory-level advice for the region only.
func (r *Region) Advise(advice MemoryAdvice) error {
	return r.parent.Advise(r.offset, r.size, advice)
}
