package nativeio

import "time"

// Advise issues file-level advice for [offset, offset+length) of the file.
// A length of 0 means "to the end of the file".
//
// Advice is a hint: the kernel may ignore it, and advice it ignores (such as
// FileNoReuse on Linux) still reports success. Unknown advice codes fail
// with KindInvalidArgument without reaching the OS.
func (h *Handle) Advise(offset, length int64, advice FileAdvice) error {
	const op = "fadvise"
	fd, err := h.fdFor(op)
	if err != nil {
		return err
	}
	if offset < 0 || length < 0 {
		return invalidArgument(op, h.path, "negative range [offset=%d length=%d]", offset, length)
	}
	osAdvice, ok := advice.sysValue()
	if !ok {
		return invalidArgument(op, h.path, "unsupported file advice %d", int(advice))
	}

	start := time.Now()
	err = h.fs.sys.Fadvise(fd, offset, length, osAdvice)
	if err != nil {
		err = ioError(op, h.path, err)
	}
	h.fs.metrics.RecordAdvise("file", time.Since(start), err)
	h.fs.logger.LogAdvise(bg, "file", h.path, advice.String(), offset, length, err)
	return err
}

// Fadvise issues file-level advice for a range of h. It is equivalent to
// h.Advise and exists so advice can be issued through the FS that opened h.
func (fs *FS) Fadvise(h *Handle, offset, length int64, advice FileAdvice) error {
	return h.Advise(offset, length, advice)
}
