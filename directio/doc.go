// Package directio provides buffered streams over direct I/O handles.
//
// Direct I/O bypasses the page cache but only accepts aligned buffers,
// offsets and lengths. Writer and Reader hide the alignment: Writer
// accumulates writes in a page-aligned buffer and issues whole blocks, then
// trims the padding on Close; Reader serves arbitrary reads from aligned
// block reads.
package directio
