package codec

import "io"

// IO is the embedder-supplied random-access byte source backing a parsed
// container: a file, an in-memory buffer, or a partially buffered network
// stream. Decoder.Parse reads the whole container through it with a single
// ReadExact call, so the source must be able to serve every byte at once.
type IO interface {
	// ReadExact returns exactly size bytes starting at offset, or an error.
	// A short read (fewer bytes available than size) must return
	// io.ErrUnexpectedEOF so callers can distinguish "not enough data yet"
	// from "permanently out of range" in incremental-read scenarios.
	ReadExact(offset uint64, size uint64) ([]byte, error)

	// Size returns the total known size of the source, or false if it is
	// not yet known (e.g. a growing file being written incrementally).
	Size() (uint64, bool)
}

// SliceIO adapts an in-memory byte slice to IO. It is the common case: the
// whole container has already been read into memory before decoding.
type SliceIO struct {
	Data []byte
}

// ReadExact implements IO.
func (s SliceIO) ReadExact(offset, size uint64) ([]byte, error) {
	if offset > uint64(len(s.Data)) {
		return nil, io.ErrUnexpectedEOF
	}
	end := offset + size
	if end < offset || end > uint64(len(s.Data)) {
		return nil, io.ErrUnexpectedEOF
	}
	return s.Data[offset:end], nil
}

// Size implements IO.
func (s SliceIO) Size() (uint64, bool) { return uint64(len(s.Data)), true }
