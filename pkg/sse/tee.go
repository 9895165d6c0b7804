package sse

import "io"

// NewTeeReader returns a Reader that parses SSE events from src while copying
// every byte verbatim to dest as it is consumed.
//
// This enables "tee" shaped reading on the relay hot path: the downstream
// client receives the exact upstream bytes, while the relay inspects parsed
// events for logging and accounting. The dest writer typically backs an
// io.Pipe connected to the downstream HTTP response, so writes block until
// the client consumes them and backpressure propagates to the upstream read.
func NewTeeReader(src io.Reader, dest io.Writer) *Reader {
	return NewReader(io.TeeReader(src, dest))
}
