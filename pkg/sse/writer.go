package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Writer serializes outbound SSE frames to a destination io.Writer.
//
// The relay hot path uses WriteRaw to re-wrap upstream byte chunks verbatim
// instead of re-parsing and re-emitting them — a chunk that already carries
// "data:" framing passes through untouched, avoiding a JSON round-trip per
// frame. WriteData, WriteDone and WriteError produce well-formed frames for
// everything the relay originates itself.
type Writer struct {
	dest    io.Writer
	flusher http.Flusher
}

// NewWriter returns a Writer targeting dest. If dest implements
// http.Flusher, every frame is flushed as it is written so downstream
// clients observe tokens as they arrive rather than in buffered bursts.
func NewWriter(dest io.Writer) *Writer {
	w := &Writer{dest: dest}
	if f, ok := dest.(http.Flusher); ok {
		w.flusher = f
	}
	return w
}

// WriteData serializes payload as a single frame: "data: <payload>\n\n".
func (w *Writer) WriteData(payload string) error {
	if _, err := fmt.Fprintf(w.dest, "data: %s\n\n", payload); err != nil {
		return err
	}
	w.flush()
	return nil
}

// WriteRaw forwards an upstream byte chunk verbatim, preserving whatever
// framing the upstream already applied.
func (w *Writer) WriteRaw(chunk []byte) error {
	if _, err := w.dest.Write(chunk); err != nil {
		return err
	}
	w.flush()
	return nil
}

// WriteDone emits the termination sentinel frame: "data: [DONE]\n\n".
func (w *Writer) WriteDone() error {
	return w.WriteData(DoneSentinel)
}

// WriteError emits a single terminal error frame carrying the message as
// JSON: "data: {\"error\":<message>}\n\n".
func (w *Writer) WriteError(message string) error {
	payload, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return fmt.Errorf("marshaling error frame: %w", err)
	}
	return w.WriteData(string(payload))
}

func (w *Writer) flush() {
	if w.flusher != nil {
		w.flusher.Flush()
	}
}
