// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// codec for the codestream relay and its clients. The Reader turns a raw,
// arbitrarily-chunked byte stream into discrete events; the Writer serializes
// outbound frames, including the [DONE] termination sentinel and JSON error
// frames.
//
// The codec knows nothing about the JSON payload schema carried inside
// "data:" fields — that belongs to pkg/llm.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// DoneSentinel is the reserved data payload signaling normal stream
// termination. It is a pure termination signal and never carries content.
const DoneSentinel = "[DONE]"

// Event represents a single parsed SSE event, delimited by a blank line
// in the upstream byte stream.
type Event struct {
	// Type is the SSE event type from the "event:" field.
	// An empty string means the default "message" type per the SSE spec.
	Type string

	// Data is the concatenated contents of all "data:" lines for this event,
	// joined with "\n" (per the SSE spec, multiple data fields are joined
	// with a single newline).
	Data string

	// ID is the last event ID from the "id:" field, if present.
	ID string
}

// Done reports whether the event is the [DONE] termination sentinel.
func (e *Event) Done() bool {
	return e.Data == DoneSentinel
}
