package apiserver

import (
	"bytes"
	"sync"
)

// eventWriter is an io.Writer that both accumulates written bytes for
// later retrieval and broadcasts each write as an output event, so a
// session's trace output can feed both the HTTP console endpoint and
// any live WebSocket subscribers.
type eventWriter struct {
	broadcaster *Broadcaster
	sessionID   string
	stream      string
	buffer      bytes.Buffer
	mu          sync.Mutex
}

func newEventWriter(broadcaster *Broadcaster, sessionID, stream string) *eventWriter {
	return &eventWriter{broadcaster: broadcaster, sessionID: sessionID, stream: stream}
}

func (w *eventWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.buffer.Write(p)
	if err == nil && n > 0 && w.broadcaster != nil {
		w.broadcaster.BroadcastOutput(w.sessionID, w.stream, string(p))
	}
	return n, err
}

func (w *eventWriter) drain() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.buffer.String()
	w.buffer.Reset()
	return out
}
