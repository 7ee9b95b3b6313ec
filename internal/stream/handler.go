package stream

import (
	"net/http"
)

// ServeHTTP writes SSE frames for taskID to w until the client disconnects.
// Callers mount this behind their own routing; it sets the SSE response
// headers (including the X-Accel-Buffering hint spec.md §4.2 requires to
// disable proxy buffering) and blocks until r.Context() is done.
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request, taskID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	client := m.AddClient(taskID)
	defer m.RemoveClient(taskID, client)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-client.Frames():
			if !ok {
				return
			}
			if _, err := w.Write(f); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
