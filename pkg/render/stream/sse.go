package stream

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// KeepAlive is the interval of comment lines sent to idle clients.
const KeepAlive = 25 * time.Second

// ServeHTTP streams hub events as text/event-stream until the client
// disconnects or the hub shuts down.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub := h.Subscribe(r.Context())
	if sub == nil {
		http.Error(w, "stream closed", http.StatusServiceUnavailable)
		return
	}
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case e, ok := <-sub.Events():
			if !ok {
				return
			}
			if _, err := w.Write(Encode(e)); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// Encode formats e in the event-stream wire format.
func Encode(e Event) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "event: %s\n", e.Name)
	data := string(e.Data)
	if data == "" {
		data = "{}"
	}
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	return []byte(b.String())
}
