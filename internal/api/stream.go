package api

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
)

// SSEStreamWriter writes generation progress as server-sent events. The
// SSE headers go out with the first event, so a request that fails before
// any token was sampled can still answer with a plain JSON error.
//
// Clients that reconnect can pass ?starting_after=N to suppress the
// events they already received.
type SSEStreamWriter struct {
	w             io.Writer
	header        http.Header
	flusher       func()
	startingAfter int

	mu    sync.Mutex
	seq   int
	begun bool
}

func NewSSEStreamWriter(c *echo.Context) (*SSEStreamWriter, error) {
	res := c.Response()
	flusher, ok := res.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming unsupported")
	}
	return &SSEStreamWriter{
		w:             res,
		header:        res.Header(),
		flusher:       flusher.Flush,
		startingAfter: parseStartingAfter(c.QueryParam("starting_after")),
		seq:           1,
	}, nil
}

// Started reports whether any event has been written. After that point
// the response is committed as an event stream and errors can only be
// delivered in-band.
func (s *SSEStreamWriter) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begun
}

func (s *SSEStreamWriter) EmitToken(sample, step, token int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emit("token", map[string]any{
		"type":   "token",
		"sample": sample,
		"step":   step,
		"token":  token,
		"text":   text,
	})
}

func (s *SSEStreamWriter) Complete(resp GenerateResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emit("done", map[string]any{
		"type":     "done",
		"response": resp,
	})
}

// Failed reports err in-band. Before the first event it does nothing and
// leaves the error response to the handler.
func (s *SSEStreamWriter) Failed(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.begun {
		return nil
	}
	return s.emit("error", map[string]any{
		"type": "error",
		"error": APIError{
			Message: err.Error(),
			Type:    "server_error",
		},
	})
}

// emit sends one event and advances the sequence counter. Callers hold
// the mutex.
func (s *SSEStreamWriter) emit(eventType string, payload map[string]any) error {
	if !s.begun {
		s.begun = true
		s.header.Set(echo.HeaderContentType, "text/event-stream")
		s.header.Set("Cache-Control", "no-cache")
		s.header.Set("Connection", "keep-alive")
	}
	payload["sequence_number"] = s.seq
	if err := s.send(payload); err != nil {
		return err
	}
	s.flusher()
	s.seq++
	recordStreamEvent(eventType)
	return nil
}

func (s *SSEStreamWriter) send(payload any) error {
	if s.startingAfter >= s.seq {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.w, "data: %s\n\n", string(b))
	return err
}

func parseStartingAfter(v string) int {
	if v == "" {
		return 0
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
