package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/xrsl/cvlift/pkg/notify"
	"github.com/xrsl/cvlift/pkg/workflow"
)

// Server-sent event names written by eventStream.
const (
	EventState        = "state"
	EventProgress     = "progress"
	EventNotification = "notification"
	EventDone         = "done"
)

// eventStream forwards workflow events to the client as server-sent events.
// It is both the run's notify.Sink and its workflow.Observer.
type eventStream struct {
	ctx context.Context
	w   http.ResponseWriter
	rc  *http.ResponseController
	log *slog.Logger

	mu  sync.Mutex
	err error
}

func newEventStream(ctx context.Context, w http.ResponseWriter, log *slog.Logger) *eventStream {
	rc := http.NewResponseController(w)
	// The run outlives the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_ = rc.Flush()

	return &eventStream{ctx: ctx, w: w, rc: rc, log: log}
}

type stateEvent struct {
	State string `json:"state"`
}

type progressEvent struct {
	Progress int `json:"progress"`
}

type notificationEvent struct {
	notify.Notification
	HTML string `json:"html"`
}

type doneEvent struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (s *eventStream) StateChanged(st workflow.State) {
	s.send(EventState, stateEvent{State: st.String()})
}

func (s *eventStream) Progressed(p int) {
	s.send(EventProgress, progressEvent{Progress: p})
}

func (s *eventStream) Notify(n notify.Notification) {
	html, err := renderHTML(s.ctx, Toast(n))
	if err != nil {
		s.log.Warn("toast render failed", "error", err)
	}
	s.send(EventNotification, notificationEvent{Notification: n, HTML: string(html)})
}

// Done writes the final event of a run.
func (s *eventStream) Done(runErr error) {
	ev := doneEvent{OK: runErr == nil}
	if runErr != nil {
		ev.Error = runErr.Error()
	}
	s.send(EventDone, ev)
}

// send writes one event. After the first write error the stream goes quiet;
// the run notices the dropped client through its context.
func (s *eventStream) send(event string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.err = err
		return
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		s.err = err
		s.log.Debug("event stream closed", "error", err)
		return
	}
	if err := s.rc.Flush(); err != nil {
		s.err = err
	}
}
