package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/lcm/internal/logging"
	"github.com/aretw0/lcm/pkg/domain"
)

// Event is the SSE payload for one lifecycle milestone.
type Event struct {
	Type       domain.EventType `json:"type"`
	Timestamp  time.Time        `json:"timestamp"`
	Mode       string           `json:"mode"`
	Action     string           `json:"action,omitempty"`
	Index      *int             `json:"index,omitempty"`
	Results    int              `json:"results,omitempty"`
	DurationMS int64            `json:"duration_ms,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// StreamManager fans lifecycle events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[chan Event]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new buffered subscriber. Call the returned func to leave.
func (sm *StreamManager) Subscribe() (<-chan Event, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Event, 16)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast delivers e to every subscriber. Slow subscribers lose events.
func (sm *StreamManager) Broadcast(e Event) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- e:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping event", "type", e.Type, "mode", e.Mode)
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every milestone.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			sm.Broadcast(Event{Type: domain.EventRunStart, Timestamp: e.Timestamp, Mode: e.Mode})
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			sm.Broadcast(Event{
				Type:       domain.EventRunFinish,
				Timestamp:  e.Timestamp,
				Mode:       e.Mode,
				DurationMS: e.Duration.Milliseconds(),
				Error:      errString(e.Err),
			})
		},
		OnActionStart: func(_ context.Context, e *domain.ActionEvent) {
			idx := e.Index
			sm.Broadcast(Event{Type: domain.EventActionStart, Timestamp: e.Timestamp, Mode: e.Mode, Action: e.Action, Index: &idx})
		},
		OnActionFinish: func(_ context.Context, e *domain.ActionEvent) {
			idx := e.Index
			sm.Broadcast(Event{
				Type:       domain.EventActionFinish,
				Timestamp:  e.Timestamp,
				Mode:       e.Mode,
				Action:     e.Action,
				Index:      &idx,
				Results:    e.Results,
				DurationMS: e.Duration.Milliseconds(),
				Error:      errString(e.Err),
			})
		},
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// SubscribeEvents handles GET /events (SSE). ?mode= restricts the stream to one mode.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	mode := r.URL.Query().Get("mode")
	ch, cancel := s.streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if mode != "" && e.Mode != mode {
				continue
			}
			data, err := json.Marshal(e)
			if err != nil {
				s.logger.Error("SSE: event encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data)
			flusher.Flush()
		}
	}
}
