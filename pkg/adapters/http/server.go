package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/sectionkit"
	"github.com/aretw0/sectionkit/internal/logging"
	"github.com/aretw0/sectionkit/pkg/adapters/headless"
	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Engine is the read-only view of a list engine the server exposes.
// *sectionkit.Engine satisfies it.
type Engine interface {
	ListID() string
	Snapshot() *domain.Snapshot
	Sections() []domain.Section
	CapabilitiesOf(id string) (domain.CapabilitySet, bool)
	Pending() int
	Busy() bool
}

// FrameSource records what a surface displayed. *headless.Surface
// satisfies it.
type FrameSource interface {
	Frames() []headless.Frame
	Subscribe(fn func(headless.Frame))
}

// SectionInfo describes one registered section.
type SectionInfo struct {
	Index        int      `json:"index"`
	ID           string   `json:"id"`
	Items        []string `json:"items"`
	Capabilities []string `json:"capabilities"`
}

// Status summarizes the engine queue.
type Status struct {
	ListID   string `json:"list_id"`
	Pending  int    `json:"pending"`
	Busy     bool   `json:"busy"`
	Sections int    `json:"sections"`
	Items    int    `json:"items"`
}

// Server serves the inspection endpoints.
type Server struct {
	Engine  Engine
	Frames  FrameSource
	Streams *StreamManager
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithFrames exposes a surface's frame history on /frames and /events.
func WithFrames(src FrameSource) Option {
	return func(s *Server) {
		s.Frames = src
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Frames != nil {
		server.Frames.Subscribe(server.broadcast)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/status", server.GetStatus)
	r.Get("/snapshot", server.GetSnapshot)
	r.Get("/sections", server.GetSections)
	r.Get("/sections/{id}", server.GetSection)
	r.Get("/frames", server.GetFrames)
	r.Get("/events", server.SubscribeEvents)
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "sectionkit-http",
		"version": strings.TrimSpace(sectionkit.Version),
		"list_id": s.Engine.ListID(),
	})
}

// GetStatus handles the GET /status request.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Engine.Snapshot()
	s.writeJSON(w, Status{
		ListID:   s.Engine.ListID(),
		Pending:  s.Engine.Pending(),
		Busy:     s.Engine.Busy(),
		Sections: snap.NumberOfSections(),
		Items:    snap.TotalItems(),
	})
}

// GetSnapshot handles the GET /snapshot request.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Engine.Snapshot().View())
}

// GetSections handles the GET /sections request.
func (s *Server) GetSections(w http.ResponseWriter, r *http.Request) {
	snap := s.Engine.Snapshot()
	sections := s.Engine.Sections()
	out := make([]SectionInfo, 0, len(sections))
	for i, sec := range sections {
		out = append(out, s.describe(snap, i, sec.ID()))
	}
	s.writeJSON(w, out)
}

// GetSection handles the GET /sections/{id} request.
func (s *Server) GetSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap := s.Engine.Snapshot()
	idx, ok := snap.IndexOfSection(id)
	if !ok {
		http.Error(w, fmt.Sprintf("%v: %s", domain.ErrUnknownSection, id), http.StatusNotFound)
		return
	}
	s.writeJSON(w, s.describe(snap, idx, id))
}

func (s *Server) describe(snap *domain.Snapshot, index int, id string) SectionInfo {
	info := SectionInfo{Index: index, ID: id, Items: snap.ItemKeys(id)}
	if info.Items == nil {
		info.Items = []string{}
	}
	if caps, ok := s.Engine.CapabilitiesOf(id); ok {
		info.Capabilities = caps.Names()
	}
	if info.Capabilities == nil {
		info.Capabilities = []string{}
	}
	return info
}

// GetFrames handles the GET /frames request. The optional since parameter
// skips frames with a lower or equal sequence number.
func (s *Server) GetFrames(w http.ResponseWriter, r *http.Request) {
	if s.Frames == nil {
		http.Error(w, "No surface attached", http.StatusNotFound)
		return
	}
	since := 0
	if raw := r.URL.Query().Get("since"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid since parameter", http.StatusBadRequest)
			return
		}
		since = n
	}
	frames := []headless.Frame{}
	for _, f := range s.Frames.Frames() {
		if f.Seq > since {
			frames = append(frames, f)
		}
	}
	s.writeJSON(w, frames)
}

func (s *Server) broadcast(f headless.Frame) {
	bytes, err := json.Marshal(f)
	if err != nil {
		s.logger.Error("Frame encode failed", "err", err)
		return
	}
	s.Streams.Broadcast(string(bytes))
}

// SubscribeEvents handles the GET /events request (SSE). Every applied frame
// is pushed as one data message.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

// StreamManager fans frames out to active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan string]struct{}),
		logger:      logging.NewNop(),
	}
}

func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
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

// Subscribers returns the number of open streams.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message")
		}
	}
}
