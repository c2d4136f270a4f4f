// Package network receives scroll-progress messages from the hosting page
// over WebSocket or plain HTTP and hands them to the frame loop.
package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/jewelbox/internal/logger"
)

// MaxMessageSize bounds a single inbound payload.
const MaxMessageSize = 4096

// DefaultQueueSize is used when Config.QueueSize is not positive.
const DefaultQueueSize = 64

// Config holds the listener settings.
type Config struct {
	Listen string
	// AllowedOrigins restricts browser origins. Empty allows every origin.
	// Requests without an Origin header are always accepted.
	AllowedOrigins []string
	QueueSize      int
}

// Stats counts traffic since the server started.
type Stats struct {
	Received    uint64
	Dropped     uint64
	Connections int
}

// Server accepts payloads on /sync (WebSocket) and /scroll (HTTP POST).
// Payloads are queued unparsed; the frame loop consumes them with Drain.
type Server struct {
	cfg      Config
	log      *zap.Logger
	queue    chan []byte
	upgrader websocket.Upgrader

	httpSrv *http.Server
	ln      net.Listener

	mu     sync.Mutex
	conns  map[uuid.UUID]*websocket.Conn
	closed bool
	wg     sync.WaitGroup

	received atomic.Uint64
	dropped  atomic.Uint64
}

// NewServer creates a server. Call Start to begin listening, or mount
// Handler on an existing server.
func NewServer(cfg Config, log *zap.Logger) *Server {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	s := &Server{
		cfg:   cfg,
		log:   logger.OrNop(log),
		queue: make(chan []byte, cfg.QueueSize),
		conns: make(map[uuid.UUID]*websocket.Conn),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originAllowed,
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/sync", s.handleSync)
	mux.HandleFunc("/scroll", s.handleScroll)
	return mux
}

// Start listens on cfg.Listen and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Listen, err)
	}
	s.ln = ln
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("sync listener stopped", zap.Error(err))
		}
	}()

	s.log.Info("sync listener started", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Drain passes every queued payload to fn, in arrival order, and returns the
// count. It never blocks.
func (s *Server) Drain(fn func(payload []byte)) int {
	n := 0
	for {
		select {
		case p := <-s.queue:
			fn(p)
			n++
		default:
			return n
		}
	}
}

// Stats returns traffic counters.
func (s *Server) Stats() Stats {
	s.mu.Lock()
	conns := len(s.conns)
	s.mu.Unlock()
	return Stats{
		Received:    s.received.Load(),
		Dropped:     s.dropped.Load(),
		Connections: conns,
	}
}

// Close stops the listener and closes every WebSocket connection.
func (s *Server) Close(ctx context.Context) error {
	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}

	s.mu.Lock()
	s.closed = true
	for id, c := range s.conns {
		c.Close()
		delete(s.conns, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

// enqueue queues payload. When the queue is full the oldest payload is
// dropped, so the newest scroll position always reaches the frame loop.
func (s *Server) enqueue(source string, payload []byte) {
	s.received.Add(1)
	for {
		select {
		case s.queue <- payload:
			return
		default:
		}
		select {
		case <-s.queue:
			s.dropped.Add(1)
			s.log.Debug("sync queue full, dropped oldest payload", zap.String("source", source))
		default:
		}
	}
}

func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(s.cfg.AllowedOrigins, origin)
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.isClosed() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	conn.SetReadLimit(MaxMessageSize)

	// Close may have run while the upgrade was in flight.
	id := uuid.New()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.conns[id] = conn
	s.wg.Add(1)
	s.mu.Unlock()

	log := s.log.With(zap.Stringer("conn", id))
	log.Info("sync client connected", zap.String("remote", r.RemoteAddr))

	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.conns, id)
			s.mu.Unlock()
			conn.Close()
			log.Info("sync client disconnected")
		}()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debug("sync read failed", zap.Error(err))
				}
				return
			}
			s.enqueue(id.String(), data)
		}
	}()
}

// allowCORS sets the CORS response headers for an allowed browser origin.
func (s *Server) allowCORS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	h := w.Header()
	if len(s.cfg.AllowedOrigins) == 0 {
		h.Set("Access-Control-Allow-Origin", "*")
	} else {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
	}
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodOptions {
		w.Header().Set("Allow", "POST, OPTIONS")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.originAllowed(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}
	s.allowCORS(w, r)

	if r.Method == http.MethodOptions {
		h := w.Header()
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Max-Age", "600")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxMessageSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "reading body", http.StatusBadRequest)
		return
	}

	s.enqueue("http", data)
	w.WriteHeader(http.StatusAccepted)
}
