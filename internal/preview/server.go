package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MessageType is the type of a message pushed to browsers.
type MessageType string

const (
	MessageSnapshot MessageType = "snapshot"
	MessageError    MessageType = "error"
)

// Message is sent to browsers via WebSocket.
type Message struct {
	Type  MessageType `json:"type"`
	Step  int         `json:"step"`
	HTML  string      `json:"html,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// Server is the preview server.
type Server struct {
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	router   chi.Router
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	snapshot Message
	clients  map[*websocket.Conn]bool

	// writeMu serializes writes; a websocket.Conn allows one writer.
	writeMu sync.Mutex
}

// New creates a preview server showing initial until the first Publish.
func New(initial string, opts ...Option) *Server {
	s := &Server{
		snapshot: Message{Type: MessageSnapshot, HTML: initial},
		clients:  make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get("/_batchdom/snapshot", s.handleSnapshot)
	r.Get("/_batchdom/ws", s.handleWebSocket)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Publish replaces the current snapshot and pushes it to every client.
func (s *Server) Publish(step int, html string) {
	msg := Message{Type: MessageSnapshot, Step: step, HTML: html}
	s.mu.Lock()
	s.snapshot = msg
	s.mu.Unlock()
	s.broadcast(msg)
}

// NotifyError pushes an error to every client. The snapshot is kept.
func (s *Server) NotifyError(step int, err error) {
	s.broadcast(Message{Type: MessageError, Step: step, Error: err.Error()})
}

// Snapshot returns the current snapshot HTML.
func (s *Server) Snapshot() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.HTML
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("preview server listening", "addr", "http://"+addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close closes all client connections.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(InjectScript(s.Snapshot())))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(s.Snapshot()))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	current := s.snapshot
	s.mu.Unlock()
	s.send(conn, current)

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *Server) broadcast(msg Message) {
	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		s.send(client, msg)
	}
}

func (s *Server) send(client *websocket.Conn, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.writeMu.Lock()
	err = client.WriteMessage(websocket.TextMessage, data)
	s.writeMu.Unlock()
	if err != nil {
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
		client.Close()
	}
}

// InjectScript inserts ClientScript before </body>, or appends it when the
// document has no closing body tag.
func InjectScript(page string) string {
	if i := strings.LastIndex(strings.ToLower(page), "</body>"); i >= 0 {
		return page[:i] + ClientScript + page[i:]
	}
	return page + ClientScript
}

// ClientScript swaps in each pushed snapshot.
const ClientScript = `<script data-batchdom-preview>
(function() {
    'use strict';

    var delay = 1000;

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/_batchdom/ws');

        ws.onopen = function() {
            delay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            if (msg.type === 'snapshot') {
                var doc = new DOMParser().parseFromString(msg.html, 'text/html');
                document.body.replaceWith(doc.body);
            } else if (msg.type === 'error') {
                console.error('[batchdom] step ' + msg.step + ': ' + msg.error);
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                delay = Math.min(delay * 2, 30000);
                connect();
            }, delay);
        };
    }

    connect();
})();
</script>
`
