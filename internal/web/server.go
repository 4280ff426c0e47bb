// Package web serves the shift log HTTP API and the live metrics preview.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/blowline/shiftlog/core"
	"github.com/blowline/shiftlog/internal/contract"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const readHeaderTimeout = 10 * time.Second

// Server exposes record submission, report download and live preview over HTTP.
type Server struct {
	cfg      *contract.Config
	calc     *core.Calculator
	mgr      contract.StoreManager
	engine   *gin.Engine
	upgrader websocket.Upgrader

	// Hijacked preview sockets are invisible to http.Server.Shutdown
	socketsMu sync.Mutex
	sockets   map[*websocket.Conn]struct{}
	closing   bool
	socketWG  sync.WaitGroup
}

// NewServer builds the router for the given configuration and store manager.
func NewServer(cfg *contract.Config, mgr contract.StoreManager) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:     cfg,
		calc:    core.NewCalculatorFromConfig(cfg),
		mgr:     mgr,
		sockets: make(map[*websocket.Conn]struct{}),
	}
	if cfg.Debug {
		// Any origin may open the preview socket while developing the form locally
		s.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(
		gin.LoggerWithConfig(gin.LoggerConfig{Output: os.Stderr, SkipPaths: []string{"/healthz"}}),
		gin.Recovery(),
		cors(),
		securityHeaders(),
	)

	r.POST("/submit-production", s.handleSubmit)
	r.GET("/download-excel", s.handleDownloadExcel)
	r.GET("/get-customers", s.handleCustomers)
	r.GET("/get-last-record", s.handleLastRecord)

	r.POST("/api/preview", s.handlePreview)
	r.GET("/ws/preview", s.handlePreviewSocket)
	r.GET("/healthz", s.handleHealth)

	r.NoRoute(s.handleStatic())
	return r
}

// Run listens on the configured address until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down gracefully.
// In-flight requests get cfg.ShutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	contract.LogInfo("🌐 Shift log listening on %s (backend: %s)", ln.Addr(), s.cfg.Backend)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = contract.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	contract.LogInfo("🛑 Shutting down (waiting up to %s for open requests)", timeout)
	return errors.Join(srv.Shutdown(shutdownCtx), s.closeSockets(shutdownCtx))
}

// trackSocket registers an upgraded preview socket.
// It reports false once shutdown has started.
func (s *Server) trackSocket(conn *websocket.Conn) bool {
	s.socketsMu.Lock()
	defer s.socketsMu.Unlock()
	if s.closing {
		return false
	}
	s.sockets[conn] = struct{}{}
	s.socketWG.Add(1)
	return true
}

func (s *Server) untrackSocket(conn *websocket.Conn) {
	s.socketsMu.Lock()
	delete(s.sockets, conn)
	s.socketsMu.Unlock()
	s.socketWG.Done()
}

// closeSockets sends a going-away close frame to every open preview socket
// and waits for their handlers to return.
func (s *Server) closeSockets(ctx context.Context) error {
	s.socketsMu.Lock()
	s.closing = true
	conns := make([]*websocket.Conn, 0, len(s.sockets))
	for conn := range s.sockets {
		conns = append(conns, conn)
	}
	s.socketsMu.Unlock()

	for _, conn := range conns {
		sendGoingAway(conn)
		_ = conn.Close()
	}

	done := make(chan struct{})
	go func() {
		s.socketWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sendGoingAway(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
