package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crimson-sun/canlog/internal/addressbook"
	"github.com/crimson-sun/canlog/internal/config"
	"github.com/crimson-sun/canlog/internal/metrics"
)

// SessionHeader carries the decode session ID on every decode response.
const SessionHeader = "X-Canlog-Session"

const shutdownTimeout = 5 * time.Second

// Server exposes decoding over HTTP.
type Server struct {
	cfg     config.Config
	book    *addressbook.Book // default when a request uploads none; may be nil
	router  *gin.Engine
	started time.Time
}

// New builds the router. book is used for requests that do not upload a
// workbook of their own.
func New(cfg config.Config, book *addressbook.Book) *Server {
	metrics.Register()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(slog.Default()))
	r.Use(requestMetrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  normalizeOrigins(cfg.Server.CORSOrigins),
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{SessionHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))
	r.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{cfg: cfg, book: book, router: r, started: time.Now()}
	s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api/v1")
	api.POST("/decode", s.limitBody(), s.decode)
	api.GET("/tables", s.tables)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"uptime":       time.Since(s.started).String(),
		"default_book": s.book != nil,
	})
}

func (s *Server) tables(c *gin.Context) {
	if s.book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNoWorkbook.Error()})
		return
	}
	stats := s.book.Stats()
	out := make(map[string]int, len(stats))
	for table, n := range stats {
		out[string(table)] = n
	}
	c.JSON(http.StatusOK, gin.H{"tables": out})
}

func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxUploadBytes)
		c.Next()
	}
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
