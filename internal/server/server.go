// Package server hosts the dashboard over HTTP. Every request reruns the
// filter and the chart constructions against the cached table.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/KaramelBytes/waterdash/internal/charts"
	"github.com/KaramelBytes/waterdash/internal/dataset"
	"github.com/KaramelBytes/waterdash/internal/logx"
)

// TableSource provides the loaded readings table.
type TableSource interface {
	Get(ctx context.Context) (*dataset.Table, error)
	Reload(ctx context.Context) (*dataset.Table, error)
}

// Options configures the server.
type Options struct {
	Charts      charts.Options
	CORSOrigins []string
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// Server serves the dashboard page, chart images and the JSON API.
type Server struct {
	src TableSource
	opt Options
}

// New creates a Server over src.
func New(src TableSource, opt Options) *Server {
	if opt.ShutdownTimeout <= 0 {
		opt.ShutdownTimeout = 5 * time.Second
	}
	if len(opt.CORSOrigins) == 0 {
		opt.CORSOrigins = []string{"*"}
	}
	return &Server{src: src, opt: opt}
}

// Router returns the routes without middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/charts/{name:[a-z]+}.{format:png|svg}", s.handleChart).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/charts/{name}", s.handleChartData).Methods(http.MethodGet)
	api.HandleFunc("/readings", s.handleReadings).Methods(http.MethodGet)
	api.HandleFunc("/options", s.handleOptions).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, NewAPIError(ErrorCodeNotFound, "no route for "+req.URL.Path, nil, http.StatusNotFound))
	})
	return r
}

// Handler is the router wrapped with request ids, logging and CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.opt.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	return c.Handler(requestID(s.Router()))
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r)
		logx.Debugf("%s %s %s (%s)", id, r.Method, r.URL.RequestURI(), time.Since(start).Round(time.Millisecond))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logx.Infof("Dashboard listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logx.Infof("Shutting down dashboard")
		sctx, cancel := context.WithTimeout(context.Background(), s.opt.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	}
}
