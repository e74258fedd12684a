// Package web serves share links: GET /profile/{uid} answers with the public
// profile as JSON.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Profiles looks up profiles by uid.
type Profiles interface {
	Profile(ctx context.Context, uid string) (*account.Profile, error)
}

type errorBody struct {
	Error string `json:"error"`
}

// NewRouter returns the deep-link routes.
func NewRouter(profiles Profiles) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, logRequests)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/profile/{uid}", profileHandler(profiles)).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})
	return r
}

func profileHandler(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := mux.Vars(r)["uid"]
		p, err := profiles.Profile(r.Context(), uid)
		switch {
		case errors.Is(err, account.ErrProfileNotFound):
			writeJSON(w, http.StatusNotFound, errorBody{Error: "profile not found"})
			return
		case err != nil:
			logger.Error("web: loading profile %s: %v", uid, err)
			writeJSON(w, http.StatusBadGateway, errorBody{Error: "profile unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, p.Public())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("web: writing response: %v", err)
	}
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("web: %s %s (%s) in %s", r.Method, r.URL.Path, w.Header().Get("X-Request-ID"), time.Since(start))
	})
}

// Server runs the router on an address.
type Server struct {
	http *http.Server
}

// New returns a server for addr.
func New(addr string, profiles Profiles) *Server {
	return &Server{http: &http.Server{
		Addr:              addr,
		Handler:           NewRouter(profiles),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.http.Serve(l)
	}()
	logger.Info("web: listening on %s", l.Addr())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("web: stopped")
	return nil
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, l)
}
