// Package server exposes the dashboard over a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"stratos/manager"
	"stratos/theme"
)

type Server struct {
	dashboard *manager.Dashboard
	resolver  *manager.Resolver
	logger    *slog.Logger
	router    *mux.Router
}

func New(dashboard *manager.Dashboard, resolver *manager.Resolver, logger *slog.Logger) *Server {
	s := &Server{
		dashboard: dashboard,
		resolver:  resolver,
		logger:    logger,
		router:    mux.NewRouter(),
	}

	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	s.router.HandleFunc("/api/search", s.search).Methods(http.MethodGet)
	s.router.HandleFunc("/api/dashboard", s.snapshot).Methods(http.MethodGet)
	s.router.HandleFunc("/api/location", s.selectLocation).Methods(http.MethodPost)
	s.router.HandleFunc("/api/location/current", s.currentLocation).Methods(http.MethodPost)
	s.router.HandleFunc("/api/retry", s.retry).Methods(http.MethodPost)
	s.router.HandleFunc("/api/theme", s.theme).Methods(http.MethodGet)

	return s
}

// Handler is the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return withMiddleware(s.router, s.logger)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server_listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server_stopped")
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": s.resolver.Search(r.Context(), query),
	})
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard.Snapshot())
}

func (s *Server) selectLocation(w http.ResponseWriter, r *http.Request) {
	var loc manager.Location
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		writeError(w, http.StatusBadRequest, "coordinates out of range")
		return
	}
	if loc.Name == "" {
		loc.Name = strconv.FormatFloat(loc.Latitude, 'f', 4, 64) + ", " + strconv.FormatFloat(loc.Longitude, 'f', 4, 64)
	}
	s.respond(w, s.dashboard.Select(r.Context(), loc))
}

func (s *Server) currentLocation(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.dashboard.UseCurrentLocation(r.Context()))
}

func (s *Server) retry(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.dashboard.Retry(r.Context()))
}

func (s *Server) theme(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	code, err := strconv.Atoi(q.Get("code"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "code must be an integer")
		return
	}
	isDay := true
	if v := q.Get("isDay"); v != "" {
		if isDay, err = strconv.ParseBool(v); err != nil {
			writeError(w, http.StatusBadRequest, "isDay must be a boolean")
			return
		}
	}
	wind := 0.0
	if v := q.Get("wind"); v != "" {
		if wind, err = strconv.ParseFloat(v, 64); err != nil || wind < 0 {
			writeError(w, http.StatusBadRequest, "wind must be a non-negative number")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"variant": theme.VariantOf(code, isDay),
		"theme":   theme.Derive(code, isDay, wind),
		"label":   theme.Label(code),
		"icon":    theme.Icon(code, isDay),
	})
}

// respond maps a dashboard action's outcome to a status and always returns
// the snapshot.
func (s *Server) respond(w http.ResponseWriter, err error) {
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, manager.ErrSuperseded):
		status = http.StatusConflict
	case errors.Is(err, manager.ErrGeolocationDenied):
		status = http.StatusForbidden
	default:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, s.dashboard.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
