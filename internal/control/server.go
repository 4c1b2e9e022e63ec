// Package control exposes the running timer over HTTP on the
// single-instance port, so CLI commands can drive the tray or terminal
// host.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pomotodo/internal/core/model"
	"pomotodo/internal/core/timekeeper"
)

// Timer is the part of the TimeKeeper the API drives.
type Timer interface {
	Start(mode timekeeper.Mode)
	StartNext()
	Activate()
	Pause()
	Resume()
	Toggle()
	Quit()
	Status() timekeeper.Status
	Config() model.TimeKeeperConfig
}

// Status is the JSON form of timekeeper.Status.
type Status struct {
	Mode          string     `json:"mode"`
	Paused        bool       `json:"paused"`
	AutoPaused    bool       `json:"auto_paused"`
	RemainingMS   int64      `json:"remaining_ms"`
	Display       string     `json:"display"`
	CompletedWork int        `json:"completed_work"`
	Start         *time.Time `json:"start,omitempty"`
	End           *time.Time `json:"end,omitempty"`
}

// Remaining returns the time left as a duration.
func (status Status) Remaining() time.Duration {
	return time.Duration(status.RemainingMS) * time.Millisecond
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter builds the control API.
func NewRouter(timer Timer, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	handler := &handler{timer: timer}

	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/status", handler.status)
	r.Post("/start", handler.start)
	r.Post("/next", handler.action(timer.StartNext))
	r.Post("/activate", handler.action(timer.Activate))
	r.Post("/pause", handler.action(timer.Pause))
	r.Post("/resume", handler.action(timer.Resume))
	r.Post("/toggle", handler.action(timer.Toggle))
	r.Post("/quit", handler.action(timer.Quit))
	return r
}

// Serve runs the API on listener until ctx is done.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		errs <- server.Serve(listener)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

type handler struct {
	timer Timer
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot())
}

func (h *handler) start(w http.ResponseWriter, r *http.Request) {
	mode := timekeeper.ModeWork
	if name := r.URL.Query().Get("mode"); name != "" {
		parsed, err := timekeeper.ParseMode(name)
		if err != nil || parsed == timekeeper.ModeIdle {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown mode " + name})
			return
		}
		mode = parsed
	}
	h.timer.Start(mode)
	writeJSON(w, http.StatusOK, h.snapshot())
}

func (h *handler) action(apply func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apply()
		writeJSON(w, http.StatusOK, h.snapshot())
	}
}

func (h *handler) snapshot() Status {
	status := h.timer.Status()
	result := Status{
		Mode:          status.Mode.String(),
		Paused:        status.Paused,
		AutoPaused:    status.AutoPaused,
		RemainingMS:   max(status.Remaining, 0).Milliseconds(),
		Display:       timekeeper.Display(status, h.timer.Config().Emoji),
		CompletedWork: status.CompletedWork,
	}
	if status.Active() {
		result.Start = &status.Start
		result.End = &status.End
	}
	return result
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Debug("control request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
