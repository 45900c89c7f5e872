package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shaiso/Trax/internal/domain"
)

// StateReader — источник состояния процесса (domain.RunState).
type StateReader interface {
	Snapshot() domain.Snapshot
}

// Handler — обработчик status API.
type Handler struct {
	state  StateReader
	logger *slog.Logger
	now    func() time.Time
}

// Config — конфигурация для создания Handler.
type Config struct {
	State  StateReader
	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		state:  cfg.State,
		logger: logger,
		now:    time.Now,
	}
}

// StatusResponse — ответ GET /api/v1/status.
type StatusResponse struct {
	domain.Snapshot

	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Healthz отвечает 200, пока процесс жив.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Status возвращает снимок состояния sweep loop.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	if h.state == nil {
		Unavailable(w, "state is not initialized")
		return
	}

	snap := h.state.Snapshot()
	Success(w, StatusResponse{
		Snapshot:      snap,
		UptimeSeconds: h.now().Sub(snap.StartedAt).Seconds(),
	})
}
