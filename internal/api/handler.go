package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Paddock/internal/tournament"
)

// Tournament — срез контроллера турнира, который отдаёт сервер
// наблюдения. Реализуется tournament.Controller.
type Tournament interface {
	Standings() []tournament.Standing
	LastRace() (tournament.RaceSnapshot, bool)
	Races() int
}

// Handler — обработчики сервера наблюдения.
//
// Сервер наблюдения только читает состояние турнира: управлять
// заездами по HTTP нельзя, заездами управляет цикл контроллера.
type Handler struct {
	tournament Tournament
	logger     *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Tournament Tournament
	Logger     *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		tournament: cfg.Tournament,
		logger:     logger,
	}
}

// RegisterRoutes регистрирует маршруты сервера наблюдения.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	wrap := func(fn http.HandlerFunc) http.Handler {
		return Recovery(h.logger)(Logging(h.logger)(fn))
	}

	mux.Handle("GET /healthz", wrap(h.Healthz))
	mux.Handle("GET /status", wrap(h.Status))
	mux.Handle("GET /metrics", promhttp.Handler())
}
