package api

import (
	"net/http"

	"github.com/shaiso/Paddock/internal/tournament"
)

// StatusResponse — ответ GET /status.
type StatusResponse struct {
	// Races — количество успешных заездов с момента старта.
	Races int `json:"races"`

	// Standings — турнирная таблица, лидер первым.
	Standings []tournament.Standing `json:"standings"`

	// LastRace — слепок последнего заезда. Nil, если заездов не было.
	LastRace *tournament.RaceSnapshot `json:"last_race,omitempty"`
}

// Status возвращает турнирную таблицу и последний заезд.
// GET /status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Races:     h.tournament.Races(),
		Standings: h.tournament.Standings(),
	}
	if snapshot, ok := h.tournament.LastRace(); ok {
		resp.LastRace = &snapshot
	}
	Success(w, resp)
}

// Healthz — проверка живости процесса.
// GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
