package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/DoyleJ11/arena-probe/internal/hub"
)

type battlesResponse struct {
	Active  int        `json:"active"`
	Battles []hub.Info `json:"battles"`
}

func ListBattles(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		battles := h.Snapshot()
		if battles == nil {
			battles = []hub.Info{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(battlesResponse{Active: len(battles), Battles: battles})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
