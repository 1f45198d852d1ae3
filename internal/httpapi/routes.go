package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/arena-probe/internal/arena"
	"github.com/DoyleJ11/arena-probe/internal/hub"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func SetupRoutes(h *hub.Hub, opts arena.Options, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/battles", ListBattles(h))
	r.Get("/ws", arena.Handler(h, opts, log))
	return r
}
