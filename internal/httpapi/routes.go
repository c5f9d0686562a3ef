package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quizroom/backend/internal/registry"
	"github.com/quizroom/backend/internal/ws"
)

func SetupRoutes(reg *registry.Registry, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/ws/{roomID}", ws.Handler(reg, log))
	return r
}
