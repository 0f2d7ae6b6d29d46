// Package handlers is the HTTP surface. Handlers are thin collaborators:
// they bind JSON, call into the storage facade or the sale engine, and
// render whatever state those expose. All validation with business
// meaning lives below this layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boutique-pos/internal/ai"
	"boutique-pos/internal/engine"
	"boutique-pos/internal/storage"
)

type Handler struct {
	store  storage.Store
	engine *engine.Engine
	agent  *ai.Agent // nil when no API key is configured
	log    *zap.Logger
}

func New(store storage.Store, eng *engine.Engine, agent *ai.Agent, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: store, engine: eng, agent: agent, log: log}
}

// engineStatus maps the engine's typed failures onto HTTP statuses. They
// are all recoverable-by-user conditions, so everything lands in 4xx.
func engineStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrProductNotFound),
		errors.Is(err, engine.ErrLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrOutOfStock),
		errors.Is(err, engine.ErrInsufficientStock),
		errors.Is(err, engine.ErrInsufficientPayment):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidQuantity),
		errors.Is(err, engine.ErrInvalidDiscount),
		errors.Is(err, engine.ErrEmptyCart):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) storageError(c *gin.Context, err error, what string) {
	h.log.Error("storage failure", zap.String("op", what), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + what})
}
