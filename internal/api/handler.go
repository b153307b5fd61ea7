package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"lunary-backend/internal/cosmic"
	"lunary-backend/internal/invalidation"
	"lunary-backend/internal/retrograde"
	"lunary-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store       store.Store
	cosmic      *cosmic.Service
	invalidator *invalidation.Coordinator
	retro       *retrograde.Table
	webpush     *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, svc *cosmic.Service, inv *invalidation.Coordinator, retro *retrograde.Table, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:       s,
		cosmic:      svc,
		invalidator: inv,
		retro:       retro,
		webpush:     webpushOptions,
	}
}
