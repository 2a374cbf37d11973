package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"dorm-rental-backend/internal/auth"
	"dorm-rental-backend/internal/mw"
	"dorm-rental-backend/internal/notification"
	"dorm-rental-backend/internal/store"
	"dorm-rental-backend/internal/upload"
)

// Deps are the collaborators the handlers need.
type Deps struct {
	Store   store.Store
	Tokens  *auth.Tokens
	Hasher  *auth.Hasher
	Uploads *upload.Storage
	Events  *notification.Hub
	Metrics *mw.Metrics
	WebPush *webpush.Options
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	tokens  *auth.Tokens
	hasher  *auth.Hasher
	uploads *upload.Storage
	events  *notification.Hub
	metrics *mw.Metrics
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		store:   d.Store,
		tokens:  d.Tokens,
		hasher:  d.Hasher,
		uploads: d.Uploads,
		events:  d.Events,
		metrics: d.Metrics,
		webpush: d.WebPush,
	}
}

// dormsChanged tells listeners that public listings may differ.
func (h *Handler) dormsChanged() {
	if h.metrics != nil {
		h.metrics.DormsChanged.Inc()
	}
	if h.events != nil {
		h.events.PublishDormsChanged()
	}
}
