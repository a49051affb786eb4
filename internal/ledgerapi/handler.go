// Package ledgerapi exposes the ledger's event variants as JSON endpoints.
// It owns the checks the reducer deliberately does not perform: duplicate-id
// rejection on create, reference-existence lookups surfaced as 404s, and the
// overpayment guard. Events are only constructed once those pass.
package ledgerapi

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/engine"
	"github.com/bahikhata-erp/bahikhata/internal/ledger"
	"github.com/bahikhata-erp/bahikhata/internal/report"
)

// paymentEpsilon tolerates float drift when comparing a payment against the
// open due amount.
const paymentEpsilon = 1e-6

// Handler decodes event payloads, validates them at the boundary and feeds
// them to the engine.
type Handler struct {
	logger    *slog.Logger
	engine    *engine.Engine
	reports   *report.Cache
	validator *validator.Validate
}

// NewHandler constructs the ledger API handler.
func NewHandler(logger *slog.Logger, eng *engine.Engine, reports *report.Cache) *Handler {
	return &Handler{logger: logger, engine: eng, reports: reports, validator: validator.New()}
}

// MountRoutes registers every ledger mutation route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/customers", h.handleAddCustomer)
	r.Put("/customers/{id}", h.handleUpdateCustomer)
	r.Post("/suppliers", h.handleAddSupplier)
	r.Put("/suppliers/{id}", h.handleUpdateSupplier)

	r.Post("/products", h.handleAddProduct)
	r.Put("/products/{id}", h.handleUpdateProduct)
	r.Post("/products/{id}/stock", h.handleAdjustStock)

	r.Post("/sales", h.handleAddSale)
	r.Put("/sales/{id}", h.handleUpdateSale)
	r.Delete("/sales/{id}", h.handleDeleteSale)
	r.Post("/sales/{id}/payments", h.handleAddSalePayment)

	r.Post("/purchases", h.handleAddPurchase)
	r.Put("/purchases/{id}", h.handleUpdatePurchase)
	r.Delete("/purchases/{id}", h.handleDeletePurchase)
	r.Post("/purchases/{id}/payments", h.handleAddPurchasePayment)

	r.Post("/returns", h.handleAddReturn)
	r.Put("/returns/{id}", h.handleUpdateReturn)
	r.Delete("/returns/{id}", h.handleDeleteReturn)

	r.Get("/collections/{kind}", h.handleExportCollection)
	r.Put("/collections/{kind}", h.handleReplaceCollection)
}

// submit applies the batch and invalidates cached reports. Persistence and
// cache invalidation are fire-and-forget; the request only waits for the
// in-memory transition.
func (h *Handler) submit(ctx context.Context, events ...ledger.Event) domain.Snapshot {
	snap := h.engine.Submit(ctx, events...)
	if err := h.reports.Bump(ctx); err != nil {
		h.logger.Warn("report cache bump", slog.Any("error", err))
	}
	return snap
}
