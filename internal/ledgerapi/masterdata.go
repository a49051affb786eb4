package ledgerapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/ledger"
	"github.com/bahikhata-erp/bahikhata/internal/platform/httpx"
)

func (h *Handler) handleAddCustomer(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if !h.decode(w, r, &c) {
		return
	}
	if _, exists := h.engine.Snapshot().FindCustomer(c.ID); exists {
		httpx.RespondError(w, fmt.Errorf("customer id already exists: %w", httpx.ErrDuplicate))
		return
	}
	h.submit(r.Context(), ledger.AddCustomer{Customer: c})
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if !h.decode(w, r, &c) {
		return
	}
	c.ID = chi.URLParam(r, "id")
	if _, exists := h.engine.Snapshot().FindCustomer(c.ID); !exists {
		httpx.RespondError(w, fmt.Errorf("customer: %w", httpx.ErrNotFound))
		return
	}
	h.submit(r.Context(), ledger.UpdateCustomer{Customer: c})
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleAddSupplier(w http.ResponseWriter, r *http.Request) {
	var sp domain.Supplier
	if !h.decode(w, r, &sp) {
		return
	}
	if _, exists := h.engine.Snapshot().FindSupplier(sp.ID); exists {
		httpx.RespondError(w, fmt.Errorf("supplier id already exists: %w", httpx.ErrDuplicate))
		return
	}
	h.submit(r.Context(), ledger.AddSupplier{Supplier: sp})
	httpx.JSON(w, http.StatusCreated, sp)
}

func (h *Handler) handleUpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var sp domain.Supplier
	if !h.decode(w, r, &sp) {
		return
	}
	sp.ID = chi.URLParam(r, "id")
	if _, exists := h.engine.Snapshot().FindSupplier(sp.ID); !exists {
		httpx.RespondError(w, fmt.Errorf("supplier: %w", httpx.ErrNotFound))
		return
	}
	h.submit(r.Context(), ledger.UpdateSupplier{Supplier: sp})
	httpx.JSON(w, http.StatusOK, sp)
}

// handleAddProduct accepts both brand-new SKUs and restocks of known ones;
// a duplicate id merges instead of conflicting, by design.
func (h *Handler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if !h.decode(w, r, &p) {
		return
	}
	snap := h.submit(r.Context(), ledger.AddProduct{Product: p})
	merged, _ := snap.FindProduct(p.ID)
	httpx.JSON(w, http.StatusCreated, merged)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if !h.decode(w, r, &p) {
		return
	}
	p.ID = chi.URLParam(r, "id")
	if _, exists := h.engine.Snapshot().FindProduct(p.ID); !exists {
		httpx.RespondError(w, fmt.Errorf("product: %w", httpx.ErrNotFound))
		return
	}
	h.submit(r.Context(), ledger.UpdateProduct{Product: p})
	httpx.JSON(w, http.StatusOK, p)
}

type stockAdjustment struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason"`
}

func (h *Handler) handleAdjustStock(w http.ResponseWriter, r *http.Request) {
	var adj stockAdjustment
	if !h.decode(w, r, &adj) {
		return
	}
	id := chi.URLParam(r, "id")
	if _, exists := h.engine.Snapshot().FindProduct(id); !exists {
		httpx.RespondError(w, fmt.Errorf("product: %w", httpx.ErrNotFound))
		return
	}
	snap := h.submit(r.Context(), ledger.AdjustProductStock{ProductID: id, Delta: adj.Delta})
	p, _ := snap.FindProduct(id)
	httpx.JSON(w, http.StatusOK, p)
}
