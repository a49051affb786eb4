package ledgerapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/ledger"
	"github.com/bahikhata-erp/bahikhata/internal/platform/httpx"
)

func (h *Handler) handleAddSale(w http.ResponseWriter, r *http.Request) {
	var sale domain.Sale
	if !h.decode(w, r, &sale) {
		return
	}
	snap := h.engine.Snapshot()
	if _, exists := snap.FindSale(sale.ID); exists {
		httpx.RespondError(w, fmt.Errorf("sale id already exists: %w", httpx.ErrDuplicate))
		return
	}
	if _, exists := snap.FindCustomer(sale.CustomerID); !exists {
		httpx.RespondError(w, fmt.Errorf("customer: %w", httpx.ErrNotFound))
		return
	}
	// Recording the sale and decrementing stock are separate events, batched
	// so both land in the same published snapshot.
	events := []ledger.Event{ledger.AddSale{Sale: sale}}
	for _, it := range sale.Items {
		events = append(events, ledger.AdjustProductStock{ProductID: it.ProductID, Delta: -it.Quantity})
	}
	h.submit(r.Context(), events...)
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) handleUpdateSale(w http.ResponseWriter, r *http.Request) {
	var updated domain.Sale
	if !h.decode(w, r, &updated) {
		return
	}
	updated.ID = chi.URLParam(r, "id")
	old, exists := h.engine.Snapshot().FindSale(updated.ID)
	if !exists {
		httpx.RespondError(w, fmt.Errorf("sale: %w", httpx.ErrNotFound))
		return
	}
	// Payments stay with the invoice across an edit.
	if updated.Payments == nil {
		updated.Payments = old.Payments
	}
	h.submit(r.Context(), ledger.UpdateSale{Old: old, New: updated})
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, exists := h.engine.Snapshot().FindSale(id); !exists {
		httpx.RespondError(w, fmt.Errorf("sale: %w", httpx.ErrNotFound))
		return
	}
	h.submit(r.Context(), ledger.DeleteSale{ID: id})
	w.WriteHeader(http.StatusNoContent)
}
