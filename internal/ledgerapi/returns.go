package ledgerapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/ledger"
	"github.com/bahikhata-erp/bahikhata/internal/platform/httpx"
)

// referencedInvoiceExists resolves the invoice a return credits against.
func referencedInvoiceExists(snap domain.Snapshot, ret domain.Return) bool {
	if ret.Type == domain.ReturnCustomer {
		_, ok := snap.FindSale(ret.ReferenceID)
		return ok
	}
	_, ok := snap.FindPurchase(ret.ReferenceID)
	return ok
}

func (h *Handler) handleAddReturn(w http.ResponseWriter, r *http.Request) {
	var ret domain.Return
	if !h.decode(w, r, &ret) {
		return
	}
	snap := h.engine.Snapshot()
	if _, exists := snap.FindReturn(ret.ID); exists {
		httpx.RespondError(w, fmt.Errorf("return id already exists: %w", httpx.ErrDuplicate))
		return
	}
	if !referencedInvoiceExists(snap, ret) {
		httpx.RespondError(w, fmt.Errorf("referenced invoice: %w", httpx.ErrNotFound))
		return
	}
	h.submit(r.Context(), ledger.AddReturn{Return: ret})
	httpx.JSON(w, http.StatusCreated, ret)
}

func (h *Handler) handleUpdateReturn(w http.ResponseWriter, r *http.Request) {
	var updated domain.Return
	if !h.decode(w, r, &updated) {
		return
	}
	updated.ID = chi.URLParam(r, "id")
	snap := h.engine.Snapshot()
	old, exists := snap.FindReturn(updated.ID)
	if !exists {
		httpx.RespondError(w, fmt.Errorf("return: %w", httpx.ErrNotFound))
		return
	}
	if !referencedInvoiceExists(snap, updated) {
		httpx.RespondError(w, fmt.Errorf("referenced invoice: %w", httpx.ErrNotFound))
		return
	}
	h.submit(r.Context(), ledger.UpdateReturn{Old: old, New: updated})
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteReturn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, exists := h.engine.Snapshot().FindReturn(id); !exists {
		httpx.RespondError(w, fmt.Errorf("return: %w", httpx.ErrNotFound))
		return
	}
	h.submit(r.Context(), ledger.DeleteReturn{ID: id})
	w.WriteHeader(http.StatusNoContent)
}
