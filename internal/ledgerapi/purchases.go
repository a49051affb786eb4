package ledgerapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/ledger"
	"github.com/bahikhata-erp/bahikhata/internal/platform/httpx"
)

func (h *Handler) handleAddPurchase(w http.ResponseWriter, r *http.Request) {
	var purchase domain.Purchase
	if !h.decode(w, r, &purchase) {
		return
	}
	snap := h.engine.Snapshot()
	if _, exists := snap.FindPurchase(purchase.ID); exists {
		httpx.RespondError(w, fmt.Errorf("purchase id already exists: %w", httpx.ErrDuplicate))
		return
	}
	if _, exists := snap.FindSupplier(purchase.SupplierID); !exists {
		httpx.RespondError(w, fmt.Errorf("supplier: %w", httpx.ErrNotFound))
		return
	}
	// Each line lands as an AddProduct: new SKUs are declared, known SKUs
	// restocked with last-write-wins prices.
	events := []ledger.Event{ledger.AddPurchase{Purchase: purchase}}
	for _, it := range purchase.Items {
		events = append(events, ledger.AddProduct{Product: domain.Product{
			ID:            it.ProductID,
			Name:          it.ProductName,
			Quantity:      it.Quantity,
			PurchasePrice: it.UnitPrice,
			SalePrice:     it.SalePrice,
			GSTPercent:    it.GSTPercent,
		}})
	}
	h.submit(r.Context(), events...)
	httpx.JSON(w, http.StatusCreated, purchase)
}

func (h *Handler) handleUpdatePurchase(w http.ResponseWriter, r *http.Request) {
	var updated domain.Purchase
	if !h.decode(w, r, &updated) {
		return
	}
	updated.ID = chi.URLParam(r, "id")
	old, exists := h.engine.Snapshot().FindPurchase(updated.ID)
	if !exists {
		httpx.RespondError(w, fmt.Errorf("purchase: %w", httpx.ErrNotFound))
		return
	}
	if updated.Payments == nil {
		updated.Payments = old.Payments
	}
	h.submit(r.Context(), ledger.UpdatePurchase{Old: old, New: updated})
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeletePurchase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, exists := h.engine.Snapshot().FindPurchase(id); !exists {
		httpx.RespondError(w, fmt.Errorf("purchase: %w", httpx.ErrNotFound))
		return
	}
	h.submit(r.Context(), ledger.DeletePurchase{ID: id})
	w.WriteHeader(http.StatusNoContent)
}
