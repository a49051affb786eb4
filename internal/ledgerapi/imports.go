package ledgerapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/ledger"
	"github.com/bahikhata-erp/bahikhata/internal/platform/httpx"
)

// handleReplaceCollection swaps one collection wholesale, as used by CSV
// import and backup restore. Cross-entity reconciliation is deliberately not
// attempted; a products import does not rewrite sale references.
func (h *Handler) handleReplaceCollection(w http.ResponseWriter, r *http.Request) {
	kind := domain.Kind(chi.URLParam(r, "kind"))
	ev := ledger.ReplaceCollection{Kind: kind}

	var err error
	switch kind {
	case domain.KindProducts:
		err = httpx.DecodeJSON(r, &ev.Products)
	case domain.KindCustomers:
		err = httpx.DecodeJSON(r, &ev.Customers)
	case domain.KindSuppliers:
		err = httpx.DecodeJSON(r, &ev.Suppliers)
	case domain.KindSales:
		err = httpx.DecodeJSON(r, &ev.Sales)
	case domain.KindPurchases:
		err = httpx.DecodeJSON(r, &ev.Purchases)
	case domain.KindReturns:
		err = httpx.DecodeJSON(r, &ev.Returns)
	default:
		httpx.RespondError(w, fmt.Errorf("collection kind: %w", httpx.ErrNotFound))
		return
	}
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed JSON", httpx.ErrValidation))
		return
	}

	h.submit(r.Context(), ev)
	w.WriteHeader(http.StatusNoContent)
}

// handleExportCollection returns one collection's full contents, the
// counterpart of handleReplaceCollection for backup export.
func (h *Handler) handleExportCollection(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	switch domain.Kind(chi.URLParam(r, "kind")) {
	case domain.KindProducts:
		httpx.JSON(w, http.StatusOK, snap.Products)
	case domain.KindCustomers:
		httpx.JSON(w, http.StatusOK, snap.Customers)
	case domain.KindSuppliers:
		httpx.JSON(w, http.StatusOK, snap.Suppliers)
	case domain.KindSales:
		httpx.JSON(w, http.StatusOK, snap.Sales)
	case domain.KindPurchases:
		httpx.JSON(w, http.StatusOK, snap.Purchases)
	case domain.KindReturns:
		httpx.JSON(w, http.StatusOK, snap.Returns)
	default:
		httpx.RespondError(w, fmt.Errorf("collection kind: %w", httpx.ErrNotFound))
	}
}
