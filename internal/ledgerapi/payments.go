package ledgerapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/ledger"
	"github.com/bahikhata-erp/bahikhata/internal/platform/httpx"
	"github.com/bahikhata-erp/bahikhata/internal/report"
)

type paymentRequest struct {
	Amount    float64              `json:"amount" validate:"required,gt=0"`
	Date      time.Time            `json:"date" validate:"required"`
	Method    domain.PaymentMethod `json:"method" validate:"required,oneof=CASH UPI CARD CHEQUE BANK_TRANSFER"`
	Reference string               `json:"reference"`
}

func (req paymentRequest) payment() domain.Payment {
	return domain.Payment{
		ID:        "PAY-" + uuid.NewString(),
		Amount:    req.Amount,
		Date:      req.Date,
		Method:    req.Method,
		Reference: req.Reference,
	}
}

// handleAddSalePayment performs the overpayment check the reducer leaves to
// its caller: the payment must not push the invoice past its total.
func (h *Handler) handleAddSalePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	saleID := chi.URLParam(r, "id")
	sale, exists := h.engine.Snapshot().FindSale(saleID)
	if !exists {
		httpx.RespondError(w, fmt.Errorf("sale: %w", httpx.ErrNotFound))
		return
	}
	if req.Amount > report.SaleDue(sale)+paymentEpsilon {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Overpayment", "payment exceeds the outstanding due amount")
		return
	}
	p := req.payment()
	h.submit(r.Context(), ledger.AddPaymentToSale{SaleID: saleID, Payment: p})
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) handleAddPurchasePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	purchaseID := chi.URLParam(r, "id")
	purchase, exists := h.engine.Snapshot().FindPurchase(purchaseID)
	if !exists {
		httpx.RespondError(w, fmt.Errorf("purchase: %w", httpx.ErrNotFound))
		return
	}
	if req.Amount > report.PurchaseDue(purchase)+paymentEpsilon {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Overpayment", "payment exceeds the outstanding due amount")
		return
	}
	p := req.payment()
	h.submit(r.Context(), ledger.AddPaymentToPurchase{PurchaseID: purchaseID, Payment: p})
	httpx.JSON(w, http.StatusCreated, p)
}
