package ledgerapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/engine"
	"github.com/bahikhata-erp/bahikhata/internal/ledger"
	"github.com/bahikhata-erp/bahikhata/internal/report"
)

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func newTestAPI(t *testing.T) (*chi.Mux, *engine.Engine) {
	t.Helper()
	eng := engine.New(slog.Default(), nil)
	handler := NewHandler(slog.Default(), eng, report.NewCache(nil, 0))
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r, eng
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func seedShop(t *testing.T, eng *engine.Engine) {
	t.Helper()
	eng.Submit(t.Context(),
		ledger.AddCustomer{Customer: domain.Customer{ID: "C1", Name: "Asha"}},
		ledger.AddSupplier{Supplier: domain.Supplier{ID: "SUP1", Name: "Mehta Traders"}},
		ledger.AddProduct{Product: domain.Product{ID: "P1", Name: "Soap", Quantity: 10, PurchasePrice: 20, SalePrice: 28}},
	)
}

func TestAddSaleMovesStockInOneBatch(t *testing.T) {
	r, eng := newTestAPI(t)
	seedShop(t, eng)

	sale := domain.Sale{
		ID: "S1", CustomerID: "C1", TotalAmount: 84,
		Items: []domain.SaleItem{{ProductID: "P1", ProductName: "Soap", Quantity: 3, UnitPrice: 28}},
		Date:  day(1),
	}
	rec := doJSON(t, r, http.MethodPost, "/sales", sale)
	require.Equal(t, http.StatusCreated, rec.Code)

	snap := eng.Snapshot()
	p, _ := snap.FindProduct("P1")
	require.Equal(t, 7, p.Quantity)
	require.Len(t, snap.Sales, 1)
}

func TestAddSaleDuplicateIDConflicts(t *testing.T) {
	r, eng := newTestAPI(t)
	seedShop(t, eng)

	sale := domain.Sale{
		ID: "S1", CustomerID: "C1", TotalAmount: 28,
		Items: []domain.SaleItem{{ProductID: "P1", Quantity: 1, UnitPrice: 28}},
		Date:  day(1),
	}
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/sales", sale).Code)
	require.Equal(t, http.StatusConflict, doJSON(t, r, http.MethodPost, "/sales", sale).Code)

	p, _ := eng.Snapshot().FindProduct("P1")
	require.Equal(t, 9, p.Quantity, "rejected duplicate must not move stock")
}

func TestAddSaleUnknownCustomerIs404(t *testing.T) {
	r, _ := newTestAPI(t)
	sale := domain.Sale{
		ID: "S1", CustomerID: "ghost", TotalAmount: 28,
		Items: []domain.SaleItem{{ProductID: "P1", Quantity: 1, UnitPrice: 28}},
		Date:  day(1),
	}
	require.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodPost, "/sales", sale).Code)
}

func TestAddSaleValidation(t *testing.T) {
	r, eng := newTestAPI(t)
	seedShop(t, eng)

	noItems := domain.Sale{ID: "S1", CustomerID: "C1", TotalAmount: 0, Date: day(1)}
	require.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/sales", noItems).Code)

	badQty := domain.Sale{
		ID: "S1", CustomerID: "C1", TotalAmount: 28,
		Items: []domain.SaleItem{{ProductID: "P1", Quantity: 0, UnitPrice: 28}},
		Date:  day(1),
	}
	require.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/sales", badQty).Code)
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	r, eng := newTestAPI(t)
	seedShop(t, eng)

	sale := domain.Sale{
		ID: "S1", CustomerID: "C1", TotalAmount: 84,
		Items: []domain.SaleItem{{ProductID: "P1", Quantity: 3, UnitPrice: 28}},
		Date:  day(1),
	}
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/sales", sale).Code)
	require.Equal(t, http.StatusNoContent, doJSON(t, r, http.MethodDelete, "/sales/S1", nil).Code)

	p, _ := eng.Snapshot().FindProduct("P1")
	require.Equal(t, 10, p.Quantity)
	require.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodDelete, "/sales/S1", nil).Code)
}

func TestAddPurchaseRestocksAndCreatesSKUs(t *testing.T) {
	r, eng := newTestAPI(t)
	seedShop(t, eng)

	purchase := domain.Purchase{
		ID: "PO1", SupplierID: "SUP1", TotalAmount: 1000, Date: day(2),
		Items: []domain.PurchaseItem{
			{ProductID: "P1", ProductName: "Soap", Quantity: 20, UnitPrice: 18},
			{ProductID: "P2", ProductName: "Shampoo", Quantity: 10, UnitPrice: 64, SalePrice: 90},
		},
	}
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/purchases", purchase).Code)

	snap := eng.Snapshot()
	p1, _ := snap.FindProduct("P1")
	require.Equal(t, 30, p1.Quantity)
	require.Equal(t, 18.0, p1.PurchasePrice, "restock refreshes cost")
	p2, ok := snap.FindProduct("P2")
	require.True(t, ok, "purchase line declares the new SKU")
	require.Equal(t, 10, p2.Quantity)
}

func TestSalePaymentOverpaymentRejected(t *testing.T) {
	r, eng := newTestAPI(t)
	seedShop(t, eng)
	eng.Submit(t.Context(), ledger.AddSale{Sale: domain.Sale{
		ID: "S1", CustomerID: "C1", TotalAmount: 100,
		Items: []domain.SaleItem{{ProductID: "P1", Quantity: 4, UnitPrice: 25}},
		Date:  day(1),
	}})

	ok := map[string]any{"amount": 60.0, "date": day(2), "method": "UPI"}
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/sales/S1/payments", ok).Code)

	over := map[string]any{"amount": 41.0, "date": day(3), "method": "CASH"}
	require.Equal(t, http.StatusUnprocessableEntity, doJSON(t, r, http.MethodPost, "/sales/S1/payments", over).Code)

	exact := map[string]any{"amount": 40.0, "date": day(3), "method": "CASH"}
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/sales/S1/payments", exact).Code)

	sale, _ := eng.Snapshot().FindSale("S1")
	require.Len(t, sale.Payments, 2)
	require.InDelta(t, 0, report.SaleDue(sale), 1e-9)
}

func TestPaymentRejectsReturnCreditMethod(t *testing.T) {
	r, eng := newTestAPI(t)
	seedShop(t, eng)
	eng.Submit(t.Context(), ledger.AddSale{Sale: domain.Sale{
		ID: "S1", CustomerID: "C1", TotalAmount: 100,
		Items: []domain.SaleItem{{ProductID: "P1", Quantity: 4, UnitPrice: 25}},
		Date:  day(1),
	}})

	synthetic := map[string]any{"amount": 10.0, "date": day(2), "method": "RETURN_CREDIT"}
	require.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/sales/S1/payments", synthetic).Code,
		"RETURN_CREDIT is reserved for return-generated entries")
}

func TestReturnFlowEndToEnd(t *testing.T) {
	r, eng := newTestAPI(t)
	seedShop(t, eng)
	eng.Submit(t.Context(),
		ledger.AddSale{Sale: domain.Sale{
			ID: "S1", CustomerID: "C1", TotalAmount: 112,
			Items: []domain.SaleItem{{ProductID: "P1", Quantity: 4, UnitPrice: 28}},
			Date:  day(1),
		}},
		ledger.AdjustProductStock{ProductID: "P1", Delta: -4},
	)

	ret := domain.Return{
		ID: "R1", Type: domain.ReturnCustomer, ReferenceID: "S1", PartyID: "C1",
		Items:      []domain.ReturnItem{{ProductID: "P1", Quantity: 2, UnitPrice: 28}},
		ReturnDate: day(4), Amount: 56,
	}
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/returns", ret).Code)

	snap := eng.Snapshot()
	p, _ := snap.FindProduct("P1")
	require.Equal(t, 8, p.Quantity)
	sale, _ := snap.FindSale("S1")
	require.Len(t, sale.Payments, 1)
	require.Equal(t, "PAY-RET-R1", sale.Payments[0].ID)

	ret.Amount = 28
	ret.Items = []domain.ReturnItem{{ProductID: "P1", Quantity: 1, UnitPrice: 28}}
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, "/returns/R1", ret).Code)
	snap = eng.Snapshot()
	p, _ = snap.FindProduct("P1")
	require.Equal(t, 7, p.Quantity)
	sale, _ = snap.FindSale("S1")
	require.Len(t, sale.Payments, 1)
	require.Equal(t, 28.0, sale.Payments[0].Amount)

	require.Equal(t, http.StatusNoContent, doJSON(t, r, http.MethodDelete, "/returns/R1", nil).Code)
	snap = eng.Snapshot()
	p, _ = snap.FindProduct("P1")
	require.Equal(t, 6, p.Quantity)
	sale, _ = snap.FindSale("S1")
	require.Empty(t, sale.Payments)
}

func TestReturnAgainstUnknownInvoiceIs404(t *testing.T) {
	r, _ := newTestAPI(t)
	ret := domain.Return{
		ID: "R1", Type: domain.ReturnCustomer, ReferenceID: "ghost", PartyID: "C1",
		Items:      []domain.ReturnItem{{ProductID: "P1", Quantity: 1, UnitPrice: 28}},
		ReturnDate: day(4), Amount: 28,
	}
	require.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodPost, "/returns", ret).Code)
}

func TestReplaceAndExportCollection(t *testing.T) {
	r, eng := newTestAPI(t)

	products := []domain.Product{{ID: "P1", Name: "Soap", Quantity: 5}}
	require.Equal(t, http.StatusNoContent, doJSON(t, r, http.MethodPut, "/collections/products", products).Code)
	p, ok := eng.Snapshot().FindProduct("P1")
	require.True(t, ok)
	require.Equal(t, 5, p.Quantity)

	rec := doJSON(t, r, http.MethodGet, "/collections/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var exported []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exported))
	require.Equal(t, eng.Snapshot().Products, exported)

	require.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodPut, "/collections/bogus", []int{}).Code)
}

func TestAdjustStock(t *testing.T) {
	r, eng := newTestAPI(t)
	seedShop(t, eng)

	rec := doJSON(t, r, http.MethodPost, "/products/P1/stock", map[string]any{"delta": -3, "reason": "stock count"})
	require.Equal(t, http.StatusOK, rec.Code)
	p, _ := eng.Snapshot().FindProduct("P1")
	require.Equal(t, 7, p.Quantity)

	require.Equal(t, http.StatusNotFound,
		doJSON(t, r, http.MethodPost, "/products/ghost/stock", map[string]any{"delta": 1}).Code)
}
