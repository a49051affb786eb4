package report

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/platform/httpx"
)

// SnapshotProvider hands read-only snapshots to the report layer.
type SnapshotProvider interface {
	Snapshot() domain.Snapshot
}

// Handler serves the reporting endpoints over the current snapshot.
type Handler struct {
	logger    *slog.Logger
	snapshots SnapshotProvider
	cache     *Cache
}

// NewHandler constructs the report handler.
func NewHandler(logger *slog.Logger, snapshots SnapshotProvider, cache *Cache) *Handler {
	return &Handler{logger: logger, snapshots: snapshots, cache: cache}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dues/customers", h.handleCustomerDues)
	r.Get("/dues/suppliers", h.handleSupplierDues)
	r.Get("/sales/monthly", h.handleMonthlySales)
	r.Get("/sales/financial-year", h.handleFinancialYearSales)
	r.Get("/profit", h.handleProfit)
}

type dueRow struct {
	PartyID    string  `json:"partyId"`
	Name       string  `json:"name"`
	Due        float64 `json:"due"`
	DueDisplay string  `json:"dueDisplay"`
}

func dueRows(dues []PartyDue) []dueRow {
	rows := make([]dueRow, 0, len(dues))
	for _, d := range dues {
		rows = append(rows, dueRow{PartyID: d.PartyID, Name: d.Name, Due: d.Due, DueDisplay: FormatAmount(d.Due)})
	}
	return rows
}

func (h *Handler) handleCustomerDues(w http.ResponseWriter, r *http.Request) {
	var rows []dueRow
	err := h.cache.FetchJSON(r.Context(), "report:dues:customers", &rows, func(context.Context) (any, error) {
		return dueRows(CustomerDues(h.snapshots.Snapshot())), nil
	})
	if err != nil {
		h.logger.Error("customer dues", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "report failed", "could not compute customer dues")
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) handleSupplierDues(w http.ResponseWriter, r *http.Request) {
	var rows []dueRow
	err := h.cache.FetchJSON(r.Context(), "report:dues:suppliers", &rows, func(context.Context) (any, error) {
		return dueRows(SupplierDues(h.snapshots.Snapshot())), nil
	})
	if err != nil {
		h.logger.Error("supplier dues", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "report failed", "could not compute supplier dues")
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) handleMonthlySales(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid query", "year must be an integer")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		httpx.Problem(w, http.StatusBadRequest, "invalid query", "month must be 1-12")
		return
	}
	total := MonthlySalesTotal(h.snapshots.Snapshot(), year, time.Month(month))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"year":         year,
		"month":        month,
		"total":        total,
		"totalDisplay": FormatAmount(total),
	})
}

func (h *Handler) handleFinancialYearSales(w http.ResponseWriter, r *http.Request) {
	start, err := strconv.Atoi(r.URL.Query().Get("start"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid query", "start must be the financial year's starting calendar year")
		return
	}
	months := FinancialYearSales(h.snapshots.Snapshot(), start)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"start":  start,
		"months": months[:],
	})
}

func (h *Handler) handleProfit(w http.ResponseWriter, r *http.Request) {
	keep, problem := profitFilter(r)
	if problem != "" {
		httpx.Problem(w, http.StatusBadRequest, "invalid query", problem)
		return
	}
	profit := EstimatedProfit(h.snapshots.Snapshot(), keep)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"profit":        profit,
		"profitDisplay": FormatAmount(profit),
	})
}

func profitFilter(r *http.Request) (func(domain.Sale) bool, string) {
	fromStr, toStr := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if fromStr == "" && toStr == "" {
		return nil, ""
	}
	from, err := time.Parse(time.DateOnly, fromStr)
	if err != nil {
		return nil, "from must be YYYY-MM-DD"
	}
	to, err := time.Parse(time.DateOnly, toStr)
	if err != nil {
		return nil, "to must be YYYY-MM-DD"
	}
	return SalesBetween(from, to), ""
}
