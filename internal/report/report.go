// Package report computes derived values over a ledger snapshot: due
// amounts, sales totals and estimated profit. Everything here is a pure
// read; the reducer owns all mutation.
package report

import (
	"time"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
)

// fyStartMonth is the first month of the financial year.
const fyStartMonth = time.April

// PartyDue is one party's outstanding balance across its invoices.
type PartyDue struct {
	PartyID string  `json:"partyId"`
	Name    string  `json:"name"`
	Due     float64 `json:"due"`
}

func paymentsTotal(payments []domain.Payment) float64 {
	total := 0.0
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

// SaleDue is the sale's authoritative total minus its recorded payments.
func SaleDue(s domain.Sale) float64 {
	return s.TotalAmount - paymentsTotal(s.Payments)
}

// PurchaseDue is the purchase's total minus its recorded payments.
func PurchaseDue(p domain.Purchase) float64 {
	return p.TotalAmount - paymentsTotal(p.Payments)
}

// CustomerDues aggregates outstanding balances per customer. Dues are
// pre-summed into a map keyed by customer id before joining to the customer
// list, so the whole aggregation runs in O(sales + customers).
func CustomerDues(s domain.Snapshot) []PartyDue {
	byCustomer := make(map[string]float64, len(s.Customers))
	for _, sale := range s.Sales {
		byCustomer[sale.CustomerID] += SaleDue(sale)
	}
	out := make([]PartyDue, 0, len(s.Customers))
	for _, c := range s.Customers {
		out = append(out, PartyDue{PartyID: c.ID, Name: c.Name, Due: byCustomer[c.ID]})
	}
	return out
}

// SupplierDues aggregates outstanding balances per supplier, mirroring
// CustomerDues over purchases.
func SupplierDues(s domain.Snapshot) []PartyDue {
	bySupplier := make(map[string]float64, len(s.Suppliers))
	for _, purchase := range s.Purchases {
		bySupplier[purchase.SupplierID] += PurchaseDue(purchase)
	}
	out := make([]PartyDue, 0, len(s.Suppliers))
	for _, sp := range s.Suppliers {
		out = append(out, PartyDue{PartyID: sp.ID, Name: sp.Name, Due: bySupplier[sp.ID]})
	}
	return out
}

// MonthlySalesTotal sums sale totals for one calendar month.
func MonthlySalesTotal(s domain.Snapshot, year int, month time.Month) float64 {
	total := 0.0
	for _, sale := range s.Sales {
		if sale.Date.Year() == year && sale.Date.Month() == month {
			total += sale.TotalAmount
		}
	}
	return total
}

// FinancialYearSales breaks sale totals into the 12 months of the financial
// year starting April of fyStartYear; index 0 is April, index 11 the
// following March.
func FinancialYearSales(s domain.Snapshot, fyStartYear int) [12]float64 {
	var months [12]float64
	for _, sale := range s.Sales {
		idx := fyMonthIndex(sale.Date, fyStartYear)
		if idx >= 0 {
			months[idx] += sale.TotalAmount
		}
	}
	return months
}

func fyMonthIndex(date time.Time, fyStartYear int) int {
	year, month := date.Year(), date.Month()
	var idx int
	switch {
	case year == fyStartYear && month >= fyStartMonth:
		idx = int(month - fyStartMonth)
	case year == fyStartYear+1 && month < fyStartMonth:
		idx = int(month) + 12 - int(fyStartMonth)
	default:
		return -1
	}
	return idx
}

// EstimatedProfit sums, over the sales accepted by keep (nil keeps all),
// the sale total minus the cost of its lines at the product's current
// purchase price. Cost basis is deliberately not locked at sale time.
func EstimatedProfit(s domain.Snapshot, keep func(domain.Sale) bool) float64 {
	costByID := make(map[string]float64, len(s.Products))
	for _, p := range s.Products {
		costByID[p.ID] = p.PurchasePrice
	}
	profit := 0.0
	for _, sale := range s.Sales {
		if keep != nil && !keep(sale) {
			continue
		}
		cost := 0.0
		for _, it := range sale.Items {
			cost += float64(it.Quantity) * costByID[it.ProductID]
		}
		profit += sale.TotalAmount - cost
	}
	return profit
}

// SalesBetween is a keep filter for EstimatedProfit over [from, to).
func SalesBetween(from, to time.Time) func(domain.Sale) bool {
	return func(s domain.Sale) bool {
		return !s.Date.Before(from) && s.Date.Before(to)
	}
}
