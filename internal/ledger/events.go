// Package ledger implements the transaction-consistency engine: a pure
// reducer that applies domain events to an immutable snapshot while keeping
// product stock and payment ledgers consistent.
package ledger

import "github.com/bahikhata-erp/bahikhata/internal/domain"

// Event is the closed set of state mutations. Apply is total over it; any
// event outside the set leaves the snapshot unchanged.
type Event interface {
	// Touches reports which collections the event can modify, used by the
	// hosting layer to decide what to persist after an applied batch.
	Touches() []domain.Kind
}

// AddCustomer appends a customer record.
type AddCustomer struct {
	Customer domain.Customer
}

// UpdateCustomer replaces a customer record by id.
type UpdateCustomer struct {
	Customer domain.Customer
}

// AddSupplier appends a supplier record.
type AddSupplier struct {
	Supplier domain.Supplier
}

// UpdateSupplier replaces a supplier record by id.
type UpdateSupplier struct {
	Supplier domain.Supplier
}

// AddProduct inserts a new SKU, or merges into an existing one: quantity is
// additive, purchase/sale price are last-write-wins. One event shape covers
// both "declare a new SKU" and "receive more stock of an existing SKU".
type AddProduct struct {
	Product domain.Product
}

// UpdateProduct fully replaces a product record by id. Used for metadata
// edits, not stock math.
type UpdateProduct struct {
	Product domain.Product
}

// AdjustProductStock applies a signed delta to one product's on-hand count.
// Manual inventory corrections and sale stock movement both ride on it.
type AdjustProductStock struct {
	ProductID string
	Delta     int
}

// AddSale appends a sale record. Stock movement for the sale's lines is
// raised separately as AdjustProductStock events by the caller.
type AddSale struct {
	Sale domain.Sale
}

// UpdateSale replaces a sale by id, returning the old lines' stock and
// consuming the new lines' stock as one netted per-product adjustment.
type UpdateSale struct {
	Old domain.Sale
	New domain.Sale
}

// DeleteSale removes a sale and restores its lines' stock.
type DeleteSale struct {
	ID string
}

// AddPurchase appends a purchase record. The stock effect of its lines is
// raised separately as AddProduct events by the caller.
type AddPurchase struct {
	Purchase domain.Purchase
}

// UpdatePurchase replaces a purchase by id, netting the per-product quantity
// change (floored at zero) and refreshing product metadata from the new
// lines. Lines for SKUs that do not exist yet create the product.
type UpdatePurchase struct {
	Old domain.Purchase
	New domain.Purchase
}

// DeletePurchase removes a purchase, reverting its lines' stock with a floor
// at zero.
type DeletePurchase struct {
	ID string
}

// AddReturn records a return, moves stock by the return direction and
// injects a RETURN_CREDIT payment into the referenced invoice.
type AddReturn struct {
	Return domain.Return
}

// UpdateReturn replaces a return by id, nets the stock effect of old versus
// new, and rewrites the return's credit payment in place.
type UpdateReturn struct {
	Old domain.Return
	New domain.Return
}

// DeleteReturn removes a return, reverting its stock effect and removing its
// credit payment from the referenced invoice.
type DeleteReturn struct {
	ID string
}

// AddPaymentToSale appends a payment to a sale's ledger. Overpayment checks
// belong to the caller, not the reducer.
type AddPaymentToSale struct {
	SaleID  string
	Payment domain.Payment
}

// AddPaymentToPurchase appends a payment to a purchase's ledger.
type AddPaymentToPurchase struct {
	PurchaseID string
	Payment    domain.Payment
}

// ReplaceCollection swaps one collection wholesale, with no cross-entity
// reconciliation. Used by import and backup restore.
type ReplaceCollection struct {
	Kind      domain.Kind
	Products  []domain.Product
	Customers []domain.Customer
	Suppliers []domain.Supplier
	Sales     []domain.Sale
	Purchases []domain.Purchase
	Returns   []domain.Return
}

// Touches implementations.

func (AddCustomer) Touches() []domain.Kind    { return []domain.Kind{domain.KindCustomers} }
func (UpdateCustomer) Touches() []domain.Kind { return []domain.Kind{domain.KindCustomers} }
func (AddSupplier) Touches() []domain.Kind    { return []domain.Kind{domain.KindSuppliers} }
func (UpdateSupplier) Touches() []domain.Kind { return []domain.Kind{domain.KindSuppliers} }
func (AddProduct) Touches() []domain.Kind     { return []domain.Kind{domain.KindProducts} }
func (UpdateProduct) Touches() []domain.Kind  { return []domain.Kind{domain.KindProducts} }
func (AdjustProductStock) Touches() []domain.Kind {
	return []domain.Kind{domain.KindProducts}
}
func (AddSale) Touches() []domain.Kind { return []domain.Kind{domain.KindSales} }
func (UpdateSale) Touches() []domain.Kind {
	return []domain.Kind{domain.KindSales, domain.KindProducts}
}
func (DeleteSale) Touches() []domain.Kind {
	return []domain.Kind{domain.KindSales, domain.KindProducts}
}
func (AddPurchase) Touches() []domain.Kind { return []domain.Kind{domain.KindPurchases} }
func (UpdatePurchase) Touches() []domain.Kind {
	return []domain.Kind{domain.KindPurchases, domain.KindProducts}
}
func (DeletePurchase) Touches() []domain.Kind {
	return []domain.Kind{domain.KindPurchases, domain.KindProducts}
}
func (AddReturn) Touches() []domain.Kind {
	return []domain.Kind{domain.KindReturns, domain.KindProducts, domain.KindSales, domain.KindPurchases}
}
func (UpdateReturn) Touches() []domain.Kind {
	return []domain.Kind{domain.KindReturns, domain.KindProducts, domain.KindSales, domain.KindPurchases}
}
func (DeleteReturn) Touches() []domain.Kind {
	return []domain.Kind{domain.KindReturns, domain.KindProducts, domain.KindSales, domain.KindPurchases}
}
func (AddPaymentToSale) Touches() []domain.Kind     { return []domain.Kind{domain.KindSales} }
func (AddPaymentToPurchase) Touches() []domain.Kind { return []domain.Kind{domain.KindPurchases} }
func (e ReplaceCollection) Touches() []domain.Kind  { return []domain.Kind{e.Kind} }
