// Package domain defines the entity model for the retail ledger.
package domain

import "time"

// Kind names a persisted collection of entities.
type Kind string

const (
	// KindProducts is the product master collection.
	KindProducts Kind = "products"
	// KindCustomers is the customer collection.
	KindCustomers Kind = "customers"
	// KindSuppliers is the supplier collection.
	KindSuppliers Kind = "suppliers"
	// KindSales is the sales invoice collection.
	KindSales Kind = "sales"
	// KindPurchases is the purchase invoice collection.
	KindPurchases Kind = "purchases"
	// KindReturns is the returns collection.
	KindReturns Kind = "returns"
)

// Kinds lists every collection kind in load/persist order.
func Kinds() []Kind {
	return []Kind{KindProducts, KindCustomers, KindSuppliers, KindSales, KindPurchases, KindReturns}
}

// PaymentMethod enumerates how a payment was settled.
type PaymentMethod string

const (
	// MethodCash is a cash payment.
	MethodCash PaymentMethod = "CASH"
	// MethodUPI is a UPI transfer.
	MethodUPI PaymentMethod = "UPI"
	// MethodCard is a debit/credit card payment.
	MethodCard PaymentMethod = "CARD"
	// MethodCheque is a cheque payment.
	MethodCheque PaymentMethod = "CHEQUE"
	// MethodBankTransfer is a direct bank transfer.
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	// MethodReturnCredit marks a synthetic credit generated by a return,
	// not money actually received.
	MethodReturnCredit PaymentMethod = "RETURN_CREDIT"
)

// ReturnType distinguishes the direction of a return.
type ReturnType string

const (
	// ReturnCustomer is goods coming back from a customer (stock in).
	ReturnCustomer ReturnType = "CUSTOMER"
	// ReturnSupplier is goods sent back to a supplier (stock out).
	ReturnSupplier ReturnType = "SUPPLIER"
)

// Product is a stocked SKU. Quantity is the on-hand count maintained by the
// ledger through signed deltas.
type Product struct {
	ID            string  `json:"id" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Quantity      int     `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
	SalePrice     float64 `json:"salePrice"`
	GSTPercent    float64 `json:"gstPercent"`
}

// Customer identifies a buying party. Historical sales keep referencing a
// customer id even after the customer record is edited.
type Customer struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	GSTIN   string `json:"gstin,omitempty"`
}

// Supplier identifies a supplying party.
type Supplier struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	GSTIN   string `json:"gstin,omitempty"`
}

// Payment is owned by exactly one Sale or Purchase and lives embedded in the
// parent's payment list.
type Payment struct {
	ID        string        `json:"id"`
	Amount    float64       `json:"amount"`
	Date      time.Time     `json:"date"`
	Method    PaymentMethod `json:"method"`
	Reference string        `json:"reference,omitempty"`
}

// SaleItem is a sale line. Name and price are snapshotted at transaction
// time; later product edits must not rewrite historical invoices.
type SaleItem struct {
	ProductID   string  `json:"productId" validate:"required"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice"`
	GSTPercent  float64 `json:"gstPercent,omitempty"`
}

// PurchaseItem is a purchase line with snapshotted name and cost.
type PurchaseItem struct {
	ProductID   string  `json:"productId" validate:"required"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice"`
	SalePrice   float64 `json:"salePrice,omitempty"`
	GSTPercent  float64 `json:"gstPercent,omitempty"`
}

// ReturnItem is a returned line referencing the product by id.
type ReturnItem struct {
	ProductID   string  `json:"productId" validate:"required"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Sale is a customer invoice. TotalAmount is authoritative and never
// re-derived from items at read time.
type Sale struct {
	ID          string     `json:"id" validate:"required"`
	CustomerID  string     `json:"customerId" validate:"required"`
	Items       []SaleItem `json:"items" validate:"min=1,dive"`
	Discount    float64    `json:"discount,omitempty"`
	GSTAmount   float64    `json:"gstAmount,omitempty"`
	TotalAmount float64    `json:"totalAmount"`
	Date        time.Time  `json:"date"`
	Payments    []Payment  `json:"payments,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// Purchase is a supplier invoice, the mirror image of Sale.
type Purchase struct {
	ID                string         `json:"id" validate:"required"`
	SupplierID        string         `json:"supplierId" validate:"required"`
	SupplierInvoiceID string         `json:"supplierInvoiceId,omitempty"`
	Items             []PurchaseItem `json:"items" validate:"min=1,dive"`
	Discount          float64        `json:"discount,omitempty"`
	GSTAmount         float64        `json:"gstAmount,omitempty"`
	TotalAmount       float64        `json:"totalAmount"`
	Date              time.Time      `json:"date"`
	Payments          []Payment      `json:"payments,omitempty"`
	Notes             string         `json:"notes,omitempty"`
}

// Return corrects a prior Sale (CUSTOMER) or Purchase (SUPPLIER), identified
// by ReferenceID. Amount is the credit or refund value.
type Return struct {
	ID          string       `json:"id" validate:"required"`
	Type        ReturnType   `json:"type" validate:"required,oneof=CUSTOMER SUPPLIER"`
	ReferenceID string       `json:"referenceId" validate:"required"`
	PartyID     string       `json:"partyId" validate:"required"`
	Items       []ReturnItem `json:"items" validate:"min=1,dive"`
	ReturnDate  time.Time    `json:"returnDate"`
	Amount      float64      `json:"amount"`
	Reason      string       `json:"reason,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}
