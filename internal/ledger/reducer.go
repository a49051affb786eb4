package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
)

// returnPaymentPrefix derives a return's credit payment id from the return
// id, keeping it stable across edits of the return.
const returnPaymentPrefix = "PAY-RET-"

// ReturnPaymentID is the id of the synthetic credit payment generated for a
// return.
func ReturnPaymentID(returnID string) string {
	return returnPaymentPrefix + returnID
}

// Apply is the single state-mutation authority. It is a total pure function:
// every event variant has a defined effect, missing references degrade to a
// no-op for the affected sub-effect, and the input snapshot is never written
// in place.
func Apply(s domain.Snapshot, e Event) domain.Snapshot {
	switch ev := e.(type) {
	case AddCustomer:
		s.Customers = append(slices.Clone(s.Customers), ev.Customer)
	case UpdateCustomer:
		s.Customers = replaceCustomer(s.Customers, ev.Customer)
	case AddSupplier:
		s.Suppliers = append(slices.Clone(s.Suppliers), ev.Supplier)
	case UpdateSupplier:
		s.Suppliers = replaceSupplier(s.Suppliers, ev.Supplier)
	case AddProduct:
		s.Products = mergeProduct(s.Products, ev.Product)
	case UpdateProduct:
		s.Products = replaceProduct(s.Products, ev.Product)
	case AdjustProductStock:
		s.Products = applyStockDeltas(s.Products, map[string]int{ev.ProductID: ev.Delta}, false)
	case AddSale:
		s.Sales = append(slices.Clone(s.Sales), ev.Sale)
	case UpdateSale:
		s = applyUpdateSale(s, ev)
	case DeleteSale:
		s = applyDeleteSale(s, ev.ID)
	case AddPurchase:
		s.Purchases = append(slices.Clone(s.Purchases), ev.Purchase)
	case UpdatePurchase:
		s = applyUpdatePurchase(s, ev)
	case DeletePurchase:
		s = applyDeletePurchase(s, ev.ID)
	case AddReturn:
		s = applyAddReturn(s, ev.Return)
	case UpdateReturn:
		s = applyUpdateReturn(s, ev)
	case DeleteReturn:
		s = applyDeleteReturn(s, ev.ID)
	case AddPaymentToSale:
		s.Sales = appendSalePayment(s.Sales, ev.SaleID, ev.Payment)
	case AddPaymentToPurchase:
		s.Purchases = appendPurchasePayment(s.Purchases, ev.PurchaseID, ev.Payment)
	case ReplaceCollection:
		s = applyReplaceCollection(s, ev)
	default:
		// Unknown events are identity, never an error.
	}
	return s
}

// ApplyAll folds a batch of events over the snapshot in order.
func ApplyAll(s domain.Snapshot, events ...Event) domain.Snapshot {
	for _, e := range events {
		s = Apply(s, e)
	}
	return s
}

func applyUpdateSale(s domain.Snapshot, ev UpdateSale) domain.Snapshot {
	// Return the old lines' stock, consume the new lines', netted per
	// product so a product appearing in both lists moves once.
	deltas := make(map[string]int)
	for _, it := range ev.Old.Items {
		deltas[it.ProductID] += it.Quantity
	}
	for _, it := range ev.New.Items {
		deltas[it.ProductID] -= it.Quantity
	}
	s.Products = applyStockDeltas(s.Products, deltas, false)
	s.Sales = replaceSale(s.Sales, ev.Old.ID, ev.New)
	return s
}

func applyDeleteSale(s domain.Snapshot, id string) domain.Snapshot {
	sale, ok := s.FindSale(id)
	if !ok {
		return s
	}
	deltas := make(map[string]int)
	for _, it := range sale.Items {
		deltas[it.ProductID] += it.Quantity
	}
	// Sale reversal may leave stock negative on purpose: oversold stock is a
	// legitimate correction, unlike over-reverted purchases.
	s.Products = applyStockDeltas(s.Products, deltas, false)
	s.Sales = slices.DeleteFunc(slices.Clone(s.Sales), func(x domain.Sale) bool { return x.ID == id })
	return s
}

func applyUpdatePurchase(s domain.Snapshot, ev UpdatePurchase) domain.Snapshot {
	// A purchase edit can introduce a SKU that did not exist when the
	// purchase was first created. Create it empty, then let the netted
	// delta fill in its quantity; existing SKUs get their metadata
	// refreshed from the new line's snapshot.
	products := slices.Clone(s.Products)
	for _, it := range ev.New.Items {
		idx := slices.IndexFunc(products, func(p domain.Product) bool { return p.ID == it.ProductID })
		if idx < 0 {
			products = append(products, domain.Product{
				ID:            it.ProductID,
				Name:          it.ProductName,
				PurchasePrice: it.UnitPrice,
				SalePrice:     it.SalePrice,
				GSTPercent:    it.GSTPercent,
			})
			continue
		}
		products[idx].Name = it.ProductName
		products[idx].PurchasePrice = it.UnitPrice
		products[idx].GSTPercent = it.GSTPercent
		if it.SalePrice > 0 {
			products[idx].SalePrice = it.SalePrice
		}
	}
	deltas := make(map[string]int)
	for _, it := range ev.Old.Items {
		deltas[it.ProductID] -= it.Quantity
	}
	for _, it := range ev.New.Items {
		deltas[it.ProductID] += it.Quantity
	}
	s.Products = applyStockDeltas(products, deltas, true)
	s.Purchases = replacePurchase(s.Purchases, ev.Old.ID, ev.New)
	return s
}

func applyDeletePurchase(s domain.Snapshot, id string) domain.Snapshot {
	purchase, ok := s.FindPurchase(id)
	if !ok {
		return s
	}
	deltas := make(map[string]int)
	for _, it := range purchase.Items {
		deltas[it.ProductID] -= it.Quantity
	}
	s.Products = applyStockDeltas(s.Products, deltas, true)
	s.Purchases = slices.DeleteFunc(slices.Clone(s.Purchases), func(x domain.Purchase) bool { return x.ID == id })
	return s
}

func applyAddReturn(s domain.Snapshot, r domain.Return) domain.Snapshot {
	s.Products = applyReturnStockDeltas(s.Products, returnDeltas(r, 1))
	credit := domain.Payment{
		ID:     ReturnPaymentID(r.ID),
		Amount: r.Amount,
		Date:   r.ReturnDate,
		Method: domain.MethodReturnCredit,
	}
	if r.Type == domain.ReturnCustomer {
		s.Sales = appendSalePayment(s.Sales, r.ReferenceID, credit)
	} else {
		s.Purchases = appendPurchasePayment(s.Purchases, r.ReferenceID, credit)
	}
	s.Returns = append(slices.Clone(s.Returns), r)
	return s
}

func applyUpdateReturn(s domain.Snapshot, ev UpdateReturn) domain.Snapshot {
	deltas := returnDeltas(ev.Old, -1)
	for id, d := range returnDeltas(ev.New, 1) {
		deltas[id] += d
	}
	s.Products = applyReturnStockDeltas(s.Products, deltas)
	// The credit payment id is derived from the return id and stays stable
	// across the edit; rewrite it in place rather than appending a second
	// entry.
	payID := ReturnPaymentID(ev.Old.ID)
	if ev.New.Type == domain.ReturnCustomer {
		s.Sales = rewriteSalePayment(s.Sales, ev.New.ReferenceID, payID, ev.New.Amount, ev.New.ReturnDate)
	} else {
		s.Purchases = rewritePurchasePayment(s.Purchases, ev.New.ReferenceID, payID, ev.New.Amount, ev.New.ReturnDate)
	}
	s.Returns = replaceReturn(s.Returns, ev.Old.ID, ev.New)
	return s
}

func applyDeleteReturn(s domain.Snapshot, id string) domain.Snapshot {
	r, ok := s.FindReturn(id)
	if !ok {
		return s
	}
	s.Products = applyReturnStockDeltas(s.Products, returnDeltas(r, -1))
	payID := ReturnPaymentID(r.ID)
	if r.Type == domain.ReturnCustomer {
		s.Sales = removeSalePayment(s.Sales, r.ReferenceID, payID)
	} else {
		s.Purchases = removePurchasePayment(s.Purchases, r.ReferenceID, payID)
	}
	s.Returns = slices.DeleteFunc(slices.Clone(s.Returns), func(x domain.Return) bool { return x.ID == id })
	return s
}

func applyReplaceCollection(s domain.Snapshot, ev ReplaceCollection) domain.Snapshot {
	switch ev.Kind {
	case domain.KindProducts:
		s.Products = slices.Clone(ev.Products)
	case domain.KindCustomers:
		s.Customers = slices.Clone(ev.Customers)
	case domain.KindSuppliers:
		s.Suppliers = slices.Clone(ev.Suppliers)
	case domain.KindSales:
		s.Sales = slices.Clone(ev.Sales)
	case domain.KindPurchases:
		s.Purchases = slices.Clone(ev.Purchases)
	case domain.KindReturns:
		s.Returns = slices.Clone(ev.Returns)
	}
	return s
}

// returnDeltas maps each return line to its signed stock delta: customer
// returns bring stock back in, supplier returns send it out. Keys are
// case-folded because return items resolve products case-insensitively.
func returnDeltas(r domain.Return, sign int) map[string]int {
	if r.Type == domain.ReturnSupplier {
		sign = -sign
	}
	deltas := make(map[string]int)
	for _, it := range r.Items {
		deltas[strings.ToLower(it.ProductID)] += sign * it.Quantity
	}
	return deltas
}

// applyReturnStockDeltas resolves each return delta to the first product
// whose id matches case-insensitively and moves that product's stock only.
// Exact-match paths tolerate ids differing only in case, so a folded key can
// face several candidates; picking one keeps total stock conserved.
func applyReturnStockDeltas(products []domain.Product, deltas map[string]int) []domain.Product {
	if len(deltas) == 0 {
		return products
	}
	out := slices.Clone(products)
	for key, d := range deltas {
		if d == 0 {
			continue
		}
		idx := slices.IndexFunc(out, func(p domain.Product) bool { return strings.EqualFold(p.ID, key) })
		if idx < 0 {
			continue
		}
		out[idx].Quantity += d
	}
	return out
}

// applyStockDeltas applies the per-product signed deltas in one pass,
// matching ids exactly. floorAtZero clamps the result on purchase-revert
// paths.
func applyStockDeltas(products []domain.Product, deltas map[string]int, floorAtZero bool) []domain.Product {
	if len(deltas) == 0 {
		return products
	}
	out := slices.Clone(products)
	for i := range out {
		d, ok := deltas[out[i].ID]
		if !ok || d == 0 {
			continue
		}
		q := out[i].Quantity + d
		if floorAtZero && q < 0 {
			q = 0
		}
		out[i].Quantity = q
	}
	return out
}

func mergeProduct(products []domain.Product, p domain.Product) []domain.Product {
	out := slices.Clone(products)
	for i := range out {
		if out[i].ID != p.ID {
			continue
		}
		// Receiving more stock of a known SKU: additive on quantity,
		// last-write-wins on prices.
		out[i].Quantity += p.Quantity
		out[i].PurchasePrice = p.PurchasePrice
		out[i].SalePrice = p.SalePrice
		return out
	}
	return append(out, p)
}

func replaceProduct(products []domain.Product, p domain.Product) []domain.Product {
	out := slices.Clone(products)
	for i := range out {
		if out[i].ID == p.ID {
			out[i] = p
		}
	}
	return out
}

func replaceCustomer(customers []domain.Customer, c domain.Customer) []domain.Customer {
	out := slices.Clone(customers)
	for i := range out {
		if out[i].ID == c.ID {
			out[i] = c
		}
	}
	return out
}

func replaceSupplier(suppliers []domain.Supplier, sp domain.Supplier) []domain.Supplier {
	out := slices.Clone(suppliers)
	for i := range out {
		if out[i].ID == sp.ID {
			out[i] = sp
		}
	}
	return out
}

func replaceSale(sales []domain.Sale, id string, sale domain.Sale) []domain.Sale {
	out := slices.Clone(sales)
	for i := range out {
		if out[i].ID == id {
			out[i] = sale
		}
	}
	return out
}

func replacePurchase(purchases []domain.Purchase, id string, purchase domain.Purchase) []domain.Purchase {
	out := slices.Clone(purchases)
	for i := range out {
		if out[i].ID == id {
			out[i] = purchase
		}
	}
	return out
}

func replaceReturn(returns []domain.Return, id string, r domain.Return) []domain.Return {
	out := slices.Clone(returns)
	for i := range out {
		if out[i].ID == id {
			out[i] = r
		}
	}
	return out
}

func appendSalePayment(sales []domain.Sale, saleID string, p domain.Payment) []domain.Sale {
	out := slices.Clone(sales)
	for i := range out {
		if out[i].ID == saleID {
			out[i].Payments = append(slices.Clone(out[i].Payments), p)
		}
	}
	return out
}

func appendPurchasePayment(purchases []domain.Purchase, purchaseID string, p domain.Payment) []domain.Purchase {
	out := slices.Clone(purchases)
	for i := range out {
		if out[i].ID == purchaseID {
			out[i].Payments = append(slices.Clone(out[i].Payments), p)
		}
	}
	return out
}

func rewriteSalePayment(sales []domain.Sale, saleID, paymentID string, amount float64, date time.Time) []domain.Sale {
	out := slices.Clone(sales)
	for i := range out {
		if out[i].ID != saleID {
			continue
		}
		payments := slices.Clone(out[i].Payments)
		for j := range payments {
			if payments[j].ID == paymentID {
				payments[j].Amount = amount
				payments[j].Date = date
			}
		}
		out[i].Payments = payments
	}
	return out
}

func rewritePurchasePayment(purchases []domain.Purchase, purchaseID, paymentID string, amount float64, date time.Time) []domain.Purchase {
	out := slices.Clone(purchases)
	for i := range out {
		if out[i].ID != purchaseID {
			continue
		}
		payments := slices.Clone(out[i].Payments)
		for j := range payments {
			if payments[j].ID == paymentID {
				payments[j].Amount = amount
				payments[j].Date = date
			}
		}
		out[i].Payments = payments
	}
	return out
}

func removeSalePayment(sales []domain.Sale, saleID, paymentID string) []domain.Sale {
	out := slices.Clone(sales)
	for i := range out {
		if out[i].ID == saleID {
			out[i].Payments = slices.DeleteFunc(slices.Clone(out[i].Payments), func(p domain.Payment) bool {
				return p.ID == paymentID
			})
		}
	}
	return out
}

func removePurchasePayment(purchases []domain.Purchase, purchaseID, paymentID string) []domain.Purchase {
	out := slices.Clone(purchases)
	for i := range out {
		if out[i].ID == purchaseID {
			out[i].Payments = slices.DeleteFunc(slices.Clone(out[i].Payments), func(p domain.Payment) bool {
				return p.ID == paymentID
			})
		}
	}
	return out
}
