package domain

// Snapshot is a fully-applied view of every collection. The ledger treats a
// Snapshot as immutable: every mutation produces a fresh value and the slices
// of a published Snapshot are never written in place.
type Snapshot struct {
	Products  []Product
	Customers []Customer
	Suppliers []Supplier
	Sales     []Sale
	Purchases []Purchase
	Returns   []Return
}

// FindProduct returns the product with the given id, exact match.
func (s Snapshot) FindProduct(id string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// FindSale returns the sale with the given id.
func (s Snapshot) FindSale(id string) (Sale, bool) {
	for _, sale := range s.Sales {
		if sale.ID == id {
			return sale, true
		}
	}
	return Sale{}, false
}

// FindPurchase returns the purchase with the given id.
func (s Snapshot) FindPurchase(id string) (Purchase, bool) {
	for _, purchase := range s.Purchases {
		if purchase.ID == id {
			return purchase, true
		}
	}
	return Purchase{}, false
}

// FindCustomer returns the customer with the given id.
func (s Snapshot) FindCustomer(id string) (Customer, bool) {
	for _, c := range s.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

// FindSupplier returns the supplier with the given id.
func (s Snapshot) FindSupplier(id string) (Supplier, bool) {
	for _, sp := range s.Suppliers {
		if sp.ID == id {
			return sp, true
		}
	}
	return Supplier{}, false
}

// FindReturn returns the return with the given id.
func (s Snapshot) FindReturn(id string) (Return, bool) {
	for _, r := range s.Returns {
		if r.ID == id {
			return r, true
		}
	}
	return Return{}, false
}
