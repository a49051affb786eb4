// Package store defines the durable collection store the ledger persists
// into: per-kind get-all/replace-all over JSON documents. The store is a
// write-behind target, never a transaction participant.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
)

// Collections is the collection-store port.
type Collections interface {
	GetAll(ctx context.Context, kind domain.Kind) ([]json.RawMessage, error)
	ReplaceAll(ctx context.Context, kind domain.Kind, docs []json.RawMessage) error
}

// EncodeCollection marshals one snapshot collection into store documents.
func EncodeCollection(s domain.Snapshot, kind domain.Kind) ([]json.RawMessage, error) {
	switch kind {
	case domain.KindProducts:
		return encodeSlice(s.Products)
	case domain.KindCustomers:
		return encodeSlice(s.Customers)
	case domain.KindSuppliers:
		return encodeSlice(s.Suppliers)
	case domain.KindSales:
		return encodeSlice(s.Sales)
	case domain.KindPurchases:
		return encodeSlice(s.Purchases)
	case domain.KindReturns:
		return encodeSlice(s.Returns)
	}
	return nil, fmt.Errorf("store: unknown kind %q", kind)
}

// DecodeCollection unmarshals store documents into the matching snapshot
// collection.
func DecodeCollection(s *domain.Snapshot, kind domain.Kind, docs []json.RawMessage) error {
	switch kind {
	case domain.KindProducts:
		return decodeSlice(docs, &s.Products)
	case domain.KindCustomers:
		return decodeSlice(docs, &s.Customers)
	case domain.KindSuppliers:
		return decodeSlice(docs, &s.Suppliers)
	case domain.KindSales:
		return decodeSlice(docs, &s.Sales)
	case domain.KindPurchases:
		return decodeSlice(docs, &s.Purchases)
	case domain.KindReturns:
		return decodeSlice(docs, &s.Returns)
	}
	return fmt.Errorf("store: unknown kind %q", kind)
}

// LoadSnapshot hydrates a full snapshot from the store.
func LoadSnapshot(ctx context.Context, c Collections) (domain.Snapshot, error) {
	var s domain.Snapshot
	for _, kind := range domain.Kinds() {
		docs, err := c.GetAll(ctx, kind)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("store: load %s: %w", kind, err)
		}
		if err := DecodeCollection(&s, kind, docs); err != nil {
			return domain.Snapshot{}, fmt.Errorf("store: decode %s: %w", kind, err)
		}
	}
	return s, nil
}

func encodeSlice[T any](items []T) ([]json.RawMessage, error) {
	docs := make([]json.RawMessage, 0, len(items))
	for i := range items {
		raw, err := json.Marshal(items[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, raw)
	}
	return docs, nil
}

func decodeSlice[T any](docs []json.RawMessage, out *[]T) error {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := json.Unmarshal(doc, &item); err != nil {
			return err
		}
		items = append(items, item)
	}
	*out = items
	return nil
}
