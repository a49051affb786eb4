package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/ledger"
	"github.com/bahikhata-erp/bahikhata/internal/store/memory"
)

type captureSink struct {
	mu    sync.Mutex
	kinds []domain.Kind
	last  map[domain.Kind][]json.RawMessage
}

func (c *captureSink) CollectionChanged(_ context.Context, kind domain.Kind, docs []json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kinds = append(c.kinds, kind)
	if c.last == nil {
		c.last = make(map[domain.Kind][]json.RawMessage)
	}
	c.last[kind] = docs
	return nil
}

func TestSubmitPublishesAndPersistsDirtyKinds(t *testing.T) {
	sink := &captureSink{}
	eng := New(slog.Default(), sink)
	ctx := context.Background()

	eng.Submit(ctx, ledger.AddProduct{Product: domain.Product{ID: "P1", Name: "Soap", Quantity: 10}})
	snap := eng.Submit(ctx,
		ledger.AddSale{Sale: domain.Sale{ID: "S1", CustomerID: "C1", TotalAmount: 50,
			Items: []domain.SaleItem{{ProductID: "P1", Quantity: 2, UnitPrice: 25}}}},
		ledger.AdjustProductStock{ProductID: "P1", Delta: -2},
	)

	p, ok := snap.FindProduct("P1")
	require.True(t, ok)
	require.Equal(t, 8, p.Quantity)
	require.Len(t, snap.Sales, 1)

	require.Contains(t, sink.kinds, domain.KindProducts)
	require.Contains(t, sink.kinds, domain.KindSales)
	var persisted []domain.Product
	for _, doc := range sink.last[domain.KindProducts] {
		var prod domain.Product
		require.NoError(t, json.Unmarshal(doc, &prod))
		persisted = append(persisted, prod)
	}
	require.Equal(t, snap.Products, persisted, "sink sees the published collection contents")
}

func TestReadersSeeFullyAppliedBatches(t *testing.T) {
	eng := New(slog.Default(), nil)
	ctx := context.Background()

	before := eng.Snapshot()
	eng.Submit(ctx,
		ledger.AddProduct{Product: domain.Product{ID: "P1", Quantity: 5}},
		ledger.AdjustProductStock{ProductID: "P1", Delta: -5},
	)
	after := eng.Snapshot()

	require.Empty(t, before.Products)
	p, _ := after.FindProduct("P1")
	require.Equal(t, 0, p.Quantity, "never a half-applied batch")
}

func TestHydrateLoadsBootSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	seed := New(slog.Default(), storeSink{mem})
	seed.Submit(ctx, ledger.AddCustomer{Customer: domain.Customer{ID: "C1", Name: "Asha"}})

	eng := New(slog.Default(), nil)
	require.NoError(t, eng.Hydrate(ctx, mem))
	_, ok := eng.Snapshot().FindCustomer("C1")
	require.True(t, ok)
}

type storeSink struct{ mem *memory.Store }

func (s storeSink) CollectionChanged(ctx context.Context, kind domain.Kind, docs []json.RawMessage) error {
	return s.mem.ReplaceAll(ctx, kind, docs)
}

type orderedSink struct {
	mu         sync.Mutex
	quantities []int
}

func (o *orderedSink) CollectionChanged(_ context.Context, kind domain.Kind, docs []json.RawMessage) error {
	if kind != domain.KindProducts || len(docs) == 0 {
		return nil
	}
	var p domain.Product
	if err := json.Unmarshal(docs[0], &p); err != nil {
		return err
	}
	o.mu.Lock()
	o.quantities = append(o.quantities, p.Quantity)
	o.mu.Unlock()
	return nil
}

func TestSinkSeesCollectionsInApplicationOrder(t *testing.T) {
	sink := &orderedSink{}
	eng := New(slog.Default(), sink)
	ctx := context.Background()
	eng.Submit(ctx, ledger.AddProduct{Product: domain.Product{ID: "P1", Quantity: 0}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eng.Submit(ctx, ledger.AdjustProductStock{ProductID: "P1", Delta: 1})
		}()
	}
	wg.Wait()

	require.Len(t, sink.quantities, 51)
	require.True(t, slices.IsSorted(sink.quantities),
		"a later submit must never reach the sink with older collection contents")
	require.Equal(t, 50, sink.quantities[len(sink.quantities)-1])
}

func TestConcurrentSubmitsSerialize(t *testing.T) {
	eng := New(slog.Default(), nil)
	ctx := context.Background()
	eng.Submit(ctx, ledger.AddProduct{Product: domain.Product{ID: "P1", Quantity: 0}})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eng.Submit(ctx, ledger.AdjustProductStock{ProductID: "P1", Delta: 1})
		}()
	}
	wg.Wait()

	p, _ := eng.Snapshot().FindProduct("P1")
	require.Equal(t, 100, p.Quantity)
}
