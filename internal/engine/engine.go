// Package engine hosts the ledger reducer behind a single-writer snapshot
// cell: events are applied strictly in order, readers always see a
// fully-applied snapshot, and dirtied collections are handed to a
// write-behind sink after each batch.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/ledger"
	"github.com/bahikhata-erp/bahikhata/internal/store"
)

// Sink receives the full contents of a dirtied collection after an applied
// batch. Persistence is fire-and-forget from the submitter's perspective;
// sink failures are logged, never surfaced to the event source.
type Sink interface {
	CollectionChanged(ctx context.Context, kind domain.Kind, docs []json.RawMessage) error
}

// Engine serializes event application over one snapshot.
type Engine struct {
	logger *slog.Logger
	sink   Sink

	mu   sync.RWMutex
	snap domain.Snapshot
}

// New constructs an Engine with an empty snapshot. A nil sink disables
// write-behind persistence.
func New(logger *slog.Logger, sink Sink) *Engine {
	return &Engine{logger: logger, sink: sink}
}

// Hydrate loads the boot snapshot from the collection store.
func (e *Engine) Hydrate(ctx context.Context, collections store.Collections) error {
	snap, err := store.LoadSnapshot(ctx, collections)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()
	return nil
}

// Snapshot returns the last published snapshot.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// Submit applies the batch in order, publishes the resulting snapshot and
// pushes every dirtied collection to the sink. Both effects of a composite
// action (e.g. record a sale plus its stock movement) land in one published
// snapshot when submitted as one batch. The sink hand-off happens under the
// submit lock, so per-kind collections reach the sink in application order.
func (e *Engine) Submit(ctx context.Context, events ...ledger.Event) domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.snap
	dirty := make(map[domain.Kind]struct{})
	for _, ev := range events {
		next = ledger.Apply(next, ev)
		for _, kind := range ev.Touches() {
			dirty[kind] = struct{}{}
		}
	}
	e.snap = next
	e.persist(ctx, next, dirty)
	return next
}

func (e *Engine) persist(ctx context.Context, snap domain.Snapshot, dirty map[domain.Kind]struct{}) {
	if e.sink == nil {
		return
	}
	for _, kind := range domain.Kinds() {
		if _, ok := dirty[kind]; !ok {
			continue
		}
		docs, err := store.EncodeCollection(snap, kind)
		if err != nil {
			e.logger.Error("encode collection", slog.String("kind", string(kind)), slog.Any("error", err))
			continue
		}
		if err := e.sink.CollectionChanged(ctx, kind, docs); err != nil {
			e.logger.Error("persist collection", slog.String("kind", string(kind)), slog.Any("error", err))
		}
	}
}
