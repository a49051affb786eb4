package jobs

import (
	"context"
	"encoding/json"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
)

// QueueSink forwards dirtied collections to the worker through the queue.
// It satisfies the engine's sink port, keeping durable writes off the
// request path.
type QueueSink struct {
	client *Client
}

// NewQueueSink constructs a sink backed by the Asynq client.
func NewQueueSink(client *Client) *QueueSink {
	return &QueueSink{client: client}
}

// CollectionChanged enqueues a persist task for one collection.
func (s *QueueSink) CollectionChanged(ctx context.Context, kind domain.Kind, docs []json.RawMessage) error {
	_, err := s.client.EnqueuePersistCollection(ctx, PersistCollectionPayload{Kind: kind, Docs: docs})
	return err
}
