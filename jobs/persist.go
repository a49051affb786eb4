package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/store"
)

// PersistCollectionJob writes a collection captured at submit time into the
// durable store. Tasks for the same kind are idempotent: each one carries the
// complete collection, so replaying an older task after a newer one only
// matters until the next submit.
type PersistCollectionJob struct {
	Store  store.Collections
	Logger *slog.Logger
}

// NewPersistCollectionJob constructs the job handler.
func NewPersistCollectionJob(collections store.Collections, logger *slog.Logger) *PersistCollectionJob {
	return &PersistCollectionJob{Store: collections, Logger: logger}
}

// Handle executes one persist-collection task.
func (j *PersistCollectionJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("persist collection: store not configured")
	}
	var payload PersistCollectionPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	known := false
	for _, kind := range domain.Kinds() {
		if payload.Kind == kind {
			known = true
			break
		}
	}
	if !known {
		j.log().Warn("unknown collection kind", slog.String("kind", string(payload.Kind)))
		return asynq.SkipRetry
	}

	start := time.Now()
	if err := j.Store.ReplaceAll(ctx, payload.Kind, payload.Docs); err != nil {
		j.log().Error("replace collection",
			slog.String("kind", string(payload.Kind)), slog.Any("error", err))
		return err
	}
	j.log().Info("persisted collection",
		slog.String("kind", string(payload.Kind)),
		slog.Int("docs", len(payload.Docs)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *PersistCollectionJob) log() *slog.Logger {
	if j != nil && j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskPersistCollection))
	}
	return slog.Default().With(slog.String("job", TaskPersistCollection))
}
