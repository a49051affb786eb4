package jobs

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
	"github.com/bahikhata-erp/bahikhata/internal/store/memory"
)

type backupRecorder struct {
	payloads []json.RawMessage
}

func (b *backupRecorder) WriteBackup(_ context.Context, payload json.RawMessage) error {
	b.payloads = append(b.payloads, payload)
	return nil
}

func TestPersistCollectionReplacesStore(t *testing.T) {
	collections := memory.New()
	job := NewPersistCollectionJob(collections, nil)

	task, err := NewPersistCollectionTask(PersistCollectionPayload{
		Kind: domain.KindProducts,
		Docs: []json.RawMessage{json.RawMessage(`{"id":"P1","name":"Soap","quantity":4}`)},
	})
	require.NoError(t, err)
	require.NoError(t, job.Handle(t.Context(), task))

	docs, err := collections.GetAll(t.Context(), domain.KindProducts)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.JSONEq(t, `{"id":"P1","name":"Soap","quantity":4}`, string(docs[0]))
}

func TestPersistCollectionSkipsMalformedPayload(t *testing.T) {
	job := NewPersistCollectionJob(memory.New(), nil)
	task := asynq.NewTask(TaskPersistCollection, []byte("not json"))
	require.ErrorIs(t, job.Handle(t.Context(), task), asynq.SkipRetry)
}

func TestPersistCollectionSkipsUnknownKind(t *testing.T) {
	job := NewPersistCollectionJob(memory.New(), nil)
	task, err := NewPersistCollectionTask(PersistCollectionPayload{Kind: "bogus"})
	require.NoError(t, err)
	require.ErrorIs(t, job.Handle(t.Context(), task), asynq.SkipRetry)
}

func TestBackupSnapshotCapturesEveryCollection(t *testing.T) {
	collections := memory.New()
	require.NoError(t, collections.ReplaceAll(t.Context(), domain.KindProducts,
		[]json.RawMessage{json.RawMessage(`{"id":"P1"}`)}))
	require.NoError(t, collections.ReplaceAll(t.Context(), domain.KindSales,
		[]json.RawMessage{json.RawMessage(`{"id":"S1"}`), json.RawMessage(`{"id":"S2"}`)}))

	recorder := &backupRecorder{}
	job := NewBackupSnapshotJob(collections, recorder, nil)
	takenAt := time.Date(2025, time.June, 1, 20, 30, 0, 0, time.UTC)
	job.WithClock(func() time.Time { return takenAt })

	require.NoError(t, job.Handle(t.Context(), NewBackupSnapshotTask()))
	require.Len(t, recorder.payloads, 1)

	var doc struct {
		TakenAt     time.Time                         `json:"taken_at"`
		Collections map[domain.Kind][]json.RawMessage `json:"collections"`
	}
	require.NoError(t, json.Unmarshal(recorder.payloads[0], &doc))
	require.True(t, doc.TakenAt.Equal(takenAt))
	require.Len(t, doc.Collections, len(domain.Kinds()))
	require.Len(t, doc.Collections[domain.KindSales], 2)
	require.Empty(t, doc.Collections[domain.KindCustomers])
}
