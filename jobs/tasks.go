// Package jobs carries the ledger's background work: write-behind
// persistence of dirtied collections and the nightly snapshot backup.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPersistCollection replaces one durable collection with the
	// documents captured at submit time.
	TaskPersistCollection = "ledger:persist_collection"
	// TaskBackupSnapshot writes a dated copy of every collection.
	TaskBackupSnapshot = "ledger:backup_snapshot"
)

// PersistCollectionPayload carries one collection's full contents.
type PersistCollectionPayload struct {
	Kind domain.Kind       `json:"kind"`
	Docs []json.RawMessage `json:"docs"`
}

// NewPersistCollectionTask constructs an Asynq task for one dirtied
// collection.
func NewPersistCollectionTask(payload PersistCollectionPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPersistCollection, data, asynq.Queue(QueueDefault)), nil
}

// NewBackupSnapshotTask constructs the nightly backup task.
func NewBackupSnapshotTask() *asynq.Task {
	return asynq.NewTask(TaskBackupSnapshot, nil, asynq.Queue(QueueDefault))
}
