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

// BackupWriter appends one dated backup document.
type BackupWriter interface {
	WriteBackup(ctx context.Context, payload json.RawMessage) error
}

// backupDocument is the shape written by the nightly backup.
type backupDocument struct {
	TakenAt     time.Time                         `json:"taken_at"`
	Collections map[domain.Kind][]json.RawMessage `json:"collections"`
}

// BackupSnapshotJob copies every collection into the backup table.
type BackupSnapshotJob struct {
	Store   store.Collections
	Backups BackupWriter
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewBackupSnapshotJob constructs the job handler.
func NewBackupSnapshotJob(collections store.Collections, backups BackupWriter, logger *slog.Logger) *BackupSnapshotJob {
	return &BackupSnapshotJob{
		Store:   collections,
		Backups: backups,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the backup task.
func (j *BackupSnapshotJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Store == nil || j.Backups == nil {
		return errors.New("backup snapshot: dependencies not configured")
	}

	doc := backupDocument{
		TakenAt:     j.now(),
		Collections: make(map[domain.Kind][]json.RawMessage, len(domain.Kinds())),
	}
	for _, kind := range domain.Kinds() {
		docs, err := j.Store.GetAll(ctx, kind)
		if err != nil {
			j.log().Error("read collection", slog.String("kind", string(kind)), slog.Any("error", err))
			return err
		}
		doc.Collections[kind] = docs
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := j.Backups.WriteBackup(ctx, payload); err != nil {
		j.log().Error("write backup", slog.Any("error", err))
		return err
	}
	j.log().Info("backup written", slog.Time("taken_at", doc.TakenAt))
	return nil
}

func (j *BackupSnapshotJob) log() *slog.Logger {
	if j != nil && j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskBackupSnapshot))
	}
	return slog.Default().With(slog.String("job", TaskBackupSnapshot))
}

func (j *BackupSnapshotJob) now() time.Time {
	if j != nil && j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

// WithClock overrides the internal clock for deterministic tests.
func (j *BackupSnapshotJob) WithClock(clock func() time.Time) {
	if j != nil && clock != nil {
		j.clock = clock
	}
}
