package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"

	"github.com/blocknames/registrar/internal/core/domain"
	dbtypes "github.com/blocknames/registrar/internal/infrastructure/db/types"
)

const queueStoreDir = "queues"

type queueEntry struct {
	Queue domain.Queue
	domain.QueueRecord
}

type queueRepository struct {
	store *badgerhold.Store
}

func NewQueueRepository(config ...interface{}) (dbtypes.QueueStore, error) {
	if len(config) != 2 {
		return nil, fmt.Errorf("invalid config")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}
	var logger badger.Logger
	if config[1] != nil {
		logger, ok = config[1].(badger.Logger)
		if !ok {
			return nil, fmt.Errorf("invalid logger")
		}
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, queueStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue store: %s", err)
	}

	return &queueRepository{store}, nil
}

func (r *queueRepository) Contains(
	_ context.Context, queue domain.Queue, name string,
) (bool, error) {
	var entry queueEntry
	err := r.store.Get(entryKey(queue, name), &entry)
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Push is an atomic conditional insert: inserting under an existing key fails
// inside a single badger transaction, so a concurrent duplicate can never
// slip in between a check and a write.
func (r *queueRepository) Push(
	_ context.Context, queue domain.Queue, record domain.QueueRecord,
) error {
	entry := queueEntry{Queue: queue, QueueRecord: record}
	if err := r.store.Insert(entryKey(queue, record.Name), entry); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrRecordExists
		}
		return err
	}
	return nil
}

func (r *queueRepository) GetRecord(
	_ context.Context, queue domain.Queue, name string,
) (*domain.QueueRecord, error) {
	var entry queueEntry
	if err := r.store.Get(entryKey(queue, name), &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("no record for %s in %s queue", name, queue)
		}
		return nil, err
	}
	return &entry.QueueRecord, nil
}

func (r *queueRepository) ListRecords(
	_ context.Context, queue domain.Queue,
) ([]domain.QueueRecord, error) {
	var entries []queueEntry
	query := badgerhold.Where("Queue").Eq(queue)
	if err := r.store.Find(&entries, query); err != nil {
		return nil, err
	}
	records := make([]domain.QueueRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, entry.QueueRecord)
	}
	return records, nil
}

func (r *queueRepository) Remove(
	_ context.Context, queue domain.Queue, name string,
) error {
	return r.store.Delete(entryKey(queue, name), queueEntry{})
}

func (r *queueRepository) Close() {
	// nolint:all
	r.store.Close()
}

func entryKey(queue domain.Queue, name string) string {
	return fmt.Sprintf("%s/%s", queue, name)
}
