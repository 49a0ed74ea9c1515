package domain

import (
	"context"
	"fmt"
)

// ErrRecordExists is returned by QueueRepository.Push when a record for the
// same name already sits in the target queue. Push is required to be an
// atomic conditional insert, so concurrent submissions for the same name
// cannot both commit.
var ErrRecordExists = fmt.Errorf("record already exists in queue")

type QueueRepository interface {
	Contains(ctx context.Context, queue Queue, name string) (bool, error)
	Push(ctx context.Context, queue Queue, record QueueRecord) error
	GetRecord(ctx context.Context, queue Queue, name string) (*QueueRecord, error)
	ListRecords(ctx context.Context, queue Queue) ([]QueueRecord, error)
	Remove(ctx context.Context, queue Queue, name string) error
}
