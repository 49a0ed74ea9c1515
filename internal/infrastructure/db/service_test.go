package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blocknames/registrar/internal/core/domain"
	"github.com/blocknames/registrar/internal/core/ports"
	"github.com/blocknames/registrar/internal/infrastructure/db"
)

func TestService(t *testing.T) {
	tests := []struct {
		name   string
		config db.ServiceConfig
	}{
		{
			name: "repo_manager_with_badger_store",
			config: db.ServiceConfig{
				QueueStoreType:   "badger",
				QueueStoreConfig: []interface{}{"", nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := db.NewService(tt.config)
			require.NoError(t, err)
			require.NotNil(t, svc)

			testQueueRepository(t, svc)

			svc.Close()
		})
	}
}

func testQueueRepository(t *testing.T, svc ports.RepoManager) {
	t.Run("test_queue_repository", func(t *testing.T) {
		ctx := context.Background()
		queues := svc.Queues()

		record := domain.QueueRecord{
			Name:         "alice.id",
			TxHash:       "deadbeef",
			OwnerAddress: "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH",
			Profile:      []byte(`{"name":"alice"}`),
			ProfileHash:  "0123456789abcdef0123456789abcdef01234567",
			QueuedAt:     time.Now(),
		}

		queued, err := queues.Contains(ctx, domain.UpdateQueue, record.Name)
		require.NoError(t, err)
		require.False(t, queued)

		err = queues.Push(ctx, domain.UpdateQueue, record)
		require.NoError(t, err)

		queued, err = queues.Contains(ctx, domain.UpdateQueue, record.Name)
		require.NoError(t, err)
		require.True(t, queued)

		// same name in another queue is unrelated
		queued, err = queues.Contains(ctx, domain.TransferQueue, record.Name)
		require.NoError(t, err)
		require.False(t, queued)

		err = queues.Push(ctx, domain.UpdateQueue, record)
		require.ErrorIs(t, err, domain.ErrRecordExists)

		got, err := queues.GetRecord(ctx, domain.UpdateQueue, record.Name)
		require.NoError(t, err)
		require.Equal(t, record.TxHash, got.TxHash)
		require.Equal(t, record.OwnerAddress, got.OwnerAddress)
		require.Equal(t, record.ProfileHash, got.ProfileHash)

		transfer := domain.QueueRecord{
			Name:            "bob.id",
			TxHash:          "cafebabe",
			OwnerAddress:    "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH",
			TransferAddress: "1CounterpartyXXXXXXXXXXXXXXXUWLpVr",
			QueuedAt:        time.Now(),
		}
		err = queues.Push(ctx, domain.TransferQueue, transfer)
		require.NoError(t, err)

		records, err := queues.ListRecords(ctx, domain.UpdateQueue)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, record.Name, records[0].Name)

		records, err = queues.ListRecords(ctx, domain.TransferQueue)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, transfer.Name, records[0].Name)

		err = queues.Remove(ctx, domain.UpdateQueue, record.Name)
		require.NoError(t, err)

		queued, err = queues.Contains(ctx, domain.UpdateQueue, record.Name)
		require.NoError(t, err)
		require.False(t, queued)

		// re-queueing after removal is allowed again
		err = queues.Push(ctx, domain.UpdateQueue, record)
		require.NoError(t, err)
	})
}
