package db

import (
	"fmt"

	"github.com/blocknames/registrar/internal/core/domain"
	"github.com/blocknames/registrar/internal/core/ports"
	badgerdb "github.com/blocknames/registrar/internal/infrastructure/db/badger"
	dbtypes "github.com/blocknames/registrar/internal/infrastructure/db/types"
)

type ServiceConfig struct {
	QueueStoreType   string
	QueueStoreConfig []interface{}
}

type service struct {
	queueStore dbtypes.QueueStore
}

func NewService(config ServiceConfig) (ports.RepoManager, error) {
	var queueStore dbtypes.QueueStore
	var err error

	switch config.QueueStoreType {
	case "badger":
		queueStore, err = badgerdb.NewQueueRepository(config.QueueStoreConfig...)
	default:
		err = fmt.Errorf("unknown queue store type")
	}
	if err != nil {
		return nil, err
	}

	return &service{queueStore}, nil
}

func (s *service) Queues() domain.QueueRepository {
	return s.queueStore
}

func (s *service) Close() {
	s.queueStore.Close()
}
