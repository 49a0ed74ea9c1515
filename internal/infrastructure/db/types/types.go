package dbtypes

import "github.com/blocknames/registrar/internal/core/domain"

type QueueStore interface {
	domain.QueueRepository
	Close()
}
