package ports

import "github.com/blocknames/registrar/internal/core/domain"

type RepoManager interface {
	Queues() domain.QueueRepository
	Close()
}
