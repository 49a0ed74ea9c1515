package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/blocknames/registrar/internal/core/domain"
	"github.com/blocknames/registrar/internal/core/ports"
)

var monitoredQueues = []domain.Queue{domain.UpdateQueue, domain.TransferQueue}

// monitor periodically drops queue records whose transaction reached the
// configured confirmation depth. Records with an unknown or unconfirmed tx
// stay queued; this daemon never rebroadcasts.
type monitor struct {
	scheduler     ports.SchedulerService
	chain         ports.ChainClient
	repoManager   ports.RepoManager
	interval      time.Duration
	confirmations int64
}

func newMonitor(
	scheduler ports.SchedulerService, chain ports.ChainClient,
	repoManager ports.RepoManager, interval time.Duration, confirmations int64,
) *monitor {
	return &monitor{scheduler, chain, repoManager, interval, confirmations}
}

func (m *monitor) start() error {
	if err := m.scheduler.ScheduleTask(m.interval, false, m.sweep); err != nil {
		return err
	}
	m.scheduler.Start()
	return nil
}

func (m *monitor) stop() {
	m.scheduler.Stop()
}

func (m *monitor) sweep() {
	ctx := context.Background()
	queues := m.repoManager.Queues()

	for _, queue := range monitoredQueues {
		records, err := queues.ListRecords(ctx, queue)
		if err != nil {
			log.WithError(err).Warnf("failed to list %s queue", queue)
			continue
		}
		for _, record := range records {
			confs, err := m.chain.GetTxConfirmations(ctx, record.TxHash)
			if err != nil {
				log.WithError(err).Debugf(
					"failed to fetch confirmations for %s", record.TxHash,
				)
				continue
			}
			if confs < m.confirmations {
				continue
			}
			if err := queues.Remove(ctx, queue, record.Name); err != nil {
				log.WithError(err).Warnf(
					"failed to remove confirmed %s from %s queue", record.Name, queue,
				)
				continue
			}
			log.Debugf(
				"removed %s from %s queue, tx %s has %d confirmations",
				record.Name, queue, record.TxHash, confs,
			)
		}
	}
}
