package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"

	"github.com/blocknames/registrar/internal/core/domain"
	"github.com/blocknames/registrar/internal/core/ports"
	"github.com/blocknames/registrar/internal/core/txsign"
)

type Service interface {
	Start() error
	Stop()
	SubmitUpdate(ctx context.Context, req UpdateRequest) SubmitResult
	SubmitTransfer(ctx context.Context, req TransferRequest) SubmitResult
	ListQueue(ctx context.Context, queue domain.Queue) ([]domain.QueueRecord, error)
}

type service struct {
	params        *chaincfg.Params
	remoteTimeout time.Duration

	wallet      ports.WalletService
	names       ports.NameService
	chain       ports.ChainClient
	oracle      ports.AddressOracle
	repoManager ports.RepoManager

	nameLocks *nameLocks
	monitor   *monitor
}

func NewService(
	params *chaincfg.Params, remoteTimeout time.Duration,
	walletSvc ports.WalletService, nameSvc ports.NameService,
	chainSvc ports.ChainClient, oracleSvc ports.AddressOracle,
	repoManager ports.RepoManager, scheduler ports.SchedulerService,
	monitorInterval time.Duration, confirmations int64,
) (Service, error) {
	if params == nil {
		return nil, fmt.Errorf("missing chain params")
	}
	if remoteTimeout <= 0 {
		return nil, fmt.Errorf("remote timeout must be positive")
	}
	svc := &service{
		params:        params,
		remoteTimeout: remoteTimeout,
		wallet:        walletSvc,
		names:         nameSvc,
		chain:         chainSvc,
		oracle:        oracleSvc,
		repoManager:   repoManager,
		nameLocks:     newNameLocks(),
	}
	if scheduler != nil {
		svc.monitor = newMonitor(
			scheduler, chainSvc, repoManager, monitorInterval, confirmations,
		)
	}
	return svc, nil
}

func (s *service) Start() error {
	log.Debug("starting app service")
	if s.monitor != nil {
		return s.monitor.start()
	}
	return nil
}

func (s *service) Stop() {
	if s.monitor != nil {
		s.monitor.stop()
		log.Debug("stopped confirmation monitor")
	}
	s.wallet.Close()
	log.Debug("closed connection to wallet")
	s.names.Close()
	log.Debug("closed connection to name service")
	s.chain.Close()
	log.Debug("closed connection to chain client")
	s.repoManager.Close()
	log.Debug("closed connection to db")
}

func (s *service) ListQueue(
	ctx context.Context, queue domain.Queue,
) ([]domain.QueueRecord, error) {
	if !queue.IsValid() {
		return nil, errInvalidQueue{string(queue)}
	}
	return s.repoManager.Queues().ListRecords(ctx, queue)
}

func (s *service) SubmitUpdate(ctx context.Context, req UpdateRequest) SubmitResult {
	unlock := s.nameLocks.lock(domain.UpdateQueue, req.Name)
	defer unlock()

	queues := s.repoManager.Queues()
	queued, err := queues.Contains(ctx, domain.UpdateQueue, req.Name)
	if err != nil {
		return rejected(RejectQueueUnavailable, err)
	}
	if queued {
		log.Debugf("already in update queue: %s", req.Name)
		return rejected(RejectAlreadyQueued, nil)
	}

	record, res := s.getNameRecord(ctx, req.Name)
	if record == nil {
		return res
	}

	profileHash, err := txsign.HashProfile(req.Profile)
	if err != nil {
		return rejected(RejectInvalidRequest, err)
	}

	ownerKey, res := s.proveOwnership(req.OwnerPrivKey, record)
	if ownerKey == nil {
		return res
	}

	if res := s.checkPaymentAddress(ctx, req.PaymentAddress); res != nil {
		return *res
	}

	subsidyKey, res := s.resolvePaymentKey(ctx, req.PaymentPrivKey, req.PaymentAddress)
	if subsidyKey == "" {
		return res
	}

	log.Debugf("updating (%s, %s)", req.Name, profileHash)
	log.Debugf("<owner, payment> (%s, %s)", record.Address, req.PaymentAddress)

	buildCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()
	unsignedTx, err := s.names.BuildUpdateTx(
		buildCtx, req.Name, profileHash, txsign.PubKeyHex(ownerKey), subsidyKey,
	)
	if err != nil {
		log.WithError(err).Debugf("failed to build update tx for %s", req.Name)
		return rejected(remoteRejectCode(err), err)
	}

	txHash, err := s.cosignAndBroadcast(ctx, ownerKey, unsignedTx)
	if err != nil {
		log.WithError(err).Debugf("failed to broadcast update tx for %s", req.Name)
		return rejected(RejectBroadcastFailed, err)
	}

	s.commit(ctx, domain.UpdateQueue, domain.QueueRecord{
		Name:         req.Name,
		TxHash:       txHash,
		OwnerAddress: record.Address,
		Profile:      req.Profile,
		ProfileHash:  profileHash,
		QueuedAt:     time.Now(),
	})
	return accepted(txHash)
}

func (s *service) SubmitTransfer(ctx context.Context, req TransferRequest) SubmitResult {
	unlock := s.nameLocks.lock(domain.TransferQueue, req.Name)
	defer unlock()

	queues := s.repoManager.Queues()
	queued, err := queues.Contains(ctx, domain.TransferQueue, req.Name)
	if err != nil {
		return rejected(RejectQueueUnavailable, err)
	}
	if queued {
		log.Debugf("already in transfer queue: %s", req.Name)
		return rejected(RejectAlreadyQueued, nil)
	}

	record, res := s.getNameRecord(ctx, req.Name)
	if record == nil {
		return res
	}

	// The transfer may already be settled on chain from a previous attempt
	// that broadcast but never got enqueued. Resubmission is then a no-op
	// success, not a failure.
	if record.Address == req.TransferAddress {
		log.Debugf("already transferred %s", req.Name)
		return accepted("")
	}

	notReady, err := s.oracle.RecipientNotReady(ctx, req.TransferAddress)
	if err != nil {
		return rejected(RejectRecipientNotReady, err)
	}
	if notReady {
		log.Debugf("address %s owns too many names already", req.TransferAddress)
		return rejected(RejectRecipientNotReady, nil)
	}

	ownerKey, res := s.proveOwnership(req.OwnerPrivKey, record)
	if ownerKey == nil {
		return res
	}

	if res := s.checkPaymentAddress(ctx, req.PaymentAddress); res != nil {
		return *res
	}

	subsidyKey, res := s.resolvePaymentKey(ctx, req.PaymentPrivKey, req.PaymentAddress)
	if subsidyKey == "" {
		return res
	}

	log.Debugf("transferring (%s, %s)", req.Name, req.TransferAddress)
	log.Debugf("<owner, payment> (%s, %s)", record.Address, req.PaymentAddress)

	buildCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()
	unsignedTx, err := s.names.BuildTransferTx(
		buildCtx, req.Name, req.TransferAddress, true,
		txsign.PubKeyHex(ownerKey), subsidyKey,
	)
	if err != nil {
		log.WithError(err).Debugf("failed to build transfer tx for %s", req.Name)
		return rejected(remoteRejectCode(err), err)
	}

	txHash, err := s.cosignAndBroadcast(ctx, ownerKey, unsignedTx)
	if err != nil {
		log.WithError(err).Debugf("failed to broadcast transfer tx for %s", req.Name)
		return rejected(RejectBroadcastFailed, err)
	}

	s.commit(ctx, domain.TransferQueue, domain.QueueRecord{
		Name:            req.Name,
		TxHash:          txHash,
		OwnerAddress:    record.Address,
		TransferAddress: req.TransferAddress,
		QueuedAt:        time.Now(),
	})
	return accepted(txHash)
}

// getNameRecord fetches the on-chain record, mapping a missing name to the
// registration guard and transport failures to remote codes. A nil record
// means the caller must return the paired result.
func (s *service) getNameRecord(
	ctx context.Context, name string,
) (*domain.NameRecord, SubmitResult) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	record, err := s.names.GetNameRecord(lookupCtx, name)
	if err != nil {
		if errors.Is(err, ports.ErrNameNotFound) {
			log.Debugf("not yet registered: %s", name)
			return nil, rejected(RejectNotRegistered, nil)
		}
		return nil, rejected(remoteRejectCode(err), err)
	}
	if record.Expired {
		log.Debugf("registration expired: %s", name)
		return nil, rejected(RejectNotRegistered, nil)
	}
	return record, SubmitResult{}
}

// proveOwnership derives the address of the given key locally and compares it
// against the on-chain owner. Caller-supplied ownership claims are never
// trusted. A nil key means the caller must return the paired result.
func (s *service) proveOwnership(
	ownerPrivKey string, record *domain.NameRecord,
) (*btcec.PrivateKey, SubmitResult) {
	ownerKey, err := txsign.ParsePrivateKey(ownerPrivKey, s.params)
	if err != nil {
		return nil, rejected(RejectInvalidRequest, err)
	}
	checkAddress, err := txsign.AddressFromPrivKey(ownerKey, s.params)
	if err != nil {
		return nil, rejected(RejectInvalidRequest, err)
	}
	if checkAddress != record.Address {
		log.Debugf("given key does not own %s", record.Name)
		return nil, rejected(RejectNotOwner, nil)
	}
	return ownerKey, SubmitResult{}
}

// checkPaymentAddress verifies usability before funding: the balance of an
// address that must not be spent from is meaningless.
func (s *service) checkPaymentAddress(
	ctx context.Context, paymentAddress string,
) *SubmitResult {
	busy, err := s.oracle.DontUseAddress(ctx, paymentAddress)
	if err != nil {
		res := rejected(RejectPaymentAddressUnusable, err)
		return &res
	}
	if busy {
		log.Debugf("payment address not ready: %s", paymentAddress)
		res := rejected(RejectPaymentAddressUnusable, nil)
		return &res
	}

	underfunded, err := s.oracle.UnderfundedAddress(ctx, paymentAddress)
	if err != nil {
		res := rejected(RejectPaymentAddressUnderfunded, err)
		return &res
	}
	if underfunded {
		log.Debugf("payment address underfunded: %s", paymentAddress)
		res := rejected(RejectPaymentAddressUnderfunded, nil)
		return &res
	}
	return nil
}

// resolvePaymentKey returns the subsidy key in WIF, resolving it through the
// wallet when the request carries none. An empty key means the caller must
// return the paired result.
func (s *service) resolvePaymentKey(
	ctx context.Context, paymentPrivKey, paymentAddress string,
) (string, SubmitResult) {
	if paymentPrivKey != "" {
		key, err := txsign.ParsePrivateKey(paymentPrivKey, s.params)
		if err != nil {
			return "", rejected(RejectInvalidRequest, err)
		}
		wif, err := txsign.EncodePrivateKey(key, s.params)
		if err != nil {
			return "", rejected(RejectInvalidRequest, err)
		}
		return wif, SubmitResult{}
	}

	key, err := s.wallet.PrivateKeyForAddress(ctx, paymentAddress)
	if err != nil {
		log.WithError(err).Debugf("no payment key for %s", paymentAddress)
		return "", rejected(RejectPaymentKeyUnavailable, err)
	}
	wif, err := txsign.EncodePrivateKey(key, s.params)
	if err != nil {
		return "", rejected(RejectPaymentKeyUnavailable, err)
	}
	return wif, SubmitResult{}
}

// commit appends the queue record after a successful broadcast. The tx is
// already on the network at this point, so a failing append is logged for
// operator reconciliation instead of surfacing as a rejection that would
// invite a duplicate-fee resubmission.
func (s *service) commit(
	ctx context.Context, queue domain.Queue, record domain.QueueRecord,
) {
	if err := s.repoManager.Queues().Push(ctx, queue, record); err != nil {
		log.WithError(err).Errorf(
			"broadcast %s for %s not enqueued in %s queue, manual reconciliation required",
			record.TxHash, record.Name, queue,
		)
	}
}

func remoteRejectCode(err error) RejectCode {
	if errors.Is(err, context.DeadlineExceeded) {
		return RejectRemoteTimeout
	}
	return RejectRemoteBuildFailed
}
