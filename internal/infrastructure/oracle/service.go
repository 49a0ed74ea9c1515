package oracle

import (
	"context"
	"fmt"

	"github.com/blocknames/registrar/internal/core/ports"
)

const maxQueryConfirmations = 9999999

type service struct {
	chain          ports.ChainClient
	names          ports.NameService
	minBalanceSats int64
	maxNames       int
}

// NewService composes the address/funding oracle over the chain client and
// the name service. It keeps no state of its own; every answer reflects
// chain and mempool state at call time.
func NewService(
	chain ports.ChainClient, names ports.NameService,
	minBalanceSats int64, maxNamesPerAddress int,
) (ports.AddressOracle, error) {
	if minBalanceSats <= 0 {
		return nil, fmt.Errorf("min balance must be positive")
	}
	if maxNamesPerAddress <= 0 {
		return nil, fmt.Errorf("max names per address must be positive")
	}
	return &service{chain, names, minBalanceSats, maxNamesPerAddress}, nil
}

func (s *service) DontUseAddress(ctx context.Context, address string) (bool, error) {
	utxos, err := s.chain.ListUnspent(ctx, address, 0, 0)
	if err != nil {
		return false, err
	}
	return len(utxos) > 0, nil
}

func (s *service) UnderfundedAddress(ctx context.Context, address string) (bool, error) {
	utxos, err := s.chain.ListUnspent(ctx, address, 1, maxQueryConfirmations)
	if err != nil {
		return false, err
	}
	var balance int64
	for _, utxo := range utxos {
		balance += utxo.Amount
	}
	return balance < s.minBalanceSats, nil
}

func (s *service) RecipientNotReady(ctx context.Context, address string) (bool, error) {
	names, err := s.names.NamesOwnedBy(ctx, address)
	if err != nil {
		return false, err
	}
	return len(names) >= s.maxNames, nil
}
