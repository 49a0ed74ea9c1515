package application

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	log "github.com/sirupsen/logrus"

	"github.com/blocknames/registrar/internal/core/txsign"
)

// cosignAndBroadcast signs every unsigned input of the subsidized transaction
// with the owner's key (the payer's signature is already embedded by the
// remote builder) and submits the result to the chain client. An empty txid
// without an error is a malformed client response and counts as a failed
// broadcast, never as success.
func (s *service) cosignAndBroadcast(
	ctx context.Context, ownerKey *btcec.PrivateKey, unsignedTxHex string,
) (string, error) {
	signedTx, err := txsign.SignAllUnsignedInputs(ownerKey, unsignedTxHex, s.params)
	if err != nil {
		return "", fmt.Errorf("failed to co-sign tx: %s", err)
	}

	broadcastCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	txid, err := s.chain.BroadcastTransaction(broadcastCtx, signedTx)
	if err != nil {
		return "", fmt.Errorf("failed to broadcast tx: %s", err)
	}
	if txid == "" {
		log.Debugf("chain client returned no txid for raw tx %s", signedTx)
		return "", fmt.Errorf("chain client returned no txid")
	}
	return txid, nil
}
