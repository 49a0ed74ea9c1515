package bitcoind

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"

	"github.com/blocknames/registrar/internal/core/ports"
)

type service struct {
	client *rpcclient.Client
	params *chaincfg.Params
}

// NewService connects to a bitcoind node over JSON-RPC in HTTP POST mode.
// Payment and recipient addresses must be imported as watch-only for the
// unspent queries to see them.
func NewService(
	addr, user, pass string, params *chaincfg.Params,
) (ports.ChainClient, error) {
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         addr,
		User:         user,
		Pass:         pass,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bitcoind: %s", err)
	}
	return &service{client, params}, nil
}

func (s *service) BroadcastTransaction(
	_ context.Context, txHex string,
) (string, error) {
	raw, err := hex.DecodeString(txHex)
	if err != nil {
		return "", fmt.Errorf("invalid tx hex: %s", err)
	}
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return "", fmt.Errorf("failed to deserialize tx: %s", err)
	}

	hash, err := s.client.SendRawTransaction(&tx, false)
	if err != nil {
		return "", err
	}
	if hash == nil {
		return "", nil
	}
	return hash.String(), nil
}

func (s *service) GetTxConfirmations(
	_ context.Context, txid string,
) (int64, error) {
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return 0, fmt.Errorf("invalid txid: %s", err)
	}
	res, err := s.client.GetRawTransactionVerbose(hash)
	if err != nil {
		return 0, err
	}
	return int64(res.Confirmations), nil
}

func (s *service) ListUnspent(
	_ context.Context, address string, minConf, maxConf int64,
) ([]ports.Utxo, error) {
	addr, err := btcutil.DecodeAddress(address, s.params)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %s", err)
	}
	results, err := s.client.ListUnspentMinMaxAddresses(
		int(minConf), int(maxConf), []btcutil.Address{addr},
	)
	if err != nil {
		return nil, err
	}

	utxos := make([]ports.Utxo, 0, len(results))
	for _, res := range results {
		amount, err := btcutil.NewAmount(res.Amount)
		if err != nil {
			return nil, err
		}
		utxos = append(utxos, ports.Utxo{
			TxID:          res.TxID,
			VOut:          res.Vout,
			Amount:        int64(amount),
			Confirmations: res.Confirmations,
		})
	}
	return utxos, nil
}

func (s *service) Close() {
	s.client.Shutdown()
}
