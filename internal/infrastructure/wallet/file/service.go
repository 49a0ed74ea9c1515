package filewallet

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/blocknames/registrar/internal/core/ports"
	"github.com/blocknames/registrar/internal/core/txsign"
)

type keystore struct {
	Keys map[string]string `json:"keys"` // address -> WIF or hex
}

type service struct {
	keys map[string]*btcec.PrivateKey
}

// NewService loads a keystore file mapping payment addresses to private keys.
// Every key is checked to actually derive its address at load time, so a
// corrupt keystore fails the daemon at startup instead of mid-submission.
func NewService(filePath string, params *chaincfg.Params) (ports.WalletService, error) {
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var store keystore
	if err := json.Unmarshal(buf, &store); err != nil {
		return nil, fmt.Errorf("invalid keystore file: %s", err)
	}

	keys := make(map[string]*btcec.PrivateKey, len(store.Keys))
	for address, encoded := range store.Keys {
		priv, err := txsign.ParsePrivateKey(encoded, params)
		if err != nil {
			return nil, fmt.Errorf("invalid key for %s: %s", address, err)
		}
		derived, err := txsign.AddressFromPrivKey(priv, params)
		if err != nil {
			return nil, err
		}
		if derived != address {
			return nil, fmt.Errorf("key for %s derives to %s", address, derived)
		}
		keys[address] = priv
	}
	return &service{keys}, nil
}

func (s *service) PrivateKeyForAddress(
	_ context.Context, address string,
) (*btcec.PrivateKey, error) {
	priv, ok := s.keys[address]
	if !ok {
		return nil, ports.ErrPrivateKeyNotFound
	}
	return priv, nil
}

func (s *service) Close() {
	s.keys = nil
}
