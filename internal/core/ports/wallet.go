package ports

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// ErrPrivateKeyNotFound is returned when the wallet holds no key for the
// requested address.
var ErrPrivateKeyNotFound = fmt.Errorf("no private key for address")

type WalletService interface {
	PrivateKeyForAddress(ctx context.Context, address string) (*btcec.PrivateKey, error)
	Close()
}
