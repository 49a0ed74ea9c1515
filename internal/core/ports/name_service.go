package ports

import (
	"context"
	"fmt"

	"github.com/blocknames/registrar/internal/core/domain"
)

var (
	// ErrNameNotFound means the name has no on-chain record, i.e. it is not
	// currently registered.
	ErrNameNotFound = fmt.Errorf("name not registered")
	// ErrMalformedResponse means the remote service answered without the
	// expected payload field. Treated as a build failure, never as success.
	ErrMalformedResponse = fmt.Errorf("malformed response from name service")
)

// NameService is the remote name-system service. It resolves on-chain name
// records and builds unsigned subsidized transactions: the payer's inputs are
// already signed by the remote side, the owner's inputs are left unsigned for
// local co-signing.
type NameService interface {
	GetNameRecord(ctx context.Context, name string) (*domain.NameRecord, error)
	BuildUpdateTx(
		ctx context.Context, name, profileHash, ownerPubKey, subsidyKey string,
	) (unsignedTxHex string, err error)
	BuildTransferTx(
		ctx context.Context, name, newOwner string, keepData bool,
		ownerPubKey, subsidyKey string,
	) (unsignedTxHex string, err error)
	NamesOwnedBy(ctx context.Context, address string) ([]string, error)
	Close()
}
