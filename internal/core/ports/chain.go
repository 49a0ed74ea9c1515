package ports

import "context"

type Utxo struct {
	TxID          string
	VOut          uint32
	Amount        int64 // satoshis
	Confirmations int64
}

// ChainClient wraps the underlying chain node. BroadcastTransaction must
// return a non-empty txid on success: a nil error with an empty txid is a
// malformed response and callers treat it as a failed broadcast.
type ChainClient interface {
	BroadcastTransaction(ctx context.Context, txHex string) (txid string, err error)
	GetTxConfirmations(ctx context.Context, txid string) (int64, error)
	ListUnspent(ctx context.Context, address string, minConf, maxConf int64) ([]Utxo, error)
	Close()
}
