package ports

import "context"

// AddressOracle answers point-in-time questions about a payment or recipient
// address. Answers reflect chain and mempool state at call time; the final
// backstop against staleness is the broadcast itself.
type AddressOracle interface {
	// DontUseAddress reports whether the address has unconfirmed outputs
	// pending and should not fund another transaction yet.
	DontUseAddress(ctx context.Context, address string) (bool, error)
	// UnderfundedAddress reports whether the confirmed balance cannot cover
	// the operation fee.
	UnderfundedAddress(ctx context.Context, address string) (bool, error)
	// RecipientNotReady reports whether the address already owns too many
	// names to receive another one.
	RecipientNotReady(ctx context.Context, address string) (bool, error)
}
