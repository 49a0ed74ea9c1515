package oracle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blocknames/registrar/internal/core/domain"
	"github.com/blocknames/registrar/internal/core/ports"
	"github.com/blocknames/registrar/internal/infrastructure/oracle"
)

const testAddress = "1MzQwSR3s7jDDrmo7zZqJVmQQcyXCCMWdM"

func TestOracle(t *testing.T) {
	t.Run("dont_use_address", func(t *testing.T) {
		fixtures := []struct {
			name        string
			unconfirmed []ports.Utxo
			expected    bool
		}{
			{"no_pending_outputs", nil, false},
			{"pending_outputs", []ports.Utxo{{TxID: "aa", Amount: 1000}}, true},
		}
		for _, f := range fixtures {
			t.Run(f.name, func(t *testing.T) {
				svc := newOracle(t, &mockChain{unconfirmed: f.unconfirmed}, &mockNames{})

				busy, err := svc.DontUseAddress(context.Background(), testAddress)
				require.NoError(t, err)
				require.Equal(t, f.expected, busy)
			})
		}
	})

	t.Run("underfunded_address", func(t *testing.T) {
		fixtures := []struct {
			name      string
			confirmed []ports.Utxo
			expected  bool
		}{
			{"empty", nil, true},
			{"below_threshold", []ports.Utxo{{Amount: 500}}, true},
			{"funded", []ports.Utxo{{Amount: 600}, {Amount: 500}}, false},
		}
		for _, f := range fixtures {
			t.Run(f.name, func(t *testing.T) {
				svc := newOracle(t, &mockChain{confirmed: f.confirmed}, &mockNames{})

				underfunded, err := svc.UnderfundedAddress(context.Background(), testAddress)
				require.NoError(t, err)
				require.Equal(t, f.expected, underfunded)
			})
		}
	})

	t.Run("recipient_not_ready", func(t *testing.T) {
		fixtures := []struct {
			name     string
			owned    []string
			expected bool
		}{
			{"no_names", nil, false},
			{"below_cap", []string{"a.id", "b.id"}, false},
			{"at_cap", []string{"a.id", "b.id", "c.id"}, true},
		}
		for _, f := range fixtures {
			t.Run(f.name, func(t *testing.T) {
				svc := newOracle(t, &mockChain{}, &mockNames{owned: f.owned})

				notReady, err := svc.RecipientNotReady(context.Background(), testAddress)
				require.NoError(t, err)
				require.Equal(t, f.expected, notReady)
			})
		}
	})
}

func newOracle(t *testing.T, chain ports.ChainClient, names ports.NameService) ports.AddressOracle {
	t.Helper()

	svc, err := oracle.NewService(chain, names, 1000, 3)
	require.NoError(t, err)
	return svc
}

type mockChain struct {
	unconfirmed []ports.Utxo
	confirmed   []ports.Utxo
}

func (c *mockChain) BroadcastTransaction(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (c *mockChain) GetTxConfirmations(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func (c *mockChain) ListUnspent(
	_ context.Context, _ string, minConf, _ int64,
) ([]ports.Utxo, error) {
	if minConf == 0 {
		return c.unconfirmed, nil
	}
	return c.confirmed, nil
}

func (c *mockChain) Close() {}

type mockNames struct {
	owned []string
}

func (n *mockNames) GetNameRecord(_ context.Context, _ string) (*domain.NameRecord, error) {
	return nil, ports.ErrNameNotFound
}

func (n *mockNames) BuildUpdateTx(
	_ context.Context, _, _, _, _ string,
) (string, error) {
	return "", nil
}

func (n *mockNames) BuildTransferTx(
	_ context.Context, _, _ string, _ bool, _, _ string,
) (string, error) {
	return "", nil
}

func (n *mockNames) NamesOwnedBy(_ context.Context, _ string) ([]string, error) {
	return n.owned, nil
}

func (n *mockNames) Close() {}
