package txsign_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/blocknames/registrar/internal/core/txsign"
)

const (
	privKeyHex = "0000000000000000000000000000000000000000000000000000000000000001"
	// compressed p2pkh address of the key above on mainnet
	expectedAddress = "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH"
	expectedPubKey  = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
)

func TestParsePrivateKey(t *testing.T) {
	t.Run("valid_hex", func(t *testing.T) {
		priv, err := txsign.ParsePrivateKey(privKeyHex, &chaincfg.MainNetParams)
		require.NoError(t, err)
		require.NotNil(t, priv)
	})

	t.Run("valid_wif_roundtrip", func(t *testing.T) {
		priv, err := txsign.ParsePrivateKey(privKeyHex, &chaincfg.MainNetParams)
		require.NoError(t, err)

		wif, err := txsign.EncodePrivateKey(priv, &chaincfg.MainNetParams)
		require.NoError(t, err)
		require.NotEmpty(t, wif)

		parsed, err := txsign.ParsePrivateKey(wif, &chaincfg.MainNetParams)
		require.NoError(t, err)
		require.Equal(t, priv.Serialize(), parsed.Serialize())
	})

	t.Run("invalid", func(t *testing.T) {
		fixtures := []string{"", "zz", "deadbeef"}
		for _, f := range fixtures {
			priv, err := txsign.ParsePrivateKey(f, &chaincfg.MainNetParams)
			require.Error(t, err)
			require.Nil(t, priv)
		}
	})
}

func TestAddressFromPrivKey(t *testing.T) {
	priv, err := txsign.ParsePrivateKey(privKeyHex, &chaincfg.MainNetParams)
	require.NoError(t, err)

	addr, err := txsign.AddressFromPrivKey(priv, &chaincfg.MainNetParams)
	require.NoError(t, err)
	require.Equal(t, expectedAddress, addr)

	require.Equal(t, expectedPubKey, txsign.PubKeyHex(priv))
}

func TestSignAllUnsignedInputs(t *testing.T) {
	priv, err := txsign.ParsePrivateKey(privKeyHex, &chaincfg.MainNetParams)
	require.NoError(t, err)

	presigned := []byte{0x01, 0x02, 0x03}
	txHex := makeTxHex(t, [][]byte{presigned, nil})

	signedHex, err := txsign.SignAllUnsignedInputs(priv, txHex, &chaincfg.MainNetParams)
	require.NoError(t, err)
	require.NotEqual(t, txHex, signedHex)

	signed := decodeTx(t, signedHex)
	require.Len(t, signed.TxIn, 2)
	require.Equal(t, presigned, signed.TxIn[0].SignatureScript)
	require.NotEmpty(t, signed.TxIn[1].SignatureScript)

	t.Run("fully_signed_is_untouched", func(t *testing.T) {
		again, err := txsign.SignAllUnsignedInputs(priv, signedHex, &chaincfg.MainNetParams)
		require.NoError(t, err)
		require.Equal(t, signedHex, again)
	})

	t.Run("invalid_hex", func(t *testing.T) {
		_, err := txsign.SignAllUnsignedInputs(priv, "not-hex", &chaincfg.MainNetParams)
		require.Error(t, err)
	})
}

func TestHashProfile(t *testing.T) {
	t.Run("stable_across_key_order", func(t *testing.T) {
		a, err := txsign.HashProfile([]byte(`{"name":"alice","url":"https://alice.example"}`))
		require.NoError(t, err)
		b, err := txsign.HashProfile([]byte(`{"url":"https://alice.example","name":"alice"}`))
		require.NoError(t, err)
		require.Equal(t, a, b)
		require.Len(t, a, 40)
	})

	t.Run("invalid_document", func(t *testing.T) {
		_, err := txsign.HashProfile([]byte(`{"name":`))
		require.Error(t, err)
	})
}

func makeTxHex(t *testing.T, sigScripts [][]byte) string {
	t.Helper()

	tx := wire.NewMsgTx(wire.TxVersion)
	for i, sigScript := range sigScripts {
		prevOut := wire.NewOutPoint(&chainhash.Hash{byte(i + 1)}, uint32(i))
		in := wire.NewTxIn(prevOut, sigScript, nil)
		tx.AddTxIn(in)
	}
	tx.AddTxOut(wire.NewTxOut(1000, []byte{0x6a}))

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	return hex.EncodeToString(buf.Bytes())
}

func decodeTx(t *testing.T, txHex string) *wire.MsgTx {
	t.Helper()

	raw, err := hex.DecodeString(txHex)
	require.NoError(t, err)
	var tx wire.MsgTx
	require.NoError(t, tx.Deserialize(bytes.NewReader(raw)))
	return &tx
}
