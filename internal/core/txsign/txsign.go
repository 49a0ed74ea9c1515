package txsign

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// ParsePrivateKey accepts either a WIF-encoded or a 32-byte hex private key.
func ParsePrivateKey(key string, params *chaincfg.Params) (*btcec.PrivateKey, error) {
	if wif, err := btcutil.DecodeWIF(key); err == nil {
		if !wif.IsForNet(params) {
			return nil, fmt.Errorf("private key is for the wrong network")
		}
		return wif.PrivKey, nil
	}
	buf, err := hex.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("invalid private key format")
	}
	if len(buf) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("invalid private key length %d", len(buf))
	}
	priv, _ := btcec.PrivKeyFromBytes(buf)
	return priv, nil
}

// EncodePrivateKey serializes a key as compressed WIF, the format the remote
// name service expects for the subsidy signer hint.
func EncodePrivateKey(priv *btcec.PrivateKey, params *chaincfg.Params) (string, error) {
	wif, err := btcutil.NewWIF(priv, params, true)
	if err != nil {
		return "", err
	}
	return wif.String(), nil
}

// AddressFromPrivKey derives the p2pkh address of the compressed public key.
func AddressFromPrivKey(priv *btcec.PrivateKey, params *chaincfg.Params) (string, error) {
	pubKeyHash := btcutil.Hash160(priv.PubKey().SerializeCompressed())
	addr, err := btcutil.NewAddressPubKeyHash(pubKeyHash, params)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// PubKeyHex returns the compressed public key in hex.
func PubKeyHex(priv *btcec.PrivateKey) string {
	return hex.EncodeToString(priv.PubKey().SerializeCompressed())
}

// SignAllUnsignedInputs signs every input of the serialized transaction that
// carries no signature script yet, leaving already-signed inputs untouched.
// Unsigned inputs are assumed to spend p2pkh outputs locked to the key's
// compressed address.
func SignAllUnsignedInputs(
	priv *btcec.PrivateKey, txHex string, params *chaincfg.Params,
) (string, error) {
	raw, err := hex.DecodeString(txHex)
	if err != nil {
		return "", fmt.Errorf("invalid tx hex: %s", err)
	}
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return "", fmt.Errorf("failed to deserialize tx: %s", err)
	}

	pubKeyHash := btcutil.Hash160(priv.PubKey().SerializeCompressed())
	addr, err := btcutil.NewAddressPubKeyHash(pubKeyHash, params)
	if err != nil {
		return "", err
	}
	prevScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return "", err
	}

	signed := 0
	for i, in := range tx.TxIn {
		if len(in.SignatureScript) > 0 {
			continue
		}
		sigScript, err := txscript.SignatureScript(
			&tx, i, prevScript, txscript.SigHashAll, priv, true,
		)
		if err != nil {
			return "", fmt.Errorf("failed to sign input %d: %s", i, err)
		}
		tx.TxIn[i].SignatureScript = sigScript
		signed++
	}
	if signed == 0 {
		return txHex, nil
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

// HashProfile computes the hex hash160 of the canonical JSON serialization of
// a profile document. The hash is what actually lands on chain; canonical
// serialization keeps it stable across key ordering.
func HashProfile(profile json.RawMessage) (string, error) {
	var doc interface{}
	if err := json.Unmarshal(profile, &doc); err != nil {
		return "", fmt.Errorf("invalid profile document: %s", err)
	}
	canonical, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(btcutil.Hash160(canonical)), nil
}
