package lnwallet

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
)

// AnchorRedeemScript builds the bare 2-of-2 multisig redeem script for the
// anchor/funding output: both parties' commitment keys must sign to spend
// it. Pubkeys are sorted lexicographically so both peers independently
// derive an identical script regardless of which one is "us" locally.
//
// Unlike transaction construction or signature verification, this
// assembly is core-owned rather than delegated to an injected capability:
// the script is purely a function of the two public keys and has no
// dependency on a wallet or signing backend.
func AnchorRedeemScript(ourKey, theirKey *btcec.PublicKey) ([]byte, error) {
	a := ourKey.SerializeCompressed()
	b := theirKey.SerializeCompressed()

	if bytes.Compare(a, b) == 1 {
		a, b = b, a
	}

	bldr := txscript.NewScriptBuilder()
	bldr.AddOp(txscript.OP_2)
	bldr.AddData(a)
	bldr.AddData(b)
	bldr.AddOp(txscript.OP_2)
	bldr.AddOp(txscript.OP_CHECKMULTISIG)
	return bldr.Script()
}

// WitnessScriptHash wraps a redeem script into the pay-to-witness-script-
// hash scriptPubKey that would fund it. Kept alongside AnchorRedeemScript
// since both are pure functions of already-known data; anything that
// needs to actually see the blockchain (broadcasting, confirmation
// tracking) is out of scope.
func WitnessScriptHash(redeemScript []byte) ([]byte, error) {
	if len(redeemScript) == 0 {
		return nil, fmt.Errorf("empty redeem script")
	}

	h := txscript.NewScriptBuilder()
	h.AddOp(txscript.OP_0)

	hash := sha256.Sum256(redeemScript)
	h.AddData(hash[:])
	return h.Script()
}
