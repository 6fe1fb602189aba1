package lnwallet

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/wire"

	"github.com/lnlited/lnlited/lntypes"
	"github.com/lnlited/lnlited/lnwire"
)

// CommitmentParams is everything needed to build one party's view of a
// commitment transaction: the anchor it spends, who gets paid what, and
// the revocation hash that will let the other side punish a stale
// broadcast of this exact transaction.
type CommitmentParams struct {
	FundingOutpoint wire.OutPoint
	RedeemScript    []byte

	ToSelf   lnwire.MilliSatoshi
	ToRemote lnwire.MilliSatoshi
	Htlcs    []Htlc

	RevocationHash lntypes.Hash
	SelfKey        *btcec.PublicKey
	RemoteKey      *btcec.PublicKey
	SelfDelay      uint32
	FeeSat         uint64
}

// CommitmentBuilder constructs the actual on-chain commitment transaction
// for a given set of parameters. Real transaction assembly (inputs,
// per-HTLC outputs with their timeout/success scripts, fee subtraction)
// is an opaque, injected capability: the protocol engine only needs the
// resulting transaction to pass to a Signer or Verifier, never to inspect
// its structure itself.
type CommitmentBuilder interface {
	BuildCommitment(params CommitmentParams) (*wire.MsgTx, error)
}

// Signer produces a signature authorizing a spend of the anchor's 2-of-2
// output by the given transaction. Real key management and ECDSA signing
// are opaque, injected capabilities.
type Signer interface {
	SignCommitment(tx *wire.MsgTx, redeemScript []byte) (lnwire.Signature, error)
}

// Verifier checks a signature against a transaction and a public key.
// Real signature verification is an opaque, injected capability.
type Verifier interface {
	VerifyCommitment(tx *wire.MsgTx, redeemScript []byte, pubKey *btcec.PublicKey, sig lnwire.Signature) bool
}
