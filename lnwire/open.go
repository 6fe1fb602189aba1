package lnwire

import (
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
)

// OpenChannel is the first packet of the opening sub-protocol: the
// sender's proposed channel parameters.
//
// The field set here follows the behavior actually implemented by the
// opening handshake rather than the protocol's older schema: a
// next_revocation_hash field appears in some historical descriptions of
// this packet but is never populated or consumed by the handshake, so it
// is omitted here; the fee field is named InitialFeeRate for continuity
// with that older schema even though it carries a flat commitment fee, not
// a rate.
type OpenChannel struct {
	// Delay is the proposed relative locktime for outputs paying back to
	// the sender. Only the seconds variant is accepted.
	Delay Locktime

	// RevocationHash is the hash for revoking the sender's first
	// commitment transaction.
	RevocationHash Sha256Hash

	// CommitKey is the sender's pubkey for the anchor's 2-of-2 input on
	// commitment transactions.
	CommitKey *btcec.PublicKey

	// FinalKey is the sender's pubkey for its payout from the
	// commitment transaction.
	FinalKey *btcec.PublicKey

	// Anch states whether the sender will create the anchor.
	Anch AnchorOffer

	// MinDepth is how many confirmations the anchor needs before the
	// sender considers the channel live.
	MinDepth uint32

	// InitialFeeRate is the commitment transaction fee (in satoshis)
	// the sender proposes.
	InitialFeeRate uint64
}

func (m *OpenChannel) MsgType() MessageType { return MsgOpenChannel }

func (m *OpenChannel) Encode(w io.Writer) error {
	if err := m.Delay.Encode(w); err != nil {
		return err
	}
	if err := m.RevocationHash.Encode(w); err != nil {
		return err
	}
	return WriteElements(w,
		m.CommitKey, m.FinalKey, uint8(m.Anch), m.MinDepth,
		m.InitialFeeRate,
	)
}

func (m *OpenChannel) Decode(r io.Reader) error {
	if err := m.Delay.Decode(r); err != nil {
		return err
	}
	if err := m.RevocationHash.Decode(r); err != nil {
		return err
	}

	var anch uint8
	if err := ReadElements(r,
		&m.CommitKey, &m.FinalKey, &anch, &m.MinDepth,
		&m.InitialFeeRate,
	); err != nil {
		return err
	}
	m.Anch = AnchorOffer(anch)

	return nil
}

// OpenAnchor is sent by whichever side is supplying the anchor: the
// funding outpoint, and a signature for the non-funder's initial
// commitment transaction.
//
// CommitSig is carried here (rather than deferred to a later packet)
// because the funder already knows the non-funder's commitment transaction
// by this point and signs it immediately; the non-funder replies with its
// own signature in OpenCommitSig.
type OpenAnchor struct {
	Txid        Sha256Hash
	OutputIndex uint32
	Amount      uint64
	CommitSig   Signature
}

func (m *OpenAnchor) MsgType() MessageType { return MsgOpenAnchor }

func (m *OpenAnchor) Encode(w io.Writer) error {
	if err := m.Txid.Encode(w); err != nil {
		return err
	}
	if err := WriteElements(w, m.OutputIndex, m.Amount); err != nil {
		return err
	}
	return m.CommitSig.Encode(w)
}

func (m *OpenAnchor) Decode(r io.Reader) error {
	if err := m.Txid.Decode(r); err != nil {
		return err
	}
	if err := ReadElements(r, &m.OutputIndex, &m.Amount); err != nil {
		return err
	}
	return m.CommitSig.Decode(r)
}

// OpenCommitSig is the non-funder's reply to OpenAnchor: a signature over
// the funder's initial commitment transaction.
type OpenCommitSig struct {
	Sig Signature
}

func (m *OpenCommitSig) MsgType() MessageType { return MsgOpenCommitSig }

func (m *OpenCommitSig) Encode(w io.Writer) error { return m.Sig.Encode(w) }
func (m *OpenCommitSig) Decode(r io.Reader) error { return m.Sig.Decode(r) }

// OpenComplete announces that the sender has seen the anchor reach its
// minimum confirmation depth, moving the channel to the normal state.
type OpenComplete struct{}

func (m *OpenComplete) MsgType() MessageType { return MsgOpenComplete }
func (m *OpenComplete) Encode(io.Writer) error { return nil }
func (m *OpenComplete) Decode(io.Reader) error { return nil }
