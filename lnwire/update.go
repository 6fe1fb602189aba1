package lnwire

import "io"

// UpdateAddHtlc proposes a new HTLC from the sender to the peer, staging it
// against the sender's copy of the not-yet-committed channel state.
//
// revocation_hash is carried here even though it is absent from some
// historical descriptions of this packet: the handshake actually reads and
// writes the sender's next revocation hash on this exact packet, so it is
// included. Id distinguishes multiple concurrently-proposed HTLCs; the
// route field is the onion-wrapped next-hop instructions, opaque to this
// core since multi-hop forwarding is out of scope.
type UpdateAddHtlc struct {
	Id             uint64
	AmountMsat     MilliSatoshi
	RHash          Sha256Hash
	Expiry         Locktime
	RevocationHash Sha256Hash
	Route          []byte
}

func (m *UpdateAddHtlc) MsgType() MessageType { return MsgUpdateAddHtlc }

func (m *UpdateAddHtlc) Encode(w io.Writer) error {
	if err := WriteElements(w, m.Id, m.AmountMsat); err != nil {
		return err
	}
	if err := m.RHash.Encode(w); err != nil {
		return err
	}
	if err := m.Expiry.Encode(w); err != nil {
		return err
	}
	if err := m.RevocationHash.Encode(w); err != nil {
		return err
	}
	return WriteElement(w, m.Route)
}

func (m *UpdateAddHtlc) Decode(r io.Reader) error {
	if err := ReadElements(r, &m.Id, &m.AmountMsat); err != nil {
		return err
	}
	if err := m.RHash.Decode(r); err != nil {
		return err
	}
	if err := m.Expiry.Decode(r); err != nil {
		return err
	}
	if err := m.RevocationHash.Decode(r); err != nil {
		return err
	}
	return ReadElement(r, &m.Route)
}

// UpdateFulfillHtlc settles a previously-added HTLC by revealing its
// preimage. The original handshake never implemented HTLC settlement (its
// accept_pkt_htlc_fulfill handler is an unimplemented stub); this core
// completes it, since resolving HTLCs is fundamental to a usable channel.
type UpdateFulfillHtlc struct {
	Id       uint64
	Preimage Sha256Hash
}

func (m *UpdateFulfillHtlc) MsgType() MessageType { return MsgUpdateFulfillHtlc }

func (m *UpdateFulfillHtlc) Encode(w io.Writer) error {
	if err := WriteElement(w, m.Id); err != nil {
		return err
	}
	return m.Preimage.Encode(w)
}

func (m *UpdateFulfillHtlc) Decode(r io.Reader) error {
	if err := ReadElement(r, &m.Id); err != nil {
		return err
	}
	return m.Preimage.Decode(r)
}

// UpdateFailHtlc fails a previously-added HTLC back to the sender, with an
// opaque reason (propagated upstream hop-by-hop; this core does not
// interpret it, since onion routing is out of scope).
type UpdateFailHtlc struct {
	Id     uint64
	Reason []byte
}

func (m *UpdateFailHtlc) MsgType() MessageType { return MsgUpdateFailHtlc }

func (m *UpdateFailHtlc) Encode(w io.Writer) error {
	if err := WriteElement(w, m.Id); err != nil {
		return err
	}
	return WriteElement(w, m.Reason)
}

func (m *UpdateFailHtlc) Decode(r io.Reader) error {
	if err := ReadElement(r, &m.Id); err != nil {
		return err
	}
	return ReadElement(r, &m.Reason)
}

// UpdateAccept is the peer's reply to a staged change (an add, fulfill, or
// fail): a signature over the proposer's new commitment transaction, and
// the replier's own next revocation hash. Receiving this lets the proposer
// commit to the new state immediately; it does not yet reveal the
// proposer's own prior-state preimage, which follows in UpdateSignature.
type UpdateAccept struct {
	Sig            Signature
	RevocationHash Sha256Hash
}

func (m *UpdateAccept) MsgType() MessageType { return MsgUpdateAccept }

func (m *UpdateAccept) Encode(w io.Writer) error {
	if err := m.Sig.Encode(w); err != nil {
		return err
	}
	return m.RevocationHash.Encode(w)
}

func (m *UpdateAccept) Decode(r io.Reader) error {
	if err := m.Sig.Decode(r); err != nil {
		return err
	}
	return m.RevocationHash.Decode(r)
}

// UpdateSignature is the proposer's reply to UpdateAccept: a signature over
// the peer's new commitment transaction, and the preimage revoking the
// proposer's prior commitment. Combining the counter-signature and the
// revocation in one packet means the proposer never has to use the old
// state again once this is sent.
type UpdateSignature struct {
	Sig                Signature
	RevocationPreimage Sha256Hash
}

func (m *UpdateSignature) MsgType() MessageType { return MsgUpdateSignature }

func (m *UpdateSignature) Encode(w io.Writer) error {
	if err := m.Sig.Encode(w); err != nil {
		return err
	}
	return m.RevocationPreimage.Encode(w)
}

func (m *UpdateSignature) Decode(r io.Reader) error {
	if err := m.Sig.Decode(r); err != nil {
		return err
	}
	return m.RevocationPreimage.Decode(r)
}

// UpdateComplete closes out the dance by revealing the replier's own
// prior-state preimage, now that both sides hold a validly countersigned
// new commitment transaction.
type UpdateComplete struct {
	RevocationPreimage Sha256Hash
}

func (m *UpdateComplete) MsgType() MessageType { return MsgUpdateComplete }

func (m *UpdateComplete) Encode(w io.Writer) error {
	return m.RevocationPreimage.Encode(w)
}

func (m *UpdateComplete) Decode(r io.Reader) error {
	return m.RevocationPreimage.Decode(r)
}
