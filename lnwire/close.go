package lnwire

import "io"

// CloseShutdown and CloseSignature round out the packet algebra's oneof,
// but the close sub-protocol itself is a Non-goal: the original handshake
// never implements it (its accept_pkt_close* handlers are unimplemented
// stubs), so there is no accept_close/make_close pair in the protocol
// engine driving these. They exist here only so Message/Pkt encode and
// decode every variant named by the algebra.

type CloseShutdown struct {
	ScriptPubkey []byte
}

func (m *CloseShutdown) MsgType() MessageType { return MsgCloseShutdown }

func (m *CloseShutdown) Encode(w io.Writer) error {
	return WriteElement(w, m.ScriptPubkey)
}

func (m *CloseShutdown) Decode(r io.Reader) error {
	return ReadElement(r, &m.ScriptPubkey)
}

type CloseSignature struct {
	CloseFee uint64
	Sig      Signature
}

func (m *CloseSignature) MsgType() MessageType { return MsgCloseSignature }

func (m *CloseSignature) Encode(w io.Writer) error {
	if err := WriteElement(w, m.CloseFee); err != nil {
		return err
	}
	return m.Sig.Encode(w)
}

func (m *CloseSignature) Decode(r io.Reader) error {
	if err := ReadElement(r, &m.CloseFee); err != nil {
		return err
	}
	return m.Sig.Decode(r)
}
