package lnwire

import (
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Authenticate is the first packet on a new connection: the sender's node
// identity and a signature over its session key. Session authentication is
// a transport-layer concern this core does not implement; the variant is
// carried for algebra completeness and round-trips opaquely.
type Authenticate struct {
	NodeID     *btcec.PublicKey
	SessionSig Signature
}

func (m *Authenticate) MsgType() MessageType { return MsgAuth }

func (m *Authenticate) Encode(w io.Writer) error {
	if err := WriteElement(w, m.NodeID); err != nil {
		return err
	}
	return m.SessionSig.Encode(w)
}

func (m *Authenticate) Decode(r io.Reader) error {
	if err := ReadElement(r, &m.NodeID); err != nil {
		return err
	}
	return m.SessionSig.Decode(r)
}

// Reconnect announces how many update_accept/update_complete exchanges the
// sender already completed, for resuming after a dropped connection.
// Session resumption is out of scope for this core; carried for algebra
// completeness.
type Reconnect struct {
	Ack uint64
}

func (m *Reconnect) MsgType() MessageType { return MsgReconnect }

func (m *Reconnect) Encode(w io.Writer) error {
	return WriteElement(w, m.Ack)
}

func (m *Reconnect) Decode(r io.Reader) error {
	return ReadElement(r, &m.Ack)
}

// Error is sent immediately before a session is torn down, carrying a
// human-readable (not machine-parsed) explanation for diagnostics only.
type Error struct {
	Problem string
}

func (m *Error) MsgType() MessageType { return MsgError }

func (m *Error) Encode(w io.Writer) error {
	return WriteElement(w, []byte(m.Problem))
}

func (m *Error) Decode(r io.Reader) error {
	var b []byte
	if err := ReadElement(r, &b); err != nil {
		return err
	}
	m.Problem = string(b)
	return nil
}
