package lnwire

import (
	"bytes"
	"fmt"
	"io"
)

// MessageType is the per-variant discriminator of the packet algebra. These
// are core-internal labels, not a wire format's protocol tag numbers.
type MessageType uint16

const (
	MsgAuth MessageType = iota
	MsgReconnect
	MsgOpenChannel
	MsgOpenAnchor
	MsgOpenCommitSig
	MsgOpenComplete
	MsgUpdateAddHtlc
	MsgUpdateFulfillHtlc
	MsgUpdateFailHtlc
	MsgUpdateAccept
	MsgUpdateSignature
	MsgUpdateComplete
	MsgCloseShutdown
	MsgCloseSignature
	MsgError
)

func (t MessageType) String() string {
	switch t {
	case MsgAuth:
		return "auth"
	case MsgReconnect:
		return "reconnect"
	case MsgOpenChannel:
		return "open"
	case MsgOpenAnchor:
		return "open_anchor"
	case MsgOpenCommitSig:
		return "open_commit_sig"
	case MsgOpenComplete:
		return "open_complete"
	case MsgUpdateAddHtlc:
		return "update_add_htlc"
	case MsgUpdateFulfillHtlc:
		return "update_fulfill_htlc"
	case MsgUpdateFailHtlc:
		return "update_fail_htlc"
	case MsgUpdateAccept:
		return "update_accept"
	case MsgUpdateSignature:
		return "update_signature"
	case MsgUpdateComplete:
		return "update_complete"
	case MsgCloseShutdown:
		return "close_shutdown"
	case MsgCloseSignature:
		return "close_signature"
	case MsgError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(t))
	}
}

// Message is implemented by every packet variant in the algebra.
type Message interface {
	// MsgType returns the variant's discriminator.
	MsgType() MessageType

	// Encode serializes the variant's body (not including the
	// discriminator) to w.
	Encode(w io.Writer) error

	// Decode deserializes the variant's body (not including the
	// discriminator) from r.
	Decode(r io.Reader) error
}

// newEmptyMessage returns a zero-valued Message for the given type, so that
// ReadMessage can decode into it. Returns nil for an unrecognized type.
func newEmptyMessage(t MessageType) Message {
	switch t {
	case MsgAuth:
		return &Authenticate{}
	case MsgReconnect:
		return &Reconnect{}
	case MsgOpenChannel:
		return &OpenChannel{}
	case MsgOpenAnchor:
		return &OpenAnchor{}
	case MsgOpenCommitSig:
		return &OpenCommitSig{}
	case MsgOpenComplete:
		return &OpenComplete{}
	case MsgUpdateAddHtlc:
		return &UpdateAddHtlc{}
	case MsgUpdateFulfillHtlc:
		return &UpdateFulfillHtlc{}
	case MsgUpdateFailHtlc:
		return &UpdateFailHtlc{}
	case MsgUpdateAccept:
		return &UpdateAccept{}
	case MsgUpdateSignature:
		return &UpdateSignature{}
	case MsgUpdateComplete:
		return &UpdateComplete{}
	case MsgCloseShutdown:
		return &CloseShutdown{}
	case MsgCloseSignature:
		return &CloseSignature{}
	case MsgError:
		return &Error{}
	default:
		return nil
	}
}

// WriteMessage serializes msg to w as a 2-byte type tag followed by its
// encoded body.
func WriteMessage(w io.Writer, msg Message) error {
	if err := WriteElement(w, uint16(msg.MsgType())); err != nil {
		return err
	}
	return msg.Encode(w)
}

// ReadMessage reads a 2-byte type tag from r followed by the variant's
// body, and returns the decoded Message. An unrecognized type tag is a
// peer-reportable framing error, not an invariant-fatal one.
func ReadMessage(r io.Reader) (Message, error) {
	var t uint16
	if err := ReadElement(r, &t); err != nil {
		return nil, err
	}

	msg := newEmptyMessage(MessageType(t))
	if msg == nil {
		return nil, fmt.Errorf("unknown message type %d", t)
	}

	if err := msg.Decode(r); err != nil {
		return nil, err
	}

	return msg, nil
}

// EncodeMessage returns msg serialized exactly as WriteMessage would write
// it, as a standalone byte slice.
func EncodeMessage(msg Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeMessage is the inverse of EncodeMessage.
func DecodeMessage(b []byte) (Message, error) {
	return ReadMessage(bytes.NewReader(b))
}
