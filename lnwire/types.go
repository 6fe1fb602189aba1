package lnwire

import (
	"encoding/binary"
	"io"

	"github.com/lnlited/lnlited/lntypes"
)

// Sha256Hash is the 4-limb wire encoding of a 32-byte hash. Protobuf has no
// fixed-length byte field, so the original protocol split every hash into
// four big-endian uint64 limbs; we keep that layout for fidelity to the
// wire, while giving callers a normal lntypes.Hash to work with.
type Sha256Hash struct {
	A, B, C, D uint64
}

// NewSha256Hash packs a Hash into its 4-limb wire form.
func NewSha256Hash(h lntypes.Hash) Sha256Hash {
	return Sha256Hash{
		A: binary.BigEndian.Uint64(h[0:8]),
		B: binary.BigEndian.Uint64(h[8:16]),
		C: binary.BigEndian.Uint64(h[16:24]),
		D: binary.BigEndian.Uint64(h[24:32]),
	}
}

// Hash unpacks the 4-limb wire form back into an lntypes.Hash.
func (s Sha256Hash) Hash() lntypes.Hash {
	var h lntypes.Hash
	binary.BigEndian.PutUint64(h[0:8], s.A)
	binary.BigEndian.PutUint64(h[8:16], s.B)
	binary.BigEndian.PutUint64(h[16:24], s.C)
	binary.BigEndian.PutUint64(h[24:32], s.D)
	return h
}

func (s Sha256Hash) Encode(w io.Writer) error {
	return WriteElements(w, s.A, s.B, s.C, s.D)
}

func (s *Sha256Hash) Decode(r io.Reader) error {
	return ReadElements(r, &s.A, &s.B, &s.C, &s.D)
}

// Signature is the 8-limb wire encoding of a raw (r, s) ECDSA signature: r
// and s each split into four big-endian uint64 limbs, for the same
// fixed-length reason as Sha256Hash. The core never inspects r/s; it treats
// signatures as opaque values produced and checked by the injected signer
// and verifier.
type Signature struct {
	R1, R2, R3, R4 uint64
	S1, S2, S3, S4 uint64
}

// NewSignature packs a raw 64-byte (r || s) signature into its wire form.
func NewSignature(raw [64]byte) Signature {
	return Signature{
		R1: binary.BigEndian.Uint64(raw[0:8]),
		R2: binary.BigEndian.Uint64(raw[8:16]),
		R3: binary.BigEndian.Uint64(raw[16:24]),
		R4: binary.BigEndian.Uint64(raw[24:32]),
		S1: binary.BigEndian.Uint64(raw[32:40]),
		S2: binary.BigEndian.Uint64(raw[40:48]),
		S3: binary.BigEndian.Uint64(raw[48:56]),
		S4: binary.BigEndian.Uint64(raw[56:64]),
	}
}

// Bytes unpacks the wire form back into a raw 64-byte (r || s) signature.
func (s Signature) Bytes() [64]byte {
	var raw [64]byte
	binary.BigEndian.PutUint64(raw[0:8], s.R1)
	binary.BigEndian.PutUint64(raw[8:16], s.R2)
	binary.BigEndian.PutUint64(raw[16:24], s.R3)
	binary.BigEndian.PutUint64(raw[24:32], s.R4)
	binary.BigEndian.PutUint64(raw[32:40], s.S1)
	binary.BigEndian.PutUint64(raw[40:48], s.S2)
	binary.BigEndian.PutUint64(raw[48:56], s.S3)
	binary.BigEndian.PutUint64(raw[56:64], s.S4)
	return raw
}

func (s Signature) Encode(w io.Writer) error {
	return WriteElements(w, s.R1, s.R2, s.R3, s.R4, s.S1, s.S2, s.S3, s.S4)
}

func (s *Signature) Decode(r io.Reader) error {
	return ReadElements(r,
		&s.R1, &s.R2, &s.R3, &s.R4, &s.S1, &s.S2, &s.S3, &s.S4,
	)
}

// LocktimeKind discriminates Locktime's oneof: a relative or absolute delay
// is expressed either in wall-clock seconds or in block count, never both.
type LocktimeKind uint8

const (
	LocktimeSeconds LocktimeKind = 1
	LocktimeBlocks  LocktimeKind = 2
)

// Locktime is a relative or absolute delay, expressed as either seconds or
// blocks. The opening handshake only ever accepts the seconds variant for
// the channel delay; the blocks variant exists on the wire so it can be
// rejected explicitly rather than failing to parse.
type Locktime struct {
	Kind  LocktimeKind
	Value uint32
}

func (l Locktime) Encode(w io.Writer) error {
	return WriteElements(w, uint8(l.Kind), l.Value)
}

func (l *Locktime) Decode(r io.Reader) error {
	var kind uint8
	if err := ReadElements(r, &kind, &l.Value); err != nil {
		return err
	}
	l.Kind = LocktimeKind(kind)
	return nil
}

// AnchorOffer states which side of an opening handshake will broadcast the
// on-chain 2-of-2 funding output. Exactly one side may offer it.
type AnchorOffer uint8

const (
	AnchorWillCreate AnchorOffer = 1
	AnchorWontCreate AnchorOffer = 2
)
