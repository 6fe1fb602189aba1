package lnwire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
)

const (
	// MaxSliceLength is the maximum allowed length for any opaque byte
	// slice carried on the wire.
	MaxSliceLength = 65535

	// MaxMsgBody is the largest payload any message is allowed to
	// provide. Two bytes less than MaxSliceLength, since every message
	// is itself prefixed by a 2-byte command.
	MaxMsgBody = 65533
)

// WriteElement serializes a single element into w, dispatching on its
// concrete type. Every field type used by a Message's Encode method must
// have a case here.
func WriteElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case uint8:
		if _, err := w.Write([]byte{e}); err != nil {
			return err
		}

	case uint16:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], e)
		if _, err := w.Write(b[:]); err != nil {
			return err
		}

	case uint32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], e)
		if _, err := w.Write(b[:]); err != nil {
			return err
		}

	case uint64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], e)
		if _, err := w.Write(b[:]); err != nil {
			return err
		}

	case int64:
		return WriteElement(w, uint64(e))

	case MilliSatoshi:
		return WriteElement(w, uint64(e))

	case bool:
		var b uint8
		if e {
			b = 1
		}
		return WriteElement(w, b)

	case [32]byte:
		if _, err := w.Write(e[:]); err != nil {
			return err
		}

	case [33]byte:
		if _, err := w.Write(e[:]); err != nil {
			return err
		}

	case *btcec.PublicKey:
		if e == nil {
			var empty [33]byte
			return WriteElement(w, empty)
		}
		var b [33]byte
		copy(b[:], e.SerializeCompressed())
		return WriteElement(w, b)

	case []byte:
		if len(e) > MaxSliceLength {
			return fmt.Errorf("slice of length %d exceeds max "+
				"allowed length of %d", len(e), MaxSliceLength)
		}
		if err := WriteElement(w, uint16(len(e))); err != nil {
			return err
		}
		if _, err := w.Write(e); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown type in WriteElement: %T", e)
	}

	return nil
}

// WriteElements writes each of elements into w in order, via WriteElement.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		if err := WriteElement(w, element); err != nil {
			return err
		}
	}
	return nil
}

// ReadElement deserializes a single element from r into the value pointed
// to by element, dispatching on its concrete type.
func ReadElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *uint8:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = b[0]

	case *uint16:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = binary.BigEndian.Uint16(b[:])

	case *uint32:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = binary.BigEndian.Uint32(b[:])

	case *uint64:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = binary.BigEndian.Uint64(b[:])

	case *int64:
		var u uint64
		if err := ReadElement(r, &u); err != nil {
			return err
		}
		*e = int64(u)

	case *MilliSatoshi:
		var u uint64
		if err := ReadElement(r, &u); err != nil {
			return err
		}
		*e = MilliSatoshi(u)

	case *bool:
		var b uint8
		if err := ReadElement(r, &b); err != nil {
			return err
		}
		*e = b != 0

	case *[32]byte:
		if _, err := io.ReadFull(r, e[:]); err != nil {
			return err
		}

	case *[33]byte:
		if _, err := io.ReadFull(r, e[:]); err != nil {
			return err
		}

	case **btcec.PublicKey:
		var b [33]byte
		if err := ReadElement(r, &b); err != nil {
			return err
		}

		var empty [33]byte
		if b == empty {
			*e = nil
			return nil
		}

		pub, err := btcec.ParsePubKey(b[:])
		if err != nil {
			return err
		}
		*e = pub

	case *[]byte:
		var length uint16
		if err := ReadElement(r, &length); err != nil {
			return err
		}

		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		*e = buf

	default:
		return fmt.Errorf("unknown type in ReadElement: %T", e)
	}

	return nil
}

// ReadElements deserializes each of elements from r in order, via
// ReadElement.
func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		if err := ReadElement(r, element); err != nil {
			return err
		}
	}
	return nil
}
