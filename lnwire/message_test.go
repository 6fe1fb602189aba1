package lnwire

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"

	"github.com/lnlited/lnlited/lntypes"
)

func testPubkey(t *testing.T) *btcec.PublicKey {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return priv.PubKey()
}

// roundTrip computes decode(encode(m)) and asserts the message type
// survives; callers compare the decoded fields against m, per the packet
// algebra's round-trip law.
func roundTrip(t *testing.T, msg Message) Message {
	t.Helper()

	b, err := EncodeMessage(msg)
	require.NoError(t, err)

	got, err := DecodeMessage(b)
	require.NoError(t, err)
	require.Equal(t, msg.MsgType(), got.MsgType())

	return got
}

func TestSha256HashRoundTrip(t *testing.T) {
	var h lntypes.Hash
	for i := range h {
		h[i] = byte(i)
	}

	wire := NewSha256Hash(h)
	require.Equal(t, h, wire.Hash())
}

func TestSignatureRoundTrip(t *testing.T) {
	var raw [64]byte
	for i := range raw {
		raw[i] = byte(i * 3)
	}

	require.Equal(t, raw, NewSignature(raw).Bytes())
}

func TestOpenChannelRoundTrip(t *testing.T) {
	var rhash lntypes.Hash
	rhash[0] = 0xaa

	msg := &OpenChannel{
		Delay:          Locktime{Kind: LocktimeSeconds, Value: 144},
		RevocationHash: NewSha256Hash(rhash),
		CommitKey:      testPubkey(t),
		FinalKey:       testPubkey(t),
		Anch:           AnchorWillCreate,
		MinDepth:       6,
		InitialFeeRate: 5000,
	}

	got := roundTrip(t, msg).(*OpenChannel)
	require.Equal(t, msg.Delay, got.Delay)
	require.Equal(t, msg.RevocationHash, got.RevocationHash)
	require.True(t, msg.CommitKey.IsEqual(got.CommitKey))
	require.True(t, msg.FinalKey.IsEqual(got.FinalKey))
	require.Equal(t, msg.Anch, got.Anch)
	require.Equal(t, msg.MinDepth, got.MinDepth)
	require.Equal(t, msg.InitialFeeRate, got.InitialFeeRate)
}

func TestUpdateAddHtlcRoundTrip(t *testing.T) {
	var rhash, revHash lntypes.Hash
	rhash[0] = 1
	revHash[0] = 2

	msg := &UpdateAddHtlc{
		Id:             42,
		AmountMsat:     100_000,
		RHash:          NewSha256Hash(rhash),
		Expiry:         Locktime{Kind: LocktimeBlocks, Value: 500000},
		RevocationHash: NewSha256Hash(revHash),
		Route:          []byte{1, 2, 3},
	}

	got := roundTrip(t, msg).(*UpdateAddHtlc)
	require.Equal(t, msg, got)
}

func TestUpdateAcceptRoundTrip(t *testing.T) {
	var revHash lntypes.Hash
	revHash[5] = 7

	msg := &UpdateAccept{
		Sig:            NewSignature([64]byte{1: 9}),
		RevocationHash: NewSha256Hash(revHash),
	}

	got := roundTrip(t, msg).(*UpdateAccept)
	require.Equal(t, msg, got)
}

func TestUpdateSignatureRoundTrip(t *testing.T) {
	var preimage lntypes.Hash
	preimage[9] = 3

	msg := &UpdateSignature{
		Sig:                NewSignature([64]byte{2: 4}),
		RevocationPreimage: NewSha256Hash(preimage),
	}

	got := roundTrip(t, msg).(*UpdateSignature)
	require.Equal(t, msg, got)
}

func TestErrorRoundTrip(t *testing.T) {
	msg := &Error{Problem: "Bad signature"}

	got := roundTrip(t, msg).(*Error)
	require.Equal(t, msg.Problem, got.Problem)
}

func TestUnknownMessageTypeIsPeerReportable(t *testing.T) {
	_, err := DecodeMessage([]byte{0xff, 0xff})
	require.Error(t, err)
}
