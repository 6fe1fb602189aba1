package protocol

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/lnlited/lnlited/config"
	"github.com/lnlited/lnlited/lntypes"
	"github.com/lnlited/lnlited/lnwallet"
	"github.com/lnlited/lnlited/lnwire"
)

// fakeBuilder/fakeSigner/fakeVerifier stand in for the opaque transaction
// and key-management capabilities this package never implements itself.
// The scheme below is not real ECDSA: the fake transaction encodes only
// the two balances, the redeem script, the revocation hash and the HTLC
// count, so tampering with any of those changes whether VerifyCommitment
// accepts. Keys, delays and fees are not covered.
type fakeBuilder struct{}

func (fakeBuilder) BuildCommitment(p lnwallet.CommitmentParams) (*wire.MsgTx, error) {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(&wire.TxOut{Value: int64(p.ToSelf), PkScript: p.RedeemScript})
	tx.AddTxOut(&wire.TxOut{Value: int64(p.ToRemote)})
	var rev [32]byte
	copy(rev[:], p.RevocationHash[:])
	tx.AddTxOut(&wire.TxOut{Value: int64(len(p.Htlcs)), PkScript: rev[:]})
	return tx, nil
}

func txDigest(tx *wire.MsgTx, redeemScript []byte) [64]byte {
	var buf bytes.Buffer
	_ = tx.Serialize(&buf)
	buf.Write(redeemScript)
	sum := sha256.Sum256(buf.Bytes())
	var out [64]byte
	copy(out[:32], sum[:])
	copy(out[32:], sum[:])
	return out
}

type fakeSigner struct{}

func (fakeSigner) SignCommitment(tx *wire.MsgTx, redeemScript []byte) (lnwire.Signature, error) {
	return lnwire.NewSignature(txDigest(tx, redeemScript)), nil
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyCommitment(tx *wire.MsgTx, redeemScript []byte, pubKey *btcec.PublicKey, sig lnwire.Signature) bool {
	return lnwire.NewSignature(txDigest(tx, redeemScript)) == sig
}

func newTestEngine(t *testing.T, offersAnchor bool, seed byte) *Engine {
	t.Helper()

	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	finalPriv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	var root chainhash.Hash
	root[0] = seed

	e, err := NewEngine(
		config.Default(),
		Params{
			CommitKey:    priv.PubKey(),
			FinalKey:     finalPriv.PubKey(),
			DelaySeconds: 144 * 600,
			MinDepth:     1,
			CommitFeeSat: 100,
			OffersAnchor: offersAnchor,
		},
		root, 20,
		fakeBuilder{}, fakeSigner{}, fakeVerifier{},
	)
	require.NoError(t, err)
	return e
}

// openChannel drives a pair of engines through the full opening
// handshake (scenario S4), returning them both in Normal.
func openChannel(t *testing.T) (funder, nonFunder *Engine) {
	t.Helper()

	funder = newTestEngine(t, true, 0x01)
	nonFunder = newTestEngine(t, false, 0x02)

	funderOpen, err := funder.Open()
	require.NoError(t, err)
	nonFunderOpen, err := nonFunder.Open()
	require.NoError(t, err)

	require.NoError(t, funder.HandleOpen(nonFunderOpen))
	require.NoError(t, nonFunder.HandleOpen(funderOpen))
	require.Equal(t, OpenWaitSig, funder.State())
	require.Equal(t, OpenWaitAnchor, nonFunder.State())

	var txid lntypes.Hash
	txid[0] = 0xaa
	anchorMsg, err := funder.MakeAnchor(txid, 0, 1_000_000)
	require.NoError(t, err)

	commitSig, err := nonFunder.HandleAnchor(anchorMsg)
	require.NoError(t, err)
	require.Equal(t, OpenWaitComplete, nonFunder.State())

	require.NoError(t, funder.HandleCommitSig(commitSig))
	require.Equal(t, OpenWaitComplete, funder.State())

	completeMsg, err := funder.ObserveAnchorConfirmed()
	require.NoError(t, err)
	require.Equal(t, Normal, funder.State())

	require.NoError(t, nonFunder.HandleOpenComplete(completeMsg))
	require.Equal(t, Normal, nonFunder.State())

	return funder, nonFunder
}

func TestOpenChannelHappyPath(t *testing.T) {
	funder, nonFunder := openChannel(t)

	require.NotNil(t, funder.Funding())
	require.NotNil(t, nonFunder.Funding())

	// Each side's view of the channel must agree once inverted back to
	// a common perspective.
	require.Equal(t, funder.Funding().Us.PayMsat, nonFunder.Funding().Them.PayMsat)
	require.Equal(t, funder.Funding().Them.PayMsat, nonFunder.Funding().Us.PayMsat)

	// Both sides proposed the same fee (100 sat) in this test, so the
	// combined fee is just that; the funder keeps amount-fee and each
	// side holds half the fee in reserve.
	feeMsat := lnwire.NewMSatFromSatoshis(btcutil.Amount(100))
	amountMsat := lnwire.NewMSatFromSatoshis(btcutil.Amount(1_000_000))
	require.Equal(t, amountMsat-feeMsat, funder.Funding().Us.PayMsat)
	require.Equal(t, lnwire.MilliSatoshi(0), funder.Funding().Them.PayMsat)
	require.Equal(t, feeMsat, funder.Funding().Us.FeeMsat+funder.Funding().Them.FeeMsat)
}

func TestOpenRejectsMismatchedAnchorOffer(t *testing.T) {
	a := newTestEngine(t, true, 0x01)
	b := newTestEngine(t, true, 0x02) // both offering, illegal

	openA, err := a.Open()
	require.NoError(t, err)

	err = b.HandleOpen(openA)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Only one side can offer anchor")
}

func TestOpenRejectsExcessiveDelay(t *testing.T) {
	a := newTestEngine(t, true, 0x01)
	b := newTestEngine(t, false, 0x02)

	openA, err := a.Open()
	require.NoError(t, err)
	openA.Delay.Value = b.cfg.RelLocktimeMax + 1

	err = b.HandleOpen(openA)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Delay too great")
}

// TestAddHtlcHappyPath drives the full four-packet update dance
// (scenario S5): UpdateAddHtlc, UpdateAccept, UpdateSignature,
// UpdateComplete, checking balance conservation throughout.
func TestAddHtlcHappyPath(t *testing.T) {
	funder, nonFunder := openChannel(t)

	preimage, err := lntypes.RandomPreimage()
	require.NoError(t, err)
	rHash := preimage.Hash()

	addMsg, err := funder.ProposeAddHtlc(1, 50_000, rHash, 100, nil)
	require.NoError(t, err)
	require.Equal(t, HtlcProposed, funder.State())

	acceptMsg, err := nonFunder.HandleAddHtlc(addMsg)
	require.NoError(t, err)
	require.Equal(t, HtlcAccepted, nonFunder.State())

	sigMsg, err := funder.HandleAccept(acceptMsg)
	require.NoError(t, err)
	require.Equal(t, HtlcAccepted, funder.State())
	_, ok := funder.Funding().Us.FindHtlc(1)
	require.True(t, ok)

	completeMsg, err := nonFunder.HandleSignature(sigMsg)
	require.NoError(t, err)
	require.Equal(t, Normal, nonFunder.State())
	_, ok = nonFunder.Funding().Them.FindHtlc(1)
	require.True(t, ok)

	require.NoError(t, funder.HandleUpdateComplete(completeMsg))
	require.Equal(t, Normal, funder.State())

	require.Equal(t,
		funder.Funding().Us.TotalFunds()+funder.Funding().Them.TotalFunds(),
		nonFunder.Funding().Us.TotalFunds()+nonFunder.Funding().Them.TotalFunds(),
	)
}

// TestAddHtlcRejectedWhenUnaffordable covers scenario S6.
func TestAddHtlcRejectedWhenUnaffordable(t *testing.T) {
	funder, _ := openChannel(t)

	_, err := funder.ProposeAddHtlc(1, funder.Funding().Us.PayMsat+1, lntypes.Hash{}, 100, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot afford")
	require.Equal(t, Normal, funder.State())
}

func TestHandleAddHtlcRejectsUnaffordable(t *testing.T) {
	funder, nonFunder := openChannel(t)

	msg := &lnwire.UpdateAddHtlc{
		Id:         1,
		AmountMsat: nonFunder.Funding().Them.PayMsat + 1,
		Expiry:     lnwire.Locktime{Kind: lnwire.LocktimeSeconds, Value: 100},
	}
	_, err := nonFunder.HandleAddHtlc(msg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Cannot afford")
	require.Equal(t, Normal, nonFunder.State())
	_ = funder
}

// TestUnexpectedPacketIsFatal covers the state machine's rejection of a
// packet received outside its legal state.
func TestUnexpectedPacketIsFatal(t *testing.T) {
	funder, _ := openChannel(t)

	_, err := funder.HandleAccept(&lnwire.UpdateAccept{})
	require.Error(t, err)
	require.True(t, IsFatal(err))
}

func TestOpenOutsideInitIsFatal(t *testing.T) {
	funder, _ := openChannel(t)

	_, err := funder.Open()
	require.Error(t, err)
	require.True(t, IsFatal(err))
}
