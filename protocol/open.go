package protocol

import (
	"github.com/btcsuite/btcd/btcutil"

	"github.com/lnlited/lnlited/lntypes"
	"github.com/lnlited/lnlited/lnwallet"
	"github.com/lnlited/lnlited/lnwire"
)

// Open produces this side's OpenChannel proposal. Valid only in Init.
func (e *Engine) Open() (*lnwire.OpenChannel, error) {
	if e.state != Init {
		return nil, newFatalError("open proposed outside init state (in %s)", e.state)
	}

	hash, err := e.gen.HashAt(0)
	if err != nil {
		return nil, newFatalError("revocation hash: %v", err)
	}

	anch := lnwire.AnchorWontCreate
	if e.local.OffersAnchor {
		anch = lnwire.AnchorWillCreate
	}

	msg := &lnwire.OpenChannel{
		Delay:          lnwire.Locktime{Kind: lnwire.LocktimeSeconds, Value: e.local.DelaySeconds},
		RevocationHash: lnwire.NewSha256Hash(hash),
		CommitKey:      e.local.CommitKey,
		FinalKey:       e.local.FinalKey,
		Anch:           anch,
		MinDepth:       e.local.MinDepth,
		InitialFeeRate: e.local.CommitFeeSat,
	}
	e.noteMessage(msg.MsgType())
	return msg, nil
}

// HandleOpen validates a peer's OpenChannel against local policy,
// following accept_pkt_open's rejection order: malformed locktime unit,
// delay too large, confirmation depth too large, fee too low, both or
// neither side offering the anchor, and missing keys.
func (e *Engine) HandleOpen(msg *lnwire.OpenChannel) error {
	if e.state != Init {
		return newFatalError("received open outside init state (in %s)", e.state)
	}
	e.noteMessage(msg.MsgType())

	if msg.Delay.Kind != lnwire.LocktimeSeconds {
		return newPeerError("Delay in blocks not accepted")
	}
	if msg.Delay.Value > e.cfg.RelLocktimeMax {
		return newPeerError("Delay too great")
	}
	if msg.MinDepth > e.cfg.AnchorConfirmsMax {
		return newPeerError("min_depth too great")
	}
	if msg.InitialFeeRate < e.cfg.CommitmentFeeMin {
		return newPeerError("Commitment fee too low")
	}

	theirAnchor := msg.Anch == lnwire.AnchorWillCreate
	if theirAnchor == e.local.OffersAnchor {
		return newPeerError("Only one side can offer anchor")
	}
	if msg.CommitKey == nil {
		return newPeerError("Bad commitkey")
	}
	if msg.FinalKey == nil {
		return newPeerError("Bad finalkey")
	}

	e.Remote = Params{
		CommitKey:    msg.CommitKey,
		FinalKey:     msg.FinalKey,
		DelaySeconds: msg.Delay.Value,
		MinDepth:     msg.MinDepth,
		CommitFeeSat: msg.InitialFeeRate,
		OffersAnchor: theirAnchor,
	}
	e.theirCommitHash = msg.RevocationHash.Hash()

	script, err := lnwallet.AnchorRedeemScript(e.local.CommitKey, e.Remote.CommitKey)
	if err != nil {
		return newFatalError("redeem script: %v", err)
	}
	e.redeemScript = script
	e.weAreFunder = e.local.OffersAnchor

	if e.weAreFunder {
		e.state = OpenWaitSig
	} else {
		e.state = OpenWaitAnchor
	}
	return nil
}

// MakeAnchor is the funder's step after HandleOpen: it records the
// on-chain anchor location, derives the one-sided initial balance split,
// and signs the non-funder's first commitment transaction.
func (e *Engine) MakeAnchor(txid lntypes.Hash, outputIndex uint32, amount uint64) (*lnwire.OpenAnchor, error) {
	if !e.weAreFunder || e.state != OpenWaitSig {
		return nil, newFatalError("anchor proposed outside open_wait_sig state (in %s)", e.state)
	}

	e.anchorTxid = txid
	e.anchorIndex = outputIndex
	e.anchorAmount = amount
	e.funding = initialFunding(amount, combinedCommitFee(e.local.CommitFeeSat, e.Remote.CommitFeeSat))

	theirTx, err := e.builder.BuildCommitment(e.commitmentParams(e.funding, lnwallet.Them, e.theirCommitHash))
	if err != nil {
		return nil, newFatalError("build commitment: %v", err)
	}
	sig, err := e.signer.SignCommitment(theirTx, e.redeemScript)
	if err != nil {
		return nil, newFatalError("sign commitment: %v", err)
	}

	msg := &lnwire.OpenAnchor{
		Txid:        lnwire.NewSha256Hash(txid),
		OutputIndex: outputIndex,
		Amount:      amount,
		CommitSig:   sig,
	}
	e.noteMessage(msg.MsgType())
	return msg, nil
}

// HandleAnchor is the non-funder's reply to OpenAnchor: it checks the
// anchor amount covers both sides' commitment fees, builds the initial
// balance split, verifies the funder's signature over this side's own
// first commitment transaction, and counter-signs the funder's.
func (e *Engine) HandleAnchor(msg *lnwire.OpenAnchor) (*lnwire.OpenCommitSig, error) {
	if e.weAreFunder || e.state != OpenWaitAnchor {
		return nil, newFatalError("received anchor outside open_wait_anchor state (in %s)", e.state)
	}
	e.noteMessage(msg.MsgType())

	feeMsat := lnwire.NewMSatFromSatoshis(btcutil.Amount(combinedCommitFee(e.local.CommitFeeSat, e.Remote.CommitFeeSat)))
	amountMsat := lnwire.NewMSatFromSatoshis(btcutil.Amount(msg.Amount))
	if amountMsat < feeMsat {
		return nil, newPeerError("Insufficient funds for fee")
	}

	e.anchorTxid = msg.Txid.Hash()
	e.anchorIndex = msg.OutputIndex
	e.anchorAmount = msg.Amount
	e.funding = initialFunding(msg.Amount, combinedCommitFee(e.Remote.CommitFeeSat, e.local.CommitFeeSat)).Invert()

	ourHash, err := e.gen.HashAt(0)
	if err != nil {
		return nil, newFatalError("revocation hash: %v", err)
	}
	ourTx, err := e.builder.BuildCommitment(e.commitmentParams(e.funding, lnwallet.Us, ourHash))
	if err != nil {
		return nil, newFatalError("build commitment: %v", err)
	}
	if !e.verifier.VerifyCommitment(ourTx, e.redeemScript, e.Remote.CommitKey, msg.CommitSig) {
		return nil, newPeerError("Bad signature")
	}

	theirTx, err := e.builder.BuildCommitment(e.commitmentParams(e.funding, lnwallet.Them, e.theirCommitHash))
	if err != nil {
		return nil, newFatalError("build commitment: %v", err)
	}
	sig, err := e.signer.SignCommitment(theirTx, e.redeemScript)
	if err != nil {
		return nil, newFatalError("sign commitment: %v", err)
	}

	e.state = OpenWaitComplete
	reply := &lnwire.OpenCommitSig{Sig: sig}
	e.noteMessage(reply.MsgType())
	return reply, nil
}

// HandleCommitSig is the funder's reply to OpenCommitSig: it verifies
// the non-funder's countersignature over the funder's own first
// commitment transaction.
func (e *Engine) HandleCommitSig(msg *lnwire.OpenCommitSig) error {
	if !e.weAreFunder || e.state != OpenWaitSig {
		return newFatalError("received commit sig outside open_wait_sig state (in %s)", e.state)
	}
	e.noteMessage(msg.MsgType())

	ourHash, err := e.gen.HashAt(0)
	if err != nil {
		return newFatalError("revocation hash: %v", err)
	}
	ourTx, err := e.builder.BuildCommitment(e.commitmentParams(e.funding, lnwallet.Us, ourHash))
	if err != nil {
		return newFatalError("build commitment: %v", err)
	}
	if !e.verifier.VerifyCommitment(ourTx, e.redeemScript, e.Remote.CommitKey, msg.Sig) {
		return newPeerError("Bad signature")
	}

	e.state = OpenWaitComplete
	return nil
}

// ObserveAnchorConfirmed moves the channel to Normal once the anchor has
// reached its minimum confirmation depth. Chain-watching itself is
// outside this package's scope; the caller supplies the observation.
func (e *Engine) ObserveAnchorConfirmed() (*lnwire.OpenComplete, error) {
	if e.state != OpenWaitComplete {
		return nil, newFatalError("anchor confirmed observed outside open_wait_complete state (in %s)", e.state)
	}
	e.state = Normal
	msg := &lnwire.OpenComplete{}
	e.noteMessage(msg.MsgType())
	return msg, nil
}

// HandleOpenComplete processes the peer's own OpenComplete.
func (e *Engine) HandleOpenComplete(msg *lnwire.OpenComplete) error {
	if e.state != OpenWaitComplete {
		return newFatalError("received open_complete outside open_wait_complete state (in %s)", e.state)
	}
	e.noteMessage(msg.MsgType())
	e.state = Normal
	return nil
}
