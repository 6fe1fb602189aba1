// Package protocol drives one side of the bilateral channel-update state
// machine: it consumes and produces lnwire.Message packets, validating
// every field the way the original opening- and update-handshakes did,
// and staging every balance change through lnwallet.FundingState so that
// CheckConservation can never be violated by a legal transition.
//
// The engine is a single-threaded cooperative state machine, not a
// goroutine driving channels: every exported method takes at most one
// inbound packet and returns at most one outbound packet plus an error.
// Framing, encryption, and the actual socket read/write loop belong to a
// caller; this package only ever sees decoded lnwire.Message values.
package protocol

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/lnlited/lnlited/config"
	"github.com/lnlited/lnlited/lntypes"
	"github.com/lnlited/lnlited/lnwallet"
	"github.com/lnlited/lnlited/lnwire"
	"github.com/lnlited/lnlited/revocation"
	"github.com/lightningnetwork/lnd/queue"
)

// recentHistoryDepth bounds how many recent packet types a diagnostics
// dump retains. It has no bearing on protocol correctness.
const recentHistoryDepth = 32

// Params describes one side's static channel-opening parameters: the
// pieces of an OpenChannel packet a caller supplies locally, or receives
// from the peer and the engine records as Remote.
type Params struct {
	CommitKey    *btcec.PublicKey
	FinalKey     *btcec.PublicKey
	DelaySeconds uint32
	MinDepth     uint32
	CommitFeeSat uint64
	OffersAnchor bool
}

// changeKind distinguishes the three kinds of balance-affecting proposal
// the update dance can stage: adding a new HTLC, fulfilling one with its
// preimage, or failing one back to its proposer.
type changeKind uint8

const (
	changeAdd changeKind = iota
	changeFulfill
	changeFail
)

// pendingChange is the one staged-but-not-yet-committed proposal in
// flight at a time. The protocol never pipelines a second change on top
// of an outstanding one — state Normal is required to start a new one.
type pendingChange struct {
	kind       changeKind
	weProposed bool

	htlc lnwallet.Htlc // populated for changeAdd

	staged      *lnwallet.FundingState
	ourNextHash lntypes.Hash
	theirNextHash lntypes.Hash
}

// Engine is one peer's view of a single channel's protocol state.
type Engine struct {
	cfg *config.Config

	state       State
	weAreFunder bool

	local  Params
	Remote Params

	funding *lnwallet.FundingState

	anchorTxid   lntypes.Hash
	anchorIndex  uint32
	anchorAmount uint64
	redeemScript []byte

	// commitIndex is the generation number of the channel's current,
	// not-yet-superseded pair of commitment transactions. Both sides
	// advance it together, one per completed update dance.
	commitIndex uint64

	// gen derives this engine's own revocation preimages/hashes.
	gen revocation.Generator

	// theirCommitHash is the peer's currently active (not yet revoked)
	// commitment's revocation hash, known since the last time their
	// preimage for the prior one was verified.
	theirCommitHash lntypes.Hash

	// theirStore retains every preimage the peer has revealed, for
	// later penalty use should they ever broadcast a revoked state.
	theirStore revocation.Store

	builder lnwallet.CommitmentBuilder
	signer  lnwallet.Signer
	verifier lnwallet.Verifier

	pending *pendingChange

	// recent retains the last few packet types seen or sent, for
	// diagnostics only; it plays no role in state transitions.
	recent *queue.CircularBuffer
}

// NewEngine constructs an Engine for one side of a not-yet-opened
// channel. revocationRoot and revocationHeight parameterize this side's
// own deterministic secret chain (key derivation for the root is outside
// this package's scope); revocationHeight also sizes the store that
// retains the peer's revealed preimages.
func NewEngine(
	cfg *config.Config,
	local Params,
	revocationRoot chainhash.Hash,
	revocationHeight uint8,
	builder lnwallet.CommitmentBuilder,
	signer lnwallet.Signer,
	verifier lnwallet.Verifier,
) (*Engine, error) {
	recent, err := queue.NewCircularBuffer(recentHistoryDepth)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:        cfg,
		state:      Init,
		local:      local,
		gen:        revocation.NewGenerator(revocationRoot, revocationHeight),
		theirStore: revocation.NewStore(revocationHeight),
		builder:    builder,
		signer:     signer,
		verifier:   verifier,
		recent:     recent,
	}, nil
}

// State returns the engine's current position in the state machine.
func (e *Engine) State() State { return e.state }

// Funding returns the channel's current balance split, or nil before the
// opening handshake has completed.
func (e *Engine) Funding() *lnwallet.FundingState { return e.funding }

// RecentMessages returns the packet types most recently recorded by
// noteMessage, oldest first, for diagnostics.
func (e *Engine) RecentMessages() []interface{} { return e.recent.List() }

func (e *Engine) noteMessage(t lnwire.MessageType) { e.recent.Add(t) }

func (e *Engine) anchorOutpoint() wire.OutPoint {
	return wire.OutPoint{
		Hash:  chainhash.Hash(e.anchorTxid),
		Index: e.anchorIndex,
	}
}

// commitmentParams builds the parameters for owner's view of a
// commitment transaction paying out funding, with revocationHash as the
// hash that lets the other party punish a stale broadcast of this exact
// transaction.
func (e *Engine) commitmentParams(
	funding *lnwallet.FundingState, owner lnwallet.Side, revocationHash lntypes.Hash,
) lnwallet.CommitmentParams {
	var toSelf, toRemote lnwire.MilliSatoshi
	var selfKey, remoteKey *btcec.PublicKey
	var selfDelay uint32
	var feeSat uint64
	var htlcs []lnwallet.Htlc

	if owner == lnwallet.Us {
		toSelf = funding.Us.PayMsat + funding.Us.FeeMsat
		toRemote = funding.Them.PayMsat + funding.Them.FeeMsat
		selfKey, remoteKey = e.local.CommitKey, e.Remote.CommitKey
		selfDelay = e.local.DelaySeconds
		feeSat = e.local.CommitFeeSat
		htlcs = append([]lnwallet.Htlc(nil), funding.Us.Htlcs...)
	} else {
		toSelf = funding.Them.PayMsat + funding.Them.FeeMsat
		toRemote = funding.Us.PayMsat + funding.Us.FeeMsat
		selfKey, remoteKey = e.Remote.CommitKey, e.local.CommitKey
		selfDelay = e.Remote.DelaySeconds
		feeSat = e.Remote.CommitFeeSat
		htlcs = append([]lnwallet.Htlc(nil), funding.Them.Htlcs...)
	}

	return lnwallet.CommitmentParams{
		FundingOutpoint: e.anchorOutpoint(),
		RedeemScript:    e.redeemScript,
		ToSelf:          toSelf,
		ToRemote:        toRemote,
		Htlcs:           htlcs,
		RevocationHash:  revocationHash,
		SelfKey:         selfKey,
		RemoteKey:       remoteKey,
		SelfDelay:       selfDelay,
		FeeSat:          feeSat,
	}
}

// combinedCommitFee resolves both sides' independently proposed
// commitment fee into the single value actually charged, per the
// config policy commit_fee(a,b) = max(a,b).
func combinedCommitFee(ourFeeSat, theirFeeSat uint64) uint64 {
	if ourFeeSat > theirFeeSat {
		return ourFeeSat
	}
	return theirFeeSat
}

// initialFunding builds the one-sided initial balance split from the
// funder's point of view: the funder supplies the entire anchor amount,
// crediting it in full to itself, then the combined commitment fee is
// split evenly between both sides' fee reserves — so a side's total
// claim (TotalFunds) is its spendable balance plus half the combined
// fee, and conservation holds since feeSat's two halves sum back to the
// amount subtracted from the funder's own balance.
func initialFunding(amountSat, feeSat uint64) *lnwallet.FundingState {
	amountMsat := lnwire.NewMSatFromSatoshis(btcutil.Amount(amountSat))
	feeMsat := lnwire.NewMSatFromSatoshis(btcutil.Amount(feeSat))
	ourHalf := feeMsat / 2
	theirHalf := feeMsat - ourHalf

	return &lnwallet.FundingState{
		Us:   lnwallet.ChannelSide{PayMsat: amountMsat - feeMsat, FeeMsat: ourHalf},
		Them: lnwallet.ChannelSide{PayMsat: 0, FeeMsat: theirHalf},
	}
}
