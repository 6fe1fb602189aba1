package lnwallet

import (
	"fmt"

	"github.com/lnlited/lnlited/lntypes"
	"github.com/lnlited/lnlited/lnwire"
)

// Side identifies which party a ChannelSide belongs to, from a single
// peer's local point of view.
type Side uint8

const (
	Us Side = iota
	Them
)

// Other returns the opposite party.
func (s Side) Other() Side {
	if s == Us {
		return Them
	}
	return Us
}

// Htlc is a single in-flight, not-yet-resolved HTLC staged against one
// side of a channel.
type Htlc struct {
	Id         uint64
	AmountMsat lnwire.MilliSatoshi
	Expiry     lnwire.Locktime
	RHash      lntypes.Hash
}

// ChannelSide is one party's view of the funds committed to a channel:
// the amount it can spend freely, the amount reserved for the commitment
// transaction's fee, and the HTLCs it has proposed that are still pending
// resolution. While an HTLC is pending, its amount has already left
// PayMsat but has not yet landed in either party's free balance — it sits
// in Htlcs until fulfilled or failed.
type ChannelSide struct {
	PayMsat lnwire.MilliSatoshi
	FeeMsat lnwire.MilliSatoshi
	Htlcs   []Htlc
}

// TotalFunds is the sum of every msat this side currently has a claim on:
// its free balance, its share of the commitment fee, and every pending
// HTLC it proposed. Balance conservation requires that, across any
// transition, Us.TotalFunds() + Them.TotalFunds() never changes.
func (s *ChannelSide) TotalFunds() lnwire.MilliSatoshi {
	total := s.PayMsat + s.FeeMsat
	for _, h := range s.Htlcs {
		total += h.AmountMsat
	}
	return total
}

// FindHtlc looks up a still-pending HTLC by id.
func (s *ChannelSide) FindHtlc(id uint64) (Htlc, bool) {
	h, _, ok := s.findHtlc(id)
	return h, ok
}

func (s *ChannelSide) findHtlc(id uint64) (Htlc, int, bool) {
	for i, h := range s.Htlcs {
		if h.Id == id {
			return h, i, true
		}
	}
	return Htlc{}, -1, false
}

func (s *ChannelSide) removeHtlcAt(i int) {
	s.Htlcs = append(s.Htlcs[:i], s.Htlcs[i+1:]...)
}

func (s *ChannelSide) clone() ChannelSide {
	c := *s
	c.Htlcs = append([]Htlc(nil), s.Htlcs...)
	return c
}

// FundingState is the current balance split of a channel, from one peer's
// point of view (Us vs Them).
type FundingState struct {
	Us, Them ChannelSide
}

func (f *FundingState) side(s Side) *ChannelSide {
	if s == Us {
		return &f.Us
	}
	return &f.Them
}

// Copy returns an independent deep copy, for staging a tentative
// transition that can still be discarded.
func (f *FundingState) Copy() *FundingState {
	return &FundingState{
		Us:   f.Us.clone(),
		Them: f.Them.clone(),
	}
}

// Invert returns the same funding state as seen from the other peer: what
// was Us becomes Them and vice versa. Used when a funder's initial state
// must be turned into its peer's view of the same channel.
func (f *FundingState) Invert() *FundingState {
	return &FundingState{Us: f.Them, Them: f.Us}
}

// totalFunds is the channel-wide conserved quantity: every msat either
// side has a claim on.
func totalFunds(f *FundingState) lnwire.MilliSatoshi {
	return f.Us.TotalFunds() + f.Them.TotalFunds()
}

// CheckConservation verifies that a proposed transition from before to
// after has not changed the channel-wide total. A mismatch here is
// invariant-fatal: it indicates a bug in the state machine, not a peer
// misbehaving, since every legitimate transition moves funds between
// PayMsat/FeeMsat/Htlcs buckets without creating or destroying value.
func CheckConservation(before, after *FundingState) error {
	b, a := totalFunds(before), totalFunds(after)
	if b != a {
		return fmt.Errorf("illegal funding transition: total funds "+
			"%d became %d", b, a)
	}
	return nil
}

// AddHtlc stages a new HTLC proposed by payer, moving its amount out of
// the payer's free balance and into the pending Htlcs bucket on the same
// side. Returns an error (peer-reportable, not fatal) if the payer cannot
// afford it.
func (f *FundingState) AddHtlc(payer Side, htlc Htlc) error {
	side := f.side(payer)
	if side.PayMsat < htlc.AmountMsat {
		return fmt.Errorf("cannot afford %d milli-satoshis",
			htlc.AmountMsat)
	}

	side.PayMsat -= htlc.AmountMsat
	side.Htlcs = append(side.Htlcs, htlc)
	return nil
}

// FulfillHtlc settles a pending HTLC proposed by payer: its amount moves
// from the pending bucket to the other side's free balance. Returns the
// resolved Htlc so the caller can validate the revealed preimage against
// its RHash.
func (f *FundingState) FulfillHtlc(payer Side, id uint64) (Htlc, error) {
	side := f.side(payer)
	htlc, i, ok := side.findHtlc(id)
	if !ok {
		return Htlc{}, fmt.Errorf("unknown htlc %d", id)
	}

	side.removeHtlcAt(i)
	f.side(payer.Other()).PayMsat += htlc.AmountMsat
	return htlc, nil
}

// FailHtlc reverses a pending HTLC proposed by payer: its amount returns
// to the payer's own free balance.
func (f *FundingState) FailHtlc(payer Side, id uint64) (Htlc, error) {
	side := f.side(payer)
	htlc, i, ok := side.findHtlc(id)
	if !ok {
		return Htlc{}, fmt.Errorf("unknown htlc %d", id)
	}

	side.removeHtlcAt(i)
	side.PayMsat += htlc.AmountMsat
	return htlc, nil
}
