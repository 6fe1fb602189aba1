package lnwallet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lnlited/lnlited/lnwire"
)

func freshState() *FundingState {
	return &FundingState{
		Us:   ChannelSide{PayMsat: 5_000_000, FeeMsat: 10_000},
		Them: ChannelSide{PayMsat: 5_000_000, FeeMsat: 10_000},
	}
}

func TestTotalFundsConservedAcrossAddHtlc(t *testing.T) {
	f := freshState()
	before := totalFunds(f)

	err := f.AddHtlc(Us, Htlc{Id: 1, AmountMsat: 100_000})
	require.NoError(t, err)

	require.Equal(t, before, totalFunds(f))
	require.Equal(t, lnwire.MilliSatoshi(4_900_000), f.Us.PayMsat)
	require.Len(t, f.Us.Htlcs, 1)
}

func TestAddHtlcRejectsWhenUnaffordable(t *testing.T) {
	f := freshState()

	err := f.AddHtlc(Us, Htlc{Id: 1, AmountMsat: 10_000_000})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot afford")

	require.Empty(t, f.Us.Htlcs)
}

func TestFulfillHtlcMovesFundsToPayee(t *testing.T) {
	f := freshState()
	require.NoError(t, f.AddHtlc(Us, Htlc{Id: 7, AmountMsat: 250_000}))

	before := totalFunds(f)

	htlc, err := f.FulfillHtlc(Us, 7)
	require.NoError(t, err)
	require.Equal(t, uint64(7), htlc.Id)

	require.Equal(t, before, totalFunds(f))
	require.Empty(t, f.Us.Htlcs)
	require.Equal(t, lnwire.MilliSatoshi(5_250_000), f.Them.PayMsat)
}

func TestFailHtlcReturnsFundsToPayer(t *testing.T) {
	f := freshState()
	require.NoError(t, f.AddHtlc(Them, Htlc{Id: 3, AmountMsat: 40_000}))

	before := totalFunds(f)

	_, err := f.FailHtlc(Them, 3)
	require.NoError(t, err)

	require.Equal(t, before, totalFunds(f))
	require.Equal(t, lnwire.MilliSatoshi(5_000_000), f.Them.PayMsat)
	require.Empty(t, f.Them.Htlcs)
}

func TestResolvingUnknownHtlcErrors(t *testing.T) {
	f := freshState()

	_, err := f.FulfillHtlc(Us, 99)
	require.Error(t, err)

	_, err = f.FailHtlc(Us, 99)
	require.Error(t, err)
}

func TestCheckConservationCatchesIllegalTransition(t *testing.T) {
	before := freshState()
	after := before.Copy()
	after.Us.PayMsat += 1

	require.Error(t, CheckConservation(before, after))
	require.NoError(t, CheckConservation(before, before.Copy()))
}

func TestInvertSwapsPerspective(t *testing.T) {
	f := freshState()
	f.Us.PayMsat = 1
	f.Them.PayMsat = 2

	inv := f.Invert()
	require.Equal(t, lnwire.MilliSatoshi(2), inv.Us.PayMsat)
	require.Equal(t, lnwire.MilliSatoshi(1), inv.Them.PayMsat)
}

func TestCopyIsIndependent(t *testing.T) {
	f := freshState()
	require.NoError(t, f.AddHtlc(Us, Htlc{Id: 1, AmountMsat: 1000}))

	cp := f.Copy()
	require.NoError(t, cp.AddHtlc(Us, Htlc{Id: 2, AmountMsat: 1000}))

	require.Len(t, f.Us.Htlcs, 1)
	require.Len(t, cp.Us.Htlcs, 2)
}
