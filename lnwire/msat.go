package lnwire

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
)

const mSatScale uint64 = 1000

// MaxMilliSatoshi is the maximum number of msats expressible in this type.
const MaxMilliSatoshi = ^MilliSatoshi(0)

// MilliSatoshi is the native unit balances and HTLC amounts are denominated
// in: 1/1000th of a satoshi. Values are rounded down to the nearest satoshi
// before they ever reach a (out-of-scope) on-chain transaction.
type MilliSatoshi uint64

// NewMSatFromSatoshis creates a MilliSatoshi from a satoshi amount.
func NewMSatFromSatoshis(sat btcutil.Amount) MilliSatoshi {
	return MilliSatoshi(uint64(sat) * mSatScale)
}

// ToSatoshis converts to satoshis, truncating any sub-satoshi remainder.
func (m MilliSatoshi) ToSatoshis() btcutil.Amount {
	return btcutil.Amount(uint64(m) / mSatScale)
}

func (m MilliSatoshi) String() string {
	return fmt.Sprintf("%v mSAT", uint64(m))
}
