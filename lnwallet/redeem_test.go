package lnwallet

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"
)

func TestAnchorRedeemScriptOrderIndependent(t *testing.T) {
	privA, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	privB, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	s1, err := AnchorRedeemScript(privA.PubKey(), privB.PubKey())
	require.NoError(t, err)

	s2, err := AnchorRedeemScript(privB.PubKey(), privA.PubKey())
	require.NoError(t, err)

	require.Equal(t, s1, s2)
}

func TestWitnessScriptHashRejectsEmpty(t *testing.T) {
	_, err := WitnessScriptHash(nil)
	require.Error(t, err)
}
