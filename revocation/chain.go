// Package revocation implements the per-commitment secret chain: a
// deterministic binary-tree of 32-byte preimages, one per commitment index,
// used to revoke old commitment transactions. The producing side derives
// every preimage from a single root; the receiving side's Store keeps each
// preimage it is given.
//
// Adapted from the teacher's elkrem package. lnd's own channel state
// (lnwallet/channel.go) drives its revocation hash via
// channelState.LocalElkrem.AtIndex, so this tree-based scheme — not the
// alternative shachain bit-flip derivation — is the one this module's
// channel state actually calls.
package revocation

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/lnlited/lnlited/lntypes"
)

// MaxTreeHeight bounds how many commitments a single chain can produce
// (2^(h+1) - 1 for a tree of height h, see NewGenerator). 48 gives headroom far beyond any channel's realistic lifetime
// while keeping the receiver's worst-case stored-node count (h+1) small.
const MaxTreeHeight = 48

func leftHash(in chainhash.Hash) chainhash.Hash {
	return chainhash.HashH(in[:])
}

func rightHash(in chainhash.Hash) chainhash.Hash {
	return chainhash.HashH(append(append([]byte{}, in[:]...), 0x01))
}

// node is one stored hash in a Store, along with the height and index it was
// derived at.
type node struct {
	height uint8
	index  uint64
	hash   chainhash.Hash
}

// descend walks from (i, h, hash) down to the hash at index w, re-deriving
// left/right children along the way.
func descend(w, i uint64, h uint8, hash chainhash.Hash) (chainhash.Hash, error) {
	for w < i {
		if w <= i-(1<<h) {
			hash = leftHash(hash)
			i -= 1 << h
		} else {
			hash = rightHash(hash)
			i--
		}
		if h == 0 {
			break
		}
		h--
	}
	if w != i {
		return hash, fmt.Errorf("revocation: can't derive index %d from %d", w, i)
	}
	return hash, nil
}

// Generator deterministically produces the preimage for any commitment
// index from 0 up to the tree's maximum index; it does not track which
// preimages have already been revealed. It is the side of the chain that
// PRODUCES revocation secrets for one's own commitments.
type Generator struct {
	height   uint8
	maxIndex uint64
	root     chainhash.Hash
}

// NewGenerator derives a Generator from a root secret and tree height. The
// root is expected to come from this node's own key-derivation scheme
// (outside this package's scope); height bounds how many commitments the
// channel can ever produce.
func NewGenerator(root chainhash.Hash, height uint8) Generator {
	g := Generator{root: root, height: height}
	for j := uint8(0); j <= height; j++ {
		g.maxIndex = g.maxIndex<<1 | 1
	}
	g.maxIndex--
	return g
}

// PreimageAt derives the preimage for commitment index n. This is the
// `preimage(n)` opaque capability the channel protocol engine depends on.
func (g Generator) PreimageAt(n uint64) (lntypes.Preimage, error) {
	hash, err := descend(n, g.maxIndex, g.height, g.root)
	if err != nil {
		return lntypes.Preimage{}, err
	}
	return lntypes.Preimage(hash), nil
}

// HashAt returns revocation_hash(n) = SHA256(preimage(n)) for commitment
// index n, the value advertised to the counterparty before it is revealed.
func (g Generator) HashAt(n uint64) (lntypes.Hash, error) {
	pre, err := g.PreimageAt(n)
	if err != nil {
		return lntypes.Hash{}, err
	}
	return pre.Hash(), nil
}

// Store records preimages revealed by a counterparty, indexed by commitment
// number, and lets the engine retrieve any of them later for a penalty
// transaction. This closes the gap the original prototype left as a FIXME
// (revoked secrets were computed but never retained anywhere retrievable):
// every preimage accepted via Add is kept until the channel closes.
type Store struct {
	height  uint8
	current uint64
	stack   []node
	// revealed indexes every preimage ever added, by commitment index,
	// so a past secret can be fetched directly instead of only via the
	// compressed stack (which discards subsumed interior nodes).
	revealed map[uint64]chainhash.Hash
}

// NewStore creates an empty Store for a chain of the given height.
func NewStore(height uint8) Store {
	return Store{
		height:   height,
		revealed: make(map[uint64]chainhash.Hash),
	}
}

// Add records the next preimage in sequence, verifying it is consistent
// with any previously compressed interior node before accepting it.
func (s *Store) Add(preimage lntypes.Preimage) error {
	hash := chainhash.Hash(preimage)
	n := node{hash: hash}

	t := len(s.stack) - 1
	if t > 0 && s.stack[t-1].height == s.stack[t].height {
		n.height = s.stack[t].height + 1
		l := leftHash(hash)
		r := rightHash(hash)
		if s.stack[t-1].hash != l {
			return fmt.Errorf(
				"revocation: left child mismatch, expected %s got %s",
				s.stack[t-1].hash, l,
			)
		}
		if s.stack[t].hash != r {
			return fmt.Errorf(
				"revocation: right child mismatch, expected %s got %s",
				s.stack[t].hash, r,
			)
		}
		s.stack = s.stack[:len(s.stack)-2]
	}

	n.index = s.current
	s.stack = append(s.stack, n)
	s.revealed[s.current] = hash
	s.current++

	return nil
}

// PreimageAt returns the preimage previously revealed for commitment index
// w, deriving it from the nearest stored ancestor if w itself was subsumed
// by a later compressed node.
func (s *Store) PreimageAt(w uint64) (lntypes.Preimage, error) {
	if hash, ok := s.revealed[w]; ok {
		return lntypes.Preimage(hash), nil
	}

	var found *node
	for i := range s.stack {
		if w <= s.stack[i].index {
			found = &s.stack[i]
			break
		}
	}
	if found == nil {
		return lntypes.Preimage{}, fmt.Errorf(
			"revocation: store has max %d, requested %d",
			s.stack[len(s.stack)-1].index, w,
		)
	}

	hash, err := descend(w, found.index, found.height, found.hash)
	if err != nil {
		return lntypes.Preimage{}, err
	}
	return lntypes.Preimage(hash), nil
}

// Verify checks that SHA256(preimage) matches the previously advertised
// revocation hash for the same commitment index — the check spec invariant
// 2 (the revocation chain) and the `update_complete`/`update_signature`
// preimage validation both require.
func Verify(preimage lntypes.Preimage, hash lntypes.Hash) bool {
	return preimage.Hash() == hash
}
