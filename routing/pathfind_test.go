package routing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func vertex(b byte) Vertex {
	var v Vertex
	v[0] = 0x02
	v[32] = b
	return v
}

func alwaysLive(Vertex) bool { return true }

// S1 — single-hop route: L -> X with base=10, prop=1000, delay=6. Routing
// for 100_000_000 msat must charge fee = 10 + 100_000_000*1000/1_000_000.
func TestFindRouteSingleHop(t *testing.T) {
	g := NewGraph()
	l, x := vertex(1), vertex(2)
	g.AddConnection(l, x, 10, 1000, 6, 0)

	route, err := g.FindRoute(l, x, 100_000_000, 1.0, alwaysLive)
	require.NoError(t, err)

	require.Equal(t, x, route.FirstHop)
	require.Len(t, route.Edges, 0)
	require.Equal(t, int64(100_010), route.Fee)
}

// S2 — two-hop vs one-hop tie: L->X direct, and L->Y->X priced so the
// total fee before the per-hop risk nudge is identical. The shorter,
// one-hop path must win.
func TestFindRouteTieBreaksShorter(t *testing.T) {
	g := NewGraph()
	l, x, y := vertex(1), vertex(2), vertex(3)

	g.AddConnection(l, x, 2000, 0, 6, 0)
	g.AddConnection(l, y, 1000, 0, 6, 0)
	g.AddConnection(y, x, 1000, 0, 6, 0)

	route, err := g.FindRoute(l, x, 1_000_000, 0, alwaysLive)
	require.NoError(t, err)

	require.Equal(t, x, route.FirstHop)
	require.Len(t, route.Edges, 0)
}

// S3 — no route: the destination is entirely absent from the graph.
func TestFindRouteUnknownDestination(t *testing.T) {
	g := NewGraph()
	l, x, y := vertex(1), vertex(2), vertex(3)
	g.AddConnection(l, x, 10, 0, 6, 0)

	_, err := g.FindRoute(l, y, 1000, 1.0, alwaysLive)
	require.Error(t, err)
	require.True(t, IsError(err, ErrUnknownDestination))
}

// y is known to the graph (it has an edge into l) but nothing connects l
// to y, so y is a reachable-as-a-node but unroutable destination.
func TestFindRouteNoPath(t *testing.T) {
	g := NewGraph()
	l, x, y := vertex(1), vertex(2), vertex(3)
	g.AddConnection(l, x, 10, 0, 6, 0)
	g.AddConnection(y, l, 5, 0, 6, 0)

	_, err := g.FindRoute(l, y, 1000, 1.0, alwaysLive)
	require.Error(t, err)
	require.True(t, IsError(err, ErrNoRouteFound))
}

func TestFindRouteRejectsDeadFirstHop(t *testing.T) {
	g := NewGraph()
	l, x := vertex(1), vertex(2)
	g.AddConnection(l, x, 10, 1000, 6, 0)

	_, err := g.FindRoute(l, x, 100_000_000, 1.0, func(Vertex) bool { return false })
	require.Error(t, err)
	require.True(t, IsError(err, ErrUnknownFirstHop))
}

// With min_blocks enforcement on, an edge requiring more downstream
// locktime than the route so far accumulates must be skipped, forcing a
// longer path (or no path) even though the direct edge is cheaper.
func TestFindRouteEnforcesMinBlocks(t *testing.T) {
	g := NewGraph()
	l, x, y := vertex(1), vertex(2), vertex(3)

	g.AddConnection(l, x, 10, 0, 6, 100)
	g.AddConnection(l, y, 20, 0, 6, 0)
	g.AddConnection(y, x, 20, 0, 6, 0)

	g.SetEnforceMinBlocks(true)

	route, err := g.FindRoute(l, x, 1_000_000, 1.0, alwaysLive)
	require.NoError(t, err)
	require.Equal(t, y, route.FirstHop)
	require.Len(t, route.Edges, 1)
}

// A path that would otherwise succeed is rejected once it exceeds an
// explicitly configured hop limit.
func TestFindRouteRejectsTooManyHops(t *testing.T) {
	g := NewGraph()
	l, y, x := vertex(1), vertex(2), vertex(3)

	g.AddConnection(l, y, 10, 0, 6, 0)
	g.AddConnection(y, x, 10, 0, 6, 0)

	g.SetMaxHops(1)

	_, err := g.FindRoute(l, x, 1_000_000, 1.0, alwaysLive)
	require.Error(t, err)
	require.True(t, IsError(err, ErrMaxHopsExceeded))
}

func TestAddConnectionUpsertsInPlace(t *testing.T) {
	g := NewGraph()
	l, x := vertex(1), vertex(2)

	g.AddConnection(l, x, 10, 0, 6, 0)
	g.AddConnection(l, x, 99, 5, 12, 1)

	channels := g.ListChannels()
	require.Len(t, channels, 1)
	require.Equal(t, uint32(99), channels[0].BaseFee)
	require.Equal(t, int32(5), channels[0].ProportionalFee)
}

func TestRemoveConnectionIdempotent(t *testing.T) {
	g := NewGraph()
	l, x := vertex(1), vertex(2)

	// Removing an edge that was never added must not panic or error.
	g.RemoveConnection(l, x)

	g.AddConnection(l, x, 10, 0, 6, 0)
	g.RemoveConnection(l, x)
	g.RemoveConnection(l, x)

	require.Empty(t, g.ListChannels())
}

// Invariant 3: every edge appears symmetrically in both endpoints'
// adjacency lists.
func TestGraphSymmetricAdjacency(t *testing.T) {
	g := NewGraph()
	l, x, y := vertex(1), vertex(2), vertex(3)
	g.AddConnection(l, x, 1, 0, 1, 0)
	g.AddConnection(x, y, 1, 0, 1, 0)

	for _, n := range g.nodes {
		for _, c := range n.Out {
			require.Equal(t, n, c.Src)

			found := false
			for _, in := range c.Dst.In {
				if in == c {
					found = true
				}
			}
			require.True(t, found)
		}
	}
}
