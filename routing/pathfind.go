package routing

import (
	"github.com/lightningnetwork/lnd/fn/v2"
)

// infinite is a sentinel total cost that is unreachable by ordinary
// addition: it is too big to reach, but adding a fee and risk premium to it
// cannot overflow int64.
const infinite int64 = 0x3FFFFFFFFFFFFFFF

// blocksPerYear approximates a year in 10-minute blocks (365.25*24*60/10),
// used to scale the risk premium to an annualized rate.
const blocksPerYear = 52596

// Route is the result of a successful FindRoute call: the peer to hand the
// first HTLC to, the total fee this node pays on top of the destination
// amount, and the edge sequence from the first hop's node to the
// destination (L itself is not included, since the first hop is returned
// separately as the peer to send to).
type Route struct {
	FirstHop Vertex
	Fee      int64
	Edges    []*Connection
}

// connectionFee computes the millisatoshi fee an edge charges to forward
// amtMsat. If the proportional component overflows, the edge is reported
// as unusable via the infinite sentinel rather than wrapping.
func connectionFee(c *Connection, amtMsat int64) int64 {
	prop := int64(c.ProportionalFee)

	if prop != 0 {
		hi, lo := mulOverflows(prop, amtMsat)
		if hi {
			return infinite
		}
		return int64(c.BaseFee) + lo/1_000_000
	}

	return int64(c.BaseFee)
}

// mulOverflows reports whether a*b overflows an int64, and if not, returns
// the product as lo.
func mulOverflows(a, b int64) (overflowed bool, lo int64) {
	if a == 0 || b == 0 {
		return false, 0
	}

	p := a * b
	if p/b != a {
		return true, 0
	}
	return false, p
}

// riskFee is the time-value risk premium for passing amount msat through a
// channel with the given CLTV delay, scaled by riskFactor. A tiny constant
// nudge of 1 is added so that among otherwise-equal paths, shorter ones
// win. If amount is negative (the route pays us to carry it), risk is
// floored at 1.
func riskFee(amount int64, delay uint32, riskFactor float64) uint64 {
	if amount < 0 {
		return 1
	}

	r := float64(amount) * float64(delay) * riskFactor / blocksPerYear / 10000
	return 1 + uint64(r)
}

// bfgOneEdge relaxes a single incoming edge of node across every hop-count
// slot, possibly improving the corresponding slot of the edge's source. If
// enforceMinBlocks is set, an edge whose MinBlocks requirement exceeds the
// delay already accumulated downstream of it (node.bfg[h].delay, before
// this edge's own Delay is added) is skipped outright. Slots that are still
// at the infinite sentinel, and amounts at which the edge's fee is infinite,
// are skipped as well, so no sum below ever exceeds the sentinel's headroom.
func bfgOneEdge(node *Node, c *Connection, riskFactor float64, enforceMinBlocks bool) {
	for h := 0; h < HopLimit; h++ {
		if node.bfg[h].total >= infinite {
			continue
		}
		if enforceMinBlocks && c.MinBlocks > node.bfg[h].delay {
			continue
		}

		fee := connectionFee(c, node.bfg[h].total)
		if fee >= infinite {
			continue
		}
		risk := node.bfg[h].risk + riskFee(node.bfg[h].total+fee, c.Delay, riskFactor)

		candidateTotal := node.bfg[h].total + fee
		candidateCost := candidateTotal + int64(risk)
		currentCost := c.Src.bfg[h+1].total + int64(c.Src.bfg[h+1].risk)

		if candidateCost < currentCost {
			c.Src.bfg[h+1].total = candidateTotal
			c.Src.bfg[h+1].risk = risk
			c.Src.bfg[h+1].delay = node.bfg[h].delay + c.Delay
			c.Src.bfg[h+1].prev = c
		}
	}
}

// FindRoute computes a minimum-cost path from local to dest carrying
// amtMsat (the amount that must arrive at dest), under the given risk
// factor, using the Bellman-Ford-Gibson relaxation: because per-edge fees
// depend on the amount flowing through them, costs are tracked per
// hop-count rather than collapsed to one best-cost-per-node, and the
// search runs backwards from dest to local since the amount is known at
// the destination end.
//
// isLivePeer reports whether a vertex corresponds to a connected peer; the
// first hop of any candidate route must pass this check; this is how the
// (out-of-scope) connection manager's liveness is consulted.
func (g *Graph) FindRoute(local, dest Vertex, amtMsat int64, riskFactor float64, isLivePeer func(Vertex) bool) (Route, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// We map backwards: we know the amount we want to arrive at the
	// destination, and derive how much must be sent from the source.
	dst := g.getNode(local)
	src := g.getNode(dest)
	if src == nil {
		log.Infof("find_route: cannot find %s", dest)
		return Route{}, newErrf(ErrUnknownDestination, "unknown destination %s", dest)
	}
	if dst == nil {
		log.Infof("find_route: cannot find %s", local)
		return Route{}, newErrf(ErrUnknownDestination, "unknown local node %s", local)
	}

	for _, n := range g.nodes {
		n.clearBfg()
	}

	src.bfg[0].total = amtMsat
	src.bfg[0].risk = 0

	for run := 0; run < HopLimit; run++ {
		for _, n := range g.nodes {
			for _, c := range n.In {
				bfgOneEdge(n, c, riskFactor, g.enforceMinBlocks)
			}
		}
	}

	best := 0
	for i := 1; i <= HopLimit; i++ {
		if dst.bfg[i].total < dst.bfg[best].total {
			best = i
		}
	}

	if dst.bfg[best].total >= infinite {
		log.Infof("find_route: No route to %s", dest)
		return Route{}, newErr(ErrNoRouteFound, "no route found")
	}
	if g.maxHops > 0 && best > g.maxHops {
		return Route{}, newErrf(ErrMaxHopsExceeded,
			"cheapest route to %s is %d hops, exceeding the %d-hop limit",
			dest, best, g.maxHops)
	}

	// Our own fee is dst's own slot at the original best, before
	// switching to the first-hop node for edge reconstruction.
	fee := dst.bfg[best].total - amtMsat

	// Save the route from the *next* hop; the first hop is returned
	// separately as the peer to send to. Our own fees are counted even
	// though we don't pay them ourselves: they presumably affect
	// preference among otherwise-equal paths.
	n := dst.bfg[best].prev.Dst
	best--

	edges := make([]*Connection, best)
	cur := n
	for i := 0; i < best; i++ {
		edges[i] = cur.bfg[best-i].prev
		cur = edges[i].Dst
	}
	if cur != src {
		return Route{}, newErr(ErrNoPathFound, "route reconstruction did not terminate at source")
	}

	if !isLivePeer(n.ID) {
		log.Warnf("find_route: no live peer %s", n.ID)
		return Route{}, newErrf(ErrUnknownFirstHop, "first hop %s is not a live peer", n.ID)
	}

	log.Infof("find_route: via %s, %d hop(s), fee=%d", n.ID, best, fee)

	return Route{
		FirstHop: n.ID,
		Fee:      fee,
		Edges:    edges,
	}, nil
}

// FindRouteOption is a convenience wrapper over FindRoute for callers that
// prefer an Option to a (Route, error) pair. Every error FindRoute returns
// becomes None; the error code is not inspected.
func (g *Graph) FindRouteOption(local, dest Vertex, amtMsat int64, riskFactor float64, isLivePeer func(Vertex) bool) fn.Option[Route] {
	route, err := g.FindRoute(local, dest, amtMsat, riskFactor, isLivePeer)
	if err != nil {
		return fn.None[Route]()
	}
	return fn.Some(route)
}
