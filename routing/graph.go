package routing

import (
	"fmt"
	"sync"
)

// HopLimit bounds both the maximum path length find_route will return and
// the number of per-node scratch slots the Bellman-Ford-Gibson relaxation
// keeps. The original daemon fixed this at compile time; 20 matches it.
const HopLimit = 20

// Vertex is the compressed serialization of a node's public key, used as
// the graph's node identity and map key.
type Vertex [33]byte

// String returns the hex-encoded vertex, for logging.
func (v Vertex) String() string {
	return fmt.Sprintf("%x", v[:])
}

// bfgSlot is one entry in a node's Bellman-Ford-Gibson scratch array: the
// best known (total, risk) for a path of exactly some fixed remaining hop
// count through this node, and the edge that achieved it.
type bfgSlot struct {
	total int64
	risk  uint64
	delay uint32
	prev  *Connection
}

// Node is a vertex in the channel graph.
type Node struct {
	ID Vertex

	// Hostname and Port are display-only metadata; the routing engine
	// never dials them.
	Hostname string
	Port     int

	// In and Out are this node's incoming and outgoing edges.
	In, Out []*Connection

	bfg [HopLimit + 1]bfgSlot
}

// clearBfg resets a node's scratch array ahead of a find_route run.
func (n *Node) clearBfg() {
	for i := range n.bfg {
		n.bfg[i].total = infinite
		n.bfg[i].risk = 0
		n.bfg[i].delay = 0
		n.bfg[i].prev = nil
	}
}

// Connection is a directed channel edge from Src to Dst.
type Connection struct {
	Src, Dst *Node

	// BaseFee is the flat millisatoshi fee charged for routing across
	// this edge, independent of amount.
	BaseFee uint32

	// ProportionalFee is charged per million msat routed; signed, since
	// a negative proportional fee is how an operator pays to attract
	// traffic.
	ProportionalFee int32

	// Delay is the number of blocks of CLTV time-lock this edge adds.
	Delay uint32

	// MinBlocks is the minimum remaining time-lock this edge will
	// forward with.
	MinBlocks uint32
}

// Graph is an in-memory directed graph of nodes and channel edges, with
// amount-dependent least-cost pathfinding. It owns no persistence: every
// node and edge lives only as long as the process, and is populated purely
// by administrative calls from the (out-of-scope) command layer.
type Graph struct {
	mu    sync.Mutex
	nodes map[Vertex]*Node

	// enforceMinBlocks gates the REDESIGN behavior of skipping an edge
	// whose MinBlocks exceeds the cumulative delay already accumulated
	// downstream of it. Off by default, matching the original
	// relaxation, which recorded MinBlocks but never consulted it.
	enforceMinBlocks bool

	// maxHops bounds the longest path FindRoute will return, distinct
	// from HopLimit (the fixed scratch-array size every relaxation
	// considers). Zero means unbounded, i.e. any path up to HopLimit is
	// acceptable.
	maxHops int
}

// NewGraph returns an empty routing graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[Vertex]*Node),
	}
}

// SetEnforceMinBlocks toggles whether FindRoute skips an edge whose
// MinBlocks requirement the cumulative downstream delay cannot satisfy.
func (g *Graph) SetEnforceMinBlocks(enforce bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.enforceMinBlocks = enforce
}

// SetMaxHops bounds the longest path FindRoute will accept; a zero or
// negative value removes the bound (any path up to HopLimit is fine).
func (g *Graph) SetMaxHops(maxHops int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.maxHops = maxHops
}

// getNode returns the node for id, or nil. Callers must hold g.mu.
func (g *Graph) getNode(id Vertex) *Node {
	return g.nodes[id]
}

// newNode creates and registers a node for id. Callers must hold g.mu.
func (g *Graph) newNode(id Vertex) *Node {
	n := &Node{ID: id}
	g.nodes[id] = n
	return n
}

// getOrCreateNode returns the existing node for id, creating it silently
// if this is the first time it has been referenced.
func (g *Graph) getOrCreateNode(id Vertex) *Node {
	if n := g.getNode(id); n != nil {
		return n
	}
	return g.newNode(id)
}

// AddNode upserts display metadata for a node, creating it if necessary.
func (g *Graph) AddNode(id Vertex, hostname string, port int) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.getOrCreateNode(id)
	n.Hostname = hostname
	n.Port = port
	return n
}

// getOrMakeConnection returns the existing from->to edge if one exists,
// creating both endpoint nodes and the edge itself otherwise. Callers must
// hold g.mu.
func (g *Graph) getOrMakeConnection(from, to Vertex) *Connection {
	src := g.getOrCreateNode(from)
	dst := g.getOrCreateNode(to)

	for _, c := range dst.In {
		if c.Src == src {
			return c
		}
	}

	c := &Connection{Src: src, Dst: dst}
	dst.In = append(dst.In, c)
	src.Out = append(src.Out, c)
	return c
}

// AddConnection upserts the from->to edge's parameters, creating missing
// endpoint nodes and the edge itself as needed. At most one edge exists per
// ordered (src, dst) pair; re-adding updates it in place.
func (g *Graph) AddConnection(from, to Vertex, baseFee uint32, proportionalFee int32, delay, minBlocks uint32) *Connection {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := g.getOrMakeConnection(from, to)
	c.BaseFee = baseFee
	c.ProportionalFee = proportionalFee
	c.Delay = delay
	c.MinBlocks = minBlocks

	log.Debugf("added connection %s->%s (base=%d prop=%d delay=%d min_blocks=%d)",
		from, to, baseFee, proportionalFee, delay, minBlocks)

	return c
}

// RemoveConnection removes the from->to edge if it exists. It is
// idempotent: removing an absent edge logs and returns without error.
func (g *Graph) RemoveConnection(from, to Vertex) {
	g.mu.Lock()
	defer g.mu.Unlock()

	src := g.getNode(from)
	dst := g.getNode(to)
	if src == nil || dst == nil {
		log.Debugf("remove connection %s->%s: not found", from, to)
		return
	}

	for i, c := range src.Out {
		if c.Dst != dst {
			continue
		}

		src.Out = append(src.Out[:i], src.Out[i+1:]...)
		for j, in := range dst.In {
			if in == c {
				dst.In = append(dst.In[:j], dst.In[j+1:]...)
				break
			}
		}

		log.Debugf("removed connection %s->%s", from, to)
		return
	}

	log.Debugf("remove connection %s->%s: no matching edge", from, to)
}

// ChannelInfo is a flattened view of one directed edge, for ListChannels.
type ChannelInfo struct {
	From, To        Vertex
	BaseFee         uint32
	ProportionalFee int32
}

// ListChannels returns every known directed edge.
func (g *Graph) ListChannels() []ChannelInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []ChannelInfo
	for _, n := range g.nodes {
		for _, c := range n.Out {
			out = append(out, ChannelInfo{
				From:            c.Src.ID,
				To:              c.Dst.ID,
				BaseFee:         c.BaseFee,
				ProportionalFee: c.ProportionalFee,
			})
		}
	}
	return out
}

// NodeInfo is a flattened view of one node, for ListNodes.
type NodeInfo struct {
	ID       Vertex
	Hostname string
	Port     int
}

// ListNodes returns every known node.
func (g *Graph) ListNodes() []NodeInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]NodeInfo, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, NodeInfo{ID: n.ID, Hostname: n.Hostname, Port: n.Port})
	}
	return out
}
