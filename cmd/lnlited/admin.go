package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/lnlited/lnlited/routing"
)

// AdminServer exposes the operations named by the administrative API: it is
// a thin Go-level wiring shim over routing.Graph, not an RPC server. Command
// dispatch and argument parsing are the caller's concern (see ParseAddRoute
// for the one syntax this daemon happens to also accept as a CLI flag).
type AdminServer struct {
	graph *routing.Graph

	// routefailEnabled mirrors dev-routefail's debug knob: while true
	// (the default), un-routable HTLCs are failed back; once disabled
	// they would be forwarded regardless. This daemon never forwards
	// HTLCs itself (multi-hop forwarding is out of scope), so the flag
	// is recorded but has nothing to act on yet.
	routefailEnabled bool
}

// NewAdminServer wraps an existing channel graph.
func NewAdminServer(graph *routing.Graph) *AdminServer {
	return &AdminServer{graph: graph, routefailEnabled: true}
}

// AddRouteRequest is dev-add-route's JSON body.
type AddRouteRequest struct {
	Src       string `json:"src"`
	Dst       string `json:"dst"`
	Base      uint32 `json:"base"`
	Var       int32  `json:"var"`
	Delay     uint32 `json:"delay"`
	MinBlocks uint32 `json:"minblocks"`
}

func parseVertex(s string) (routing.Vertex, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return routing.Vertex{}, fmt.Errorf("bad node id %q: %v", s, err)
	}
	if len(b) != len(routing.Vertex{}) {
		return routing.Vertex{}, fmt.Errorf("node id %q: want %d bytes, got %d",
			s, len(routing.Vertex{}), len(b))
	}
	var v routing.Vertex
	copy(v[:], b)
	return v, nil
}

// DevAddRoute injects a directed channel edge into the graph, the way
// dev-add-route does over JSON-RPC.
func (a *AdminServer) DevAddRoute(req AddRouteRequest) error {
	src, err := parseVertex(req.Src)
	if err != nil {
		return err
	}
	dst, err := parseVertex(req.Dst)
	if err != nil {
		return err
	}

	a.graph.AddNode(src, "", 0)
	a.graph.AddNode(dst, "", 0)
	a.graph.AddConnection(src, dst, req.Base, req.Var, req.Delay, req.MinBlocks)
	return nil
}

// ParseAddRoute accepts the original daemon's opt_add_route command-line
// syntax, srcid/dstid/base/var/delay/minblocks, as an alternative to the
// JSON body above.
func ParseAddRoute(arg string) (AddRouteRequest, error) {
	fields := strings.Split(arg, "/")
	if len(fields) != 6 {
		return AddRouteRequest{}, fmt.Errorf(
			"expected srcid/dstid/base/var/delay/minblocks, got %q", arg)
	}

	base, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return AddRouteRequest{}, fmt.Errorf("bad base fee %q: %v", fields[2], err)
	}
	varFee, err := strconv.ParseInt(fields[3], 10, 32)
	if err != nil {
		return AddRouteRequest{}, fmt.Errorf("bad proportional fee %q: %v", fields[3], err)
	}
	delay, err := strconv.ParseUint(fields[4], 10, 32)
	if err != nil {
		return AddRouteRequest{}, fmt.Errorf("bad delay %q: %v", fields[4], err)
	}
	minBlocks, err := strconv.ParseUint(fields[5], 10, 32)
	if err != nil {
		return AddRouteRequest{}, fmt.Errorf("bad minblocks %q: %v", fields[5], err)
	}

	return AddRouteRequest{
		Src:       fields[0],
		Dst:       fields[1],
		Base:      uint32(base),
		Var:       int32(varFee),
		Delay:     uint32(delay),
		MinBlocks: uint32(minBlocks),
	}, nil
}

// ChannelView is one entry of getchannels' response.
type ChannelView struct {
	From            string `json:"from"`
	To              string `json:"to"`
	BaseFee         uint32 `json:"base_fee"`
	ProportionalFee int32  `json:"proportional_fee"`
}

// GetChannels lists every known directed edge.
func (a *AdminServer) GetChannels() []ChannelView {
	channels := a.graph.ListChannels()
	out := make([]ChannelView, 0, len(channels))
	for _, c := range channels {
		out = append(out, ChannelView{
			From:            c.From.String(),
			To:              c.To.String(),
			BaseFee:         c.BaseFee,
			ProportionalFee: c.ProportionalFee,
		})
	}
	return out
}

// NodeView is one entry of getnodes' response. Hostname is omitted (null)
// for nodes the graph has no address for.
type NodeView struct {
	NodeID   string  `json:"nodeid"`
	Port     int     `json:"port"`
	Hostname *string `json:"hostname"`
}

// GetNodes lists every known node.
func (a *AdminServer) GetNodes() []NodeView {
	nodes := a.graph.ListNodes()
	out := make([]NodeView, 0, len(nodes))
	for _, n := range nodes {
		view := NodeView{NodeID: n.ID.String(), Port: n.Port}
		if n.Hostname != "" {
			hostname := n.Hostname
			view.Hostname = &hostname
		}
		out = append(out, view)
	}
	return out
}

// DevRoutefail toggles the routefail debug knob.
func (a *AdminServer) DevRoutefail(enable bool) {
	a.routefailEnabled = enable
}
