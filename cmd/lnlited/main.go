// Command lnlited wires together the routing and protocol engines this
// module implements. Chain access, wire transport/encryption, and RPC
// dispatch are all opaque or out of scope, so this binary stops short of
// being a runnable Lightning node: it parses configuration, initializes
// logging the way the reference daemon does, and exposes the
// administrative operations (dev-add-route, getchannels, getnodes,
// dev-routefail) as plain Go methods a real transport layer would sit in
// front of.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/lnlited/lnlited/config"
	"github.com/lnlited/lnlited/routing"
)

// daemonOptions layers this binary's own flags (logging, bootstrap routes)
// on top of the shared engine config.Config.
type daemonOptions struct {
	config.Config

	DebugLevel string   `long:"debuglevel" description:"Logging level applied to every subsystem (one level; subsystem=level pairs are not parsed)" default:"info"`
	AddRoute   []string `long:"add-route" description:"Bootstrap a channel edge as srcid/dstid/base/var/delay/minblocks; may be repeated"`
}

func lnlitedMain() error {
	opts := daemonOptions{Config: *config.Default()}

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return err
	}

	setLogLevels(opts.DebugLevel)
	ltndLog.Infof("lnlited starting, max_hops=%d risk_factor=%v",
		opts.MaxHops, opts.RiskFactor)

	graph := routing.NewGraph()
	graph.SetMaxHops(opts.MaxHops)
	graph.SetEnforceMinBlocks(opts.EnforceMinBlocks)
	admin := NewAdminServer(graph)

	for _, arg := range opts.AddRoute {
		req, err := ParseAddRoute(arg)
		if err != nil {
			return fmt.Errorf("--add-route %q: %v", arg, err)
		}
		if err := admin.DevAddRoute(req); err != nil {
			return fmt.Errorf("--add-route %q: %v", arg, err)
		}
		ltndLog.Infof("bootstrapped route %s -> %s", req.Src, req.Dst)
	}

	ltndLog.Infof("graph loaded: %d channels, %d nodes",
		len(admin.GetChannels()), len(admin.GetNodes()))

	return nil
}

func main() {
	if err := lnlitedMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
