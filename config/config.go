// Package config defines the policy knobs the protocol and routing
// engines are parameterized by. Persistent config-file parsing is out of
// scope; Default returns sane values and flags.NewParser lets a command
// layer override them from argv the same way lnd's own top-level Config
// does.
package config

import (
	"github.com/jessevdk/go-flags"
)

// Config holds every policy knob the protocol and routing engines consult.
type Config struct {
	// RelLocktimeMax is the largest relative locktime (in seconds) an
	// opening peer's proposed delay may carry before accept_pkt_open
	// rejects it with "Delay too great".
	RelLocktimeMax uint32 `long:"rel-locktime-max" description:"Maximum relative locktime, in seconds, accepted from a peer opening a channel"`

	// AnchorConfirmsMax is the largest min_depth a peer may request
	// before accept_pkt_open rejects it with "min_depth too great".
	AnchorConfirmsMax uint32 `long:"anchor-confirms-max" description:"Maximum anchor confirmation depth accepted from a peer opening a channel"`

	// CommitmentFeeMin is the smallest commitment fee, in satoshis, this
	// node will accept a peer proposing before accept_pkt_open rejects
	// it with "Commitment fee too low".
	CommitmentFeeMin uint64 `long:"commitment-fee-min" description:"Minimum commitment transaction fee, in satoshis, accepted from a peer opening a channel"`

	// MaxHops bounds the longest route find_route will return. The
	// number of Bellman-Ford-Gibson scratch slots per node is fixed by
	// routing.HopLimit and does not follow this value.
	MaxHops int `long:"max-hops" description:"Maximum path length the routing engine will consider"`

	// RiskFactor scales the per-hop time-value risk premium applied
	// during pathfinding.
	RiskFactor float64 `long:"risk-factor" description:"Multiplier applied to the routing engine's per-hop time-value risk premium"`

	// EnforceMinBlocks gates the redesigned pathfinding behavior of
	// skipping an edge whose min_blocks requirement the accumulated
	// downstream delay cannot satisfy. Off by default, matching the
	// original relaxation, which recorded the field but never
	// consulted it.
	EnforceMinBlocks bool `long:"enforce-min-blocks" description:"Reject routes that violate a hop's minimum accepted remaining time-lock"`
}

// Default returns the out-of-the-box policy. MaxHops matches the
// reference implementation's ROUTING_MAX_HOPS constant; the remaining
// fields have no located compile-time default in the retrieved source
// and are this core's own reasonable choice.
func Default() *Config {
	return &Config{
		RelLocktimeMax:    7 * 24 * 60 * 60,
		AnchorConfirmsMax: 10,
		CommitmentFeeMin:  1,
		MaxHops:           20,
		RiskFactor:        1.0,
	}
}

// Load parses argv on top of Default, the same way lnd's top-level
// Config is loaded: flags.NewParser reads CLI flags directly into the
// struct, flags.Default enabling its usual --help/error formatting.
func Load(argv []string) (*Config, error) {
	cfg := Default()

	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.ParseArgs(argv); err != nil {
		return nil, err
	}

	return cfg, nil
}
