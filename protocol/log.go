package protocol

import (
	"github.com/btcsuite/btclog"

	"github.com/lnlited/lnlited/build"
)

var log btclog.Logger

func init() {
	UseLogger(build.NewSubLogger("PROT", nil))
}

func DisableLog() {
	UseLogger(btclog.Disabled)
}

func UseLogger(logger btclog.Logger) {
	log = logger
}
