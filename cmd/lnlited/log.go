package main

import (
	"github.com/btcsuite/btclog"

	"github.com/lnlited/lnlited/build"
	"github.com/lnlited/lnlited/lnwallet"
	"github.com/lnlited/lnlited/protocol"
	"github.com/lnlited/lnlited/routing"
)

// Loggers per subsystem. A single backend logger is created and every
// subsystem logger below writes to it. Trimmed from the original daemon's
// twenty-odd subsystems down to the four this core actually has.
var (
	backendLog = btclog.NewBackend(&build.LogWriter{})

	ltndLog = build.NewSubLogger("LTND", backendLog.Logger)
	rtngLog = build.NewSubLogger("RTNG", backendLog.Logger)
	lnwlLog = build.NewSubLogger("LNWL", backendLog.Logger)
	protLog = build.NewSubLogger("PROT", backendLog.Logger)
)

// Wire the package-global loggers into every subsystem that exposes one.
func init() {
	routing.UseLogger(rtngLog)
	lnwallet.UseLogger(lnwlLog)
	protocol.UseLogger(protLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger,
// for setLogLevel/setLogLevels below.
var subsystemLoggers = map[string]btclog.Logger{
	"LTND": ltndLog,
	"RTNG": rtngLog,
	"LNWL": lnwlLog,
	"PROT": protLog,
}

// setLogLevel sets the logging level for the provided subsystem. Invalid
// subsystems are ignored.
func setLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// setLogLevels sets every subsystem logger to the same level. Used to
// initialize logging from a single --debuglevel flag.
func setLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		setLogLevel(subsystemID, logLevel)
	}
}
