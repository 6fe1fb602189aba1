package build

// Deployment records which deployment this binary was built for. It is an
// ordinary package variable, not set at link time; development is the
// zero value so plain `go build`/`go test` behave predictably.
var Deployment = Development

// LogLevel is the default level assigned to stdout loggers created via
// NewSubLogger when running under LogTypeStdOut (i.e. in tests).
var LogLevel = "info"
