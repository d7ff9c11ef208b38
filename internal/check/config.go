package check

import (
	"context"
	"log/slog"
	"net"
	"net/netip"

	"github.com/KilimcininKorOglu/echocheck/internal/probe"
)

// Probe count limits.
const (
	MinProbeCount     = 1
	MaxProbeCount     = 255
	DefaultProbeCount = 3
)

// Resolver looks up the addresses of a host. *net.Resolver implements it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// Config holds the configuration for a check.
type Config struct {
	// ProbeCount is the number of echo requests per host; all must be answered
	ProbeCount int

	// Resolver resolves hostnames (default: net.DefaultResolver)
	Resolver Resolver

	// Open creates the raw socket for each host (default: probe.OpenRawConn)
	Open probe.Opener

	// Logger receives structured diagnostics (default: discard)
	Logger *slog.Logger

	// OnProgress is called on every state change of a check
	OnProgress func(p Progress)

	// OnResult is called once per host when its check finishes
	OnResult func(r *Result)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ProbeCount: DefaultProbeCount,
		Resolver:   net.DefaultResolver,
		Open:       probe.OpenRawConn,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ProbeCount < MinProbeCount || c.ProbeCount > MaxProbeCount {
		return ErrInvalidProbeCount
	}
	return nil
}
