// Package check runs reachability checks: it resolves a host, opens one echo
// session and requires every probe of the sequence to be answered.
package check

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/KilimcininKorOglu/echocheck/internal/logger"
	"github.com/KilimcininKorOglu/echocheck/internal/probe"
)

// Checker performs reachability checks, one host and one probe at a time.
type Checker struct {
	config *Config
	logger *slog.Logger
}

// New creates a new Checker with the given configuration.
func New(config *Config) (*Checker, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log := config.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Checker{
		config: config,
		logger: log.With(slog.String("component", "check")),
	}, nil
}

// ProbeHost reports whether hostname answered all probeCount echo requests.
// Every failure, including an invalid count, is reported as false.
func ProbeHost(hostname string, probeCount int) bool {
	config := DefaultConfig()
	config.ProbeCount = probeCount

	c, err := New(config)
	if err != nil {
		return false
	}

	return c.Check(context.Background(), hostname).Reachable
}

// CheckAll checks each target in order and returns one result per target.
func (c *Checker) CheckAll(ctx context.Context, targets []string) []*Result {
	results := make([]*Result, 0, len(targets))
	for _, target := range targets {
		results = append(results, c.Check(ctx, target))
	}
	return results
}

// Check probes target ProbeCount times and stops at the first failure.
// The socket is closed before Check returns.
func (c *Checker) Check(ctx context.Context, target string) *Result {
	result := &Result{
		Target:     target,
		ProbeCount: c.config.ProbeCount,
		Timestamp:  time.Now(),
	}

	c.run(ctx, result)

	c.progress(Progress{
		Target:  target,
		Stage:   StageClosed,
		Addr:    result.ResolvedIP,
		Seq:     result.FailedSeq,
		Count:   result.ProbeCount,
		Outcome: result.Outcome,
		Err:     result.Err,
	})

	if result.Reachable {
		c.logger.Debug("host reachable", "target", target, "ip", result.ResolvedIP, "probes", result.ProbeCount)
	} else {
		c.logger.Info("host unreachable", "target", target, "outcome", result.Outcome, "error", result.Err)
	}

	if c.config.OnResult != nil {
		c.config.OnResult(result)
	}

	return result
}

func (c *Checker) run(ctx context.Context, result *Result) {
	c.progress(Progress{Target: result.Target, Stage: StageResolving, Count: result.ProbeCount})

	addr, err := c.resolveTarget(ctx, result.Target)
	if err != nil {
		result.fail(probe.OutcomeResolveFailed, err)
		return
	}
	result.ResolvedIP = addr

	session, err := probe.OpenSession(probe.SessionConfig{
		Target: addr,
		Open:   c.config.Open,
		Logger: c.logger,
	})
	if err != nil {
		if probe.IsPermissionError(err) {
			result.fail(probe.OutcomePermissionDenied, err)
		} else {
			result.fail(probe.OutcomeSocketFailed, err)
		}
		return
	}
	defer func() {
		if err := session.Close(); err != nil {
			c.logger.Warn("closing socket failed", "target", result.Target, "error", err)
		}
	}()
	result.Identifier = session.Identifier()

	c.progress(Progress{Target: result.Target, Stage: StageSocketOpen, Addr: addr, Count: result.ProbeCount})

	for seq := 1; seq <= result.ProbeCount; seq++ {
		if err := ctx.Err(); err != nil {
			result.fail(probe.OutcomeCancelled, err)
			return
		}

		outcome, err := session.Probe(uint16(seq))
		c.progress(Progress{
			Target:  result.Target,
			Stage:   StageProbing,
			Addr:    addr,
			Seq:     seq,
			Count:   result.ProbeCount,
			Outcome: outcome,
			Err:     err,
		})

		if !outcome.OK() {
			result.FailedSeq = seq
			result.fail(outcome, err)
			return
		}
		result.Completed++
	}

	result.Reachable = true
	result.Outcome = probe.OutcomeOK
}

func (r *Result) fail(outcome probe.Outcome, err error) {
	r.Reachable = false
	r.Outcome = outcome
	r.Err = err
}

func (c *Checker) progress(p Progress) {
	if c.config.OnProgress != nil {
		c.config.OnProgress(p)
	}
}

// resolveTarget resolves a hostname or IP string to one IPv4 address.
// The first IPv4 result is used; there is no fallback to later results.
func (c *Checker) resolveTarget(ctx context.Context, target string) (netip.Addr, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return netip.Addr{}, fmt.Errorf("%w: %w", ErrTargetResolution, ErrEmptyTarget)
	}

	// Check if target is already an IP address
	if ip, err := netip.ParseAddr(target); err == nil {
		ip = ip.Unmap()
		if !ip.Is4() {
			return netip.Addr{}, fmt.Errorf("%w: %s: %w", ErrTargetResolution, target, probe.ErrNotIPv4)
		}
		return ip, nil
	}

	resolver := c.config.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	addrs, err := resolver.LookupNetIP(ctx, "ip4", target)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %s: %w", ErrTargetResolution, target, err)
	}

	for _, addr := range addrs {
		if addr = addr.Unmap(); addr.Is4() {
			c.logger.Debug("resolved target", "target", target, "ip", addr)
			return addr, nil
		}
	}

	return netip.Addr{}, fmt.Errorf("%w: no IPv4 addresses found for %s", ErrTargetResolution, target)
}
