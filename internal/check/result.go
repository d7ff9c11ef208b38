package check

import (
	"net/netip"
	"time"

	"github.com/KilimcininKorOglu/echocheck/internal/probe"
)

// Stage is a state of a single host check.
type Stage int

const (
	// StageResolving is looking up the IPv4 address
	StageResolving Stage = iota
	// StageSocketOpen means the raw socket is open and no probe has run yet
	StageSocketOpen
	// StageProbing means a probe finished; Seq and Outcome are set
	StageProbing
	// StageClosed means the socket is closed and the result is final
	StageClosed
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageResolving:
		return "resolving"
	case StageSocketOpen:
		return "socket-open"
	case StageProbing:
		return "probing"
	case StageClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Progress reports a state change during a check.
type Progress struct {
	Target  string
	Stage   Stage
	Addr    netip.Addr
	Seq     int
	Count   int
	// Outcome is OutcomeNone before the first probe finishes
	Outcome probe.Outcome
	Err     error
}

// Result contains the result of checking one host.
type Result struct {
	// Target is the original target (hostname or IP)
	Target string `json:"target"`

	// ResolvedIP is the probed IPv4 address; invalid if resolution failed
	ResolvedIP netip.Addr `json:"resolved_ip"`

	// Reachable is true iff every probe was answered
	Reachable bool `json:"reachable"`

	// Outcome is OutcomeOK or the reason the check failed
	Outcome probe.Outcome `json:"outcome"`

	// ProbeCount is the number of probes requested
	ProbeCount int `json:"probes"`

	// Completed is the number of probes answered before the check ended
	Completed int `json:"completed"`

	// FailedSeq is the sequence number of the failed probe, 0 if none ran or all passed
	FailedSeq int `json:"failed_seq,omitempty"`

	// Identifier is the ICMP identifier of the session
	Identifier uint16 `json:"identifier,omitempty"`

	// Err holds the failure detail
	Err error `json:"-"`

	// Timestamp is when the check started
	Timestamp time.Time `json:"timestamp"`
}

// ErrorString returns the failure detail or an empty string.
func (r *Result) ErrorString() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Summary counts reachable and unreachable hosts.
type Summary struct {
	Total       int `json:"total"`
	Reachable   int `json:"reachable"`
	Unreachable int `json:"unreachable"`
}

// Summarize counts the results.
func Summarize(results []*Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Reachable {
			s.Reachable++
		}
	}
	s.Unreachable = s.Total - s.Reachable
	return s
}

// AllReachable reports whether every result is reachable. It is false for no results.
func AllReachable(results []*Result) bool {
	if len(results) == 0 {
		return false
	}
	return Summarize(results).Unreachable == 0
}
