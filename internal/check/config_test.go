package check

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ProbeCount != DefaultProbeCount {
		t.Errorf("ProbeCount = %d, want %d", cfg.ProbeCount, DefaultProbeCount)
	}
	if cfg.Resolver == nil {
		t.Error("Resolver = nil, want the system resolver")
	}
	if cfg.Open == nil {
		t.Error("Open = nil, want the raw socket opener")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		count   int
		wantErr error
	}{
		{-1, ErrInvalidProbeCount},
		{0, ErrInvalidProbeCount},
		{1, nil},
		{3, nil},
		{255, nil},
		{256, ErrInvalidProbeCount},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.ProbeCount = tt.count

		if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
			t.Errorf("Validate() with count %d error = %v, want %v", tt.count, err, tt.wantErr)
		}
	}
}

func TestNew_RejectsInvalidCountWithoutOpening(t *testing.T) {
	host := &fakeHost{t: t}

	for _, count := range []int{0, 256} {
		_, err := New(&Config{ProbeCount: count, Open: host.open})
		if !errors.Is(err, ErrInvalidProbeCount) {
			t.Errorf("New() with count %d error = %v, want ErrInvalidProbeCount", count, err)
		}
	}
	if host.opens != 0 {
		t.Errorf("opens = %d, want 0", host.opens)
	}
}

func TestNew_NilConfig(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) error = %v", err)
	}
	if c.config.ProbeCount != DefaultProbeCount {
		t.Errorf("ProbeCount = %d, want %d", c.config.ProbeCount, DefaultProbeCount)
	}
}
