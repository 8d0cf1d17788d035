package profile

import (
	"slices"
	"testing"
)

func TestNew_Options(t *testing.T) {
	p := New(WithMode("cpu"), WithPath("/tmp/out"), WithQuiet(true))

	if p.Mode != "cpu" || p.Path != "/tmp/out" || !p.Quiet {
		t.Errorf("unexpected profiler %+v", p)
	}

	// Later options win.
	if q := New(WithMode("cpu"), WithMode("heap")); q.Mode != "heap" {
		t.Errorf("expected mode heap, got %q", q.Mode)
	}
}

func TestProfiler_Start_NoMode(t *testing.T) {
	s := New(WithPath(t.TempDir())).Start()

	if _, ok := s.(ignore); !ok {
		t.Errorf("expected no-op stopper, got %T", s)
	}

	s.Stop()
}

func TestProfiler_Start_UnknownMode(t *testing.T) {
	s := New(WithMode("bogus"), WithPath(t.TempDir())).Start()

	if _, ok := s.(ignore); !ok {
		t.Errorf("expected no-op stopper, got %T", s)
	}

	s.Stop()
}

func TestModes_Sorted(t *testing.T) {
	if m := Modes(); !slices.IsSorted(m) {
		t.Errorf("expected sorted modes, got %v", m)
	}
}
