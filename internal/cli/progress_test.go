package cli

import (
	"bytes"
	"testing"
	"time"
)

func TestProgressSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewProgressSink(&buf)

	s.OnStarted("http://a/x.dmg")
	s.OnOutput("http://a/x.dmg", "10% of 33.2MiB at 115.7KiB/s, ETA 4m51s")
	s.OnOutput("http://a/x.dmg", "Redirecting to mirror")
	s.OnOutput("http://a/x.dmg", "55% of 33.2MiB at 2.0MiB/s, ETA 10s")

	if !s.Started() {
		t.Error("Expected sink to be started")
	}
	if s.Percent() != 55 {
		t.Errorf("Expected 55%%, got %d", s.Percent())
	}

	select {
	case <-s.Done():
		t.Fatal("Expected Done to stay open before Finished")
	default:
	}

	s.OnFinished("http://a/x.dmg")
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("Expected Done after Finished")
	}

	if s.Last() != "55% of 33.2MiB at 2.0MiB/s, ETA 10s" {
		t.Errorf("Unexpected last line %q", s.Last())
	}
	if buf.Len() == 0 {
		t.Error("Expected the bar to render")
	}
}

func TestProgressSinkStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := NewProgressSink(&buf)

	s.Stop()
	s.OnFinished("http://a")

	select {
	case <-s.Done():
	default:
		t.Fatal("Expected Done after Stop")
	}
}
