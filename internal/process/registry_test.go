package process

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/datallboy/toolfetch/internal/domain"
)

func TestRegistryGetPutRemove(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get("http://a"); ok {
		t.Error("Expected empty registry")
	}

	h := NewHandle("http://a")
	r.Put("http://a", h)

	got, ok := r.Get("http://a")
	if !ok || got != h {
		t.Error("Expected stored handle to be returned")
	}

	r.Remove("http://a")
	if r.Len() != 0 {
		t.Errorf("Expected 0 handles, got %d", r.Len())
	}
}

func TestRegistryAcquireRejectsRunning(t *testing.T) {
	r := NewRegistry()

	h1, err := r.Acquire("http://a")
	if err != nil {
		t.Fatalf("Expected first acquire to succeed, got %v", err)
	}
	if !h1.Running() {
		t.Error("Expected acquired handle to be running")
	}

	h2, err := r.Acquire("http://a")
	if !errors.Is(err, domain.ErrDownloadInProgress) {
		t.Fatalf("Expected ErrDownloadInProgress, got %v", err)
	}
	if h2 != h1 {
		t.Error("Expected the existing handle to be returned")
	}

	if _, err := r.Acquire("http://b"); err != nil {
		t.Errorf("Expected a different URL to be independent, got %v", err)
	}
}

func TestRegistryAcquireReusesIdleHandle(t *testing.T) {
	r := NewRegistry()
	idle := NewHandle("http://a")
	r.Put("http://a", idle)

	h, err := r.Acquire("http://a")
	if err != nil {
		t.Fatalf("Expected idle handle to be reusable, got %v", err)
	}
	if h != idle {
		t.Error("Expected the idle handle to be reused")
	}
}

func TestRegistryAcquireConcurrent(t *testing.T) {
	r := NewRegistry()

	var wins, rejects atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Acquire("http://same"); err == nil {
				wins.Add(1)
			} else if errors.Is(err, domain.ErrDownloadInProgress) {
				rejects.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("Expected exactly one winner, got %d", wins.Load())
	}
	if rejects.Load() != 63 {
		t.Errorf("Expected 63 rejections, got %d", rejects.Load())
	}
}

func TestRegistryRemoveIf(t *testing.T) {
	r := NewRegistry()
	old := NewHandle("http://a")
	r.Put("http://a", old)

	newer := NewHandle("http://a")
	r.Put("http://a", newer)

	if r.RemoveIf("http://a", old) {
		t.Error("Expected stale handle not to evict the newer one")
	}
	if !r.RemoveIf("http://a", newer) {
		t.Error("Expected current handle to be evicted")
	}
	if _, ok := r.Get("http://a"); ok {
		t.Error("Expected URL to be gone")
	}
}

func TestRegistryURLsSorted(t *testing.T) {
	r := NewRegistry()
	r.Put("http://b", NewHandle("http://b"))
	r.Put("http://a", NewHandle("http://a"))

	urls := r.URLs()
	if len(urls) != 2 || urls[0] != "http://a" || urls[1] != "http://b" {
		t.Errorf("Expected sorted URLs, got %v", urls)
	}
	if len(r.Handles()) != 2 {
		t.Errorf("Expected 2 handles, got %d", len(r.Handles()))
	}
}
