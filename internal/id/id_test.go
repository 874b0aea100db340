package id

import (
	"strings"
	"sync"
	"testing"
)

func TestNewRequestIDPrefix(t *testing.T) {
	reqID := NewRequestID()

	if !strings.HasPrefix(reqID.String(), "req_") {
		t.Errorf("request id should start with 'req_', got %s", reqID)
	}
	if len(reqID.String()) != len(RequestPrefix)+1+26 {
		t.Errorf("ULID part should be 26 characters, got %s", reqID)
	}
}

func TestGenerateUnique(t *testing.T) {
	gen := Default()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.Generate().String()
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestGenerateConcurrent(t *testing.T) {
	gen := Default()

	var wg sync.WaitGroup
	ids := make([]string, 64)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = gen.Generate().String()
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}
