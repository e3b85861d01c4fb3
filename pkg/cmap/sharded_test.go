package cmap

import (
	"fmt"
	"sort"
	"sync"
	"testing"
)

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, DefaultShardCount},  // invalid → default
		{-1, DefaultShardCount}, // invalid → default
		{3, DefaultShardCount},  // not power of 2 → default
		{1, 1},
		{4, 4},
		{32, 32},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shards=%d", tt.input), func(t *testing.T) {
			m := NewWithShards[int](tt.input)
			if len(m.shards) != tt.expected {
				t.Errorf("NewWithShards(%d) shard count = %d, want %d",
					tt.input, len(m.shards), tt.expected)
			}
		})
	}
}

func TestSetGetDelete(t *testing.T) {
	m := New[string]()

	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("a", "replaced")

	val, ok := m.Get("a")
	if !ok || val != "replaced" {
		t.Errorf("Get(a) = (%q, %v), want (replaced, true)", val, ok)
	}
	if !m.Has("b") {
		t.Error("Has(b) = false, want true")
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}

	m.Delete("a")
	if _, ok := m.Get("a"); ok {
		t.Error("a should not exist after Delete")
	}

	// Delete of a missing key must not panic.
	m.Delete("missing")
}

func TestPop(t *testing.T) {
	m := New[int]()
	m.Set("x", 7)

	val, ok := m.Pop("x")
	if !ok || val != 7 {
		t.Errorf("Pop(x) = (%d, %v), want (7, true)", val, ok)
	}
	if _, ok := m.Pop("x"); ok {
		t.Error("second Pop(x) should report absent")
	}
}

func TestSnapshotAndReplace(t *testing.T) {
	m := New[string]()
	m.Set("k1", "v1")
	m.Set("k2", "v2")

	snap := m.Snapshot()
	if len(snap) != 2 || snap["k1"] != "v1" || snap["k2"] != "v2" {
		t.Fatalf("Snapshot() = %v", snap)
	}

	// Snapshot is a copy: mutating it must not affect the map.
	snap["k3"] = "v3"
	if m.Has("k3") {
		t.Error("mutating snapshot leaked into map")
	}

	m.Replace(map[string]string{"only": "one"})
	if m.Count() != 1 {
		t.Errorf("Count() after Replace = %d, want 1", m.Count())
	}
	if v, _ := m.Get("only"); v != "one" {
		t.Errorf("Get(only) = %q, want one", v)
	}
}

func TestKeys(t *testing.T) {
	m := New[int]()
	for i := 0; i < 5; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i)
	}

	keys := m.Keys()
	if len(keys) != 5 {
		t.Fatalf("len(Keys()) = %d, want 5", len(keys))
	}
	sort.Strings(keys)
	for i, k := range keys {
		want := fmt.Sprintf("key-%d", i)
		if k != want {
			t.Errorf("keys[%d] = %q, want %q", i, k, want)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := New[int]()
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("g%d-k%d", g, i)
				m.Set(key, i)
				if _, ok := m.Get(key); !ok {
					t.Errorf("Get(%s) missing after Set", key)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	if m.Count() != 800 {
		t.Errorf("Count() = %d, want 800", m.Count())
	}
}
