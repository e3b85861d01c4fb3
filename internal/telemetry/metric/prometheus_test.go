package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewStoreRegisters(t *testing.T) {
	registry := prometheus.NewRegistry()
	s := NewStore(registry)
	if s == nil {
		t.Fatal("NewStore() returned nil")
	}

	s.IncOp("set")
	s.ObservePersist(5*time.Millisecond, 1024)
	s.SetEntryCount(3)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	want := map[string]bool{
		"flatkv_store_ops_total":                false,
		"flatkv_store_persist_duration_seconds": false,
		"flatkv_store_persist_bytes":            false,
		"flatkv_store_entries":                  false,
	}
	for _, mf := range families {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestIncOp(t *testing.T) {
	s := NewStore(prometheus.NewRegistry())

	s.IncOp("set")
	s.IncOp("set")
	s.IncOp("get")

	if got := testutil.ToFloat64(s.ops.WithLabelValues("set")); got != 2 {
		t.Errorf("ops{op=set} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(s.ops.WithLabelValues("get")); got != 1 {
		t.Errorf("ops{op=get} = %v, want 1", got)
	}
}

func TestSetEntryCount(t *testing.T) {
	s := NewStore(prometheus.NewRegistry())

	s.SetEntryCount(7)
	if got := testutil.ToFloat64(s.entries); got != 7 {
		t.Errorf("entries = %v, want 7", got)
	}
	s.SetEntryCount(0)
	if got := testutil.ToFloat64(s.entries); got != 0 {
		t.Errorf("entries = %v, want 0", got)
	}
}
