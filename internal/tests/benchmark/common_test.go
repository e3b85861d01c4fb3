package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/flatkv/flatkv-go/pkg/store"
)

// EntryCounts defines the store sizes used in persistence benchmarks.
var EntryCounts = []int{1000, 5000, 10000}

// record is a representative structured value.
type record struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Active  bool   `json:"active"`
	Balance int    `json:"balance"`
}

func newRecord(i int) record {
	return record{
		ID:      i,
		Name:    fmt.Sprintf("user-%d", i),
		Email:   fmt.Sprintf("user-%d@example.test", i),
		Active:  i%2 == 0,
		Balance: i * 37,
	}
}

// newBenchStore creates an engine writing into a per-benchmark temp dir.
func newBenchStore(b *testing.B, encrypt bool) *store.Engine {
	b.Helper()

	opts := store.DefaultOptions()
	opts.Dir = b.TempDir()
	opts.AutoSave = false
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	opts.EnableEncryption = encrypt

	var key []byte
	if encrypt {
		key = []byte("benchmark passphrase material")
	}

	e, err := store.New(opts, key)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	return e
}

// prefillStore fills the engine with count entries.
func prefillStore(b *testing.B, e *store.Engine, count int) {
	b.Helper()
	ctx := context.Background()
	for i := 0; i < count; i++ {
		if err := e.Set(ctx, fmt.Sprintf("rec:%d", i), newRecord(i)); err != nil {
			b.Fatalf("Set: %v", err)
		}
	}
}
