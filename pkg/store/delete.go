package store

import (
	"context"
	"strings"
)

// DeleteKey removes the entry stored under key and persists the result.
// It reports whether an entry was actually removed.
//
// The backing file is reloaded first so the deletion applies to the
// last persisted state, then the updated store is written back.
func (e *Engine) DeleteKey(ctx context.Context, key string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.reload(ctx); err != nil {
		return false, err
	}
	if _, ok := e.entries.Pop(key); !ok {
		return false, nil
	}
	if err := e.Persist(ctx); err != nil {
		return true, err
	}
	e.observe("delete")
	return true, nil
}

// DeleteMatching removes every entry whose key contains substring. It
// returns the number of matching keys and the number actually removed,
// persisting after each removal. An empty substring matches nothing.
func (e *Engine) DeleteMatching(ctx context.Context, substring string) (matched, removed int, err error) {
	if substring == "" {
		return 0, 0, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.reload(ctx); err != nil {
		return 0, 0, err
	}

	for _, key := range e.entries.Keys() {
		if !strings.Contains(key, substring) {
			continue
		}
		matched++
		if _, ok := e.entries.Pop(key); !ok {
			continue
		}
		if err := e.Persist(ctx); err != nil {
			return matched, removed, err
		}
		removed++
	}
	e.observe("delete")
	return matched, removed, nil
}

// DeleteKeys removes each of the given keys, persisting after each
// removal. It reports true only when the number of removals equals the
// number of keys given, so a key listed twice yields false even though
// every listed key ends up deleted.
func (e *Engine) DeleteKeys(ctx context.Context, keys []string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.reload(ctx); err != nil {
		return false, err
	}

	removed := 0
	for _, key := range keys {
		if _, ok := e.entries.Pop(key); !ok {
			continue
		}
		if err := e.Persist(ctx); err != nil {
			return false, err
		}
		removed++
	}
	e.observe("delete")
	return removed == len(keys), nil
}
