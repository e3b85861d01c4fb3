package store

import "context"

// GetValue retrieves the value stored under key decoded into T.
func GetValue[T any](_ context.Context, e *Engine, key string) (T, error) {
	var out T
	plain, err := e.payload(key)
	if err != nil {
		return out, err
	}
	if err := e.codec.Unmarshal(plain, &out); err != nil {
		return out, err
	}
	e.observe("get")
	return out, nil
}

// Query retrieves the value stored under key as a sequence of T and
// returns the elements accepted by predicate, in stored order. A nil
// predicate accepts everything. It fails like GetValue when key is
// absent or the value does not decode as a sequence of T.
func Query[T any](ctx context.Context, e *Engine, key string, predicate func(T) bool) ([]T, error) {
	items, err := GetValue[[]T](ctx, e, key)
	if err != nil {
		return nil, err
	}
	if predicate == nil {
		return items, nil
	}

	results := make([]T, 0, len(items))
	for _, item := range items {
		if predicate(item) {
			results = append(results, item)
		}
	}
	return results, nil
}
