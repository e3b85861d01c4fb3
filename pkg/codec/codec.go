// Package codec converts typed values to and from string payloads.
package codec

import (
	"errors"
	"fmt"

	json "github.com/json-iterator/go"
)

// ErrCyclicValue is returned by strict Marshal when the value graph
// contains a reference cycle.
var ErrCyclicValue = errors.New("codec: value contains a reference cycle")

// Codec converts arbitrary values to and from their stored string form.
//
// Implementations must support plain-old-data object graphs and
// sequences. MarshalTolerant is the cycle-tolerant mode: back-references
// in the value graph are dropped instead of failing.
type Codec interface {
	Marshal(v any) (string, error)
	MarshalTolerant(v any) (string, error)
	Unmarshal(payload string, out any) error
}

var api = json.ConfigCompatibleWithStandardLibrary

// JSON is the default Codec. It produces compact JSON payloads.
type JSON struct{}

// Marshal serializes v to a JSON string. Cyclic values fail with
// ErrCyclicValue before any encoding work is done.
func (JSON) Marshal(v any) (string, error) {
	if hasCycle(v) {
		return "", ErrCyclicValue
	}
	s, err := api.MarshalToString(v)
	if err != nil {
		return "", fmt.Errorf("codec: marshal: %w", err)
	}
	return s, nil
}

// MarshalTolerant serializes v to a JSON string, dropping any
// back-references encountered while walking the value graph.
func (JSON) MarshalTolerant(v any) (string, error) {
	s, err := api.MarshalToString(breakCycles(v))
	if err != nil {
		return "", fmt.Errorf("codec: marshal: %w", err)
	}
	return s, nil
}

// MarshalIndent serializes v as pretty-printed JSON. The storage engine
// uses it for the outer mapping document so backing files stay
// human-readable.
func (JSON) MarshalIndent(v any) (string, error) {
	if hasCycle(v) {
		return "", ErrCyclicValue
	}
	b, err := api.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("codec: marshal: %w", err)
	}
	return string(b), nil
}

// Unmarshal deserializes a JSON payload into out.
func (JSON) Unmarshal(payload string, out any) error {
	if err := api.UnmarshalFromString(payload, out); err != nil {
		return fmt.Errorf("codec: unmarshal: %w", err)
	}
	return nil
}
