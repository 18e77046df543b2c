package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Pair is one key/value entry of a JSON object whose key order matters for display.
type Pair[V any] struct {
	Key   string
	Value V
}

// OrderedPairs decodes a JSON object into its entries in the order they appear on the wire.
type OrderedPairs[V any] []Pair[V]

func (p *OrderedPairs[V]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}

	om := orderedmap.New[string, V]()
	if err := json.Unmarshal(data, om); err != nil {
		return fmt.Errorf("failed to decode ordered object: %w", err)
	}

	pairs := make(OrderedPairs[V], 0, om.Len())
	for entry := om.Oldest(); entry != nil; entry = entry.Next() {
		pairs = append(pairs, Pair[V]{Key: entry.Key, Value: entry.Value})
	}
	*p = pairs
	return nil
}

func (p OrderedPairs[V]) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, V](len(p))
	for _, pair := range p {
		om.Set(pair.Key, pair.Value)
	}
	return json.Marshal(om)
}

// Get returns the value stored under key.
func (p OrderedPairs[V]) Get(key string) (V, bool) {
	for _, pair := range p {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	var zero V
	return zero, false
}

// Keys returns the keys in received order.
func (p OrderedPairs[V]) Keys() []string {
	keys := make([]string, len(p))
	for i, pair := range p {
		keys[i] = pair.Key
	}
	return keys
}
