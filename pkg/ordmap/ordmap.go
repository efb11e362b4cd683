// Package ordmap provides a string-keyed mapping that preserves insertion
// order through YAML marshaling and unmarshaling. Key order is semantically
// load-bearing in environment documents (interfaces and pools are interpreted
// positionally), so plain Go maps cannot be used there.
package ordmap

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// A nil *Map reads as an empty map; documents routinely omit optional
// mapping sections, leaving the field nil after decoding.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

func New[V any]() *Map[V] {
	return &Map[V]{values: make(map[string]V)}
}

// Set inserts or updates a key. Updating an existing key keeps its position.
func (m *Map[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *Map[V]) Get(key string) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}

	value, ok := m.values[key]
	return value, ok
}

func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice must not be
// modified.
func (m *Map[V]) Keys() []string {
	if m == nil {
		return nil
	}

	return m.keys
}

func (m *Map[V]) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, key := range m.keys {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(key); err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", key, err)
		}

		valueNode := &yaml.Node{}
		if err := valueNode.Encode(m.values[key]); err != nil {
			return nil, fmt.Errorf("failed to encode value of %q: %w", key, err)
		}

		node.Content = append(node.Content, keyNode, valueNode)
	}

	return node, nil
}

func (m *Map[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping node, got %s", node.Tag)
	}

	m.keys = nil
	m.values = make(map[string]V, len(node.Content)/2)

	for i := 0; i < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("failed to decode mapping key: %w", err)
		}

		var value V
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("failed to decode value of %q: %w", key, err)
		}

		m.Set(key, value)
	}

	return nil
}
