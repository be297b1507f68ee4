package memgraph

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLCodec writes a YAML mapping keyed by node id, in entry order.
type YAMLCodec[K comparable, D any] struct{}

func (c YAMLCodec[K, D]) Format() Format {
	return FormatYAML
}

func (c YAMLCodec[K, D]) Encode(entries Nodes[K, D]) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, entry := range entries {
		var key, value yaml.Node
		if err := key.Encode(entry.ID); err != nil {
			return nil, fmt.Errorf("node id %v: %w", entry.ID, err)
		}
		edges := entry.Node.Edges
		if edges == nil {
			edges = []K{}
		}
		if err := value.Encode(Node[K, D]{Data: entry.Node.Data, Edges: edges}); err != nil {
			return nil, fmt.Errorf("node %v: %w", entry.ID, err)
		}
		root.Content = append(root.Content, &key, &value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c YAMLCodec[K, D]) Decode(document []byte) (Nodes[K, D], error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(document, &doc); err != nil {
		return nil, err
	}
	entries := make(Nodes[K, D], 0)
	if doc.Kind == 0 {
		return entries, nil
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, errors.New("expected a single yaml document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of nodes at line %d", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		var entry Entry[K, D]
		if err := root.Content[i].Decode(&entry.ID); err != nil {
			return nil, fmt.Errorf("node id at line %d: %w", root.Content[i].Line, err)
		}
		if err := root.Content[i+1].Decode(&entry.Node); err != nil {
			return nil, fmt.Errorf("node %v: %w", entry.ID, err)
		}
		if entry.Node.Edges == nil {
			entry.Node.Edges = []K{}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
