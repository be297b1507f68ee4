package memgraph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"unicode/utf8"
)

// Codec converts ordered graph entries to and from a single document.
type Codec[K comparable, D any] interface {
	Format() Format
	Encode(entries Nodes[K, D]) ([]byte, error)
	Decode(document []byte) (Nodes[K, D], error)
}

// JSONCodec writes a JSON object keyed by node id, in entry order. Keys that are
// not strings in JSON (numbers, booleans) are written as their JSON text.
type JSONCodec[K comparable, D any] struct {
	Indent string
}

type jsonNode[D any] struct {
	Data  D               `json:"data"`
	Edges json.RawMessage `json:"edges"`
}

func (c JSONCodec[K, D]) Format() Format {
	return FormatJSON
}

func (c JSONCodec[K, D]) Encode(entries Nodes[K, D]) ([]byte, error) {
	keys := newKeyCodec[K]()

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := keys.encode(entry.ID)
		if err != nil {
			return nil, err
		}
		edges := entry.Node.Edges
		if edges == nil {
			edges = []K{}
		}
		value, err := json.Marshal(Node[K, D]{Data: entry.Node.Data, Edges: edges})
		if err != nil {
			return nil, fmt.Errorf("node %v: %w", entry.ID, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	if c.Indent == "" {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", c.Indent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func (c JSONCodec[K, D]) Decode(document []byte) (Nodes[K, D], error) {
	keys := newKeyCodec[K]()
	dec := json.NewDecoder(bytes.NewReader(document))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	entries := make(Nodes[K, D], 0)
	for dec.More() {
		id, err := keys.next(dec)
		if err != nil {
			return nil, err
		}
		var raw jsonNode[D]
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("node %v: %w", id, err)
		}
		edges, err := decodeEdges(keys, raw.Edges)
		if err != nil {
			return nil, fmt.Errorf("node %v edges: %w", id, err)
		}
		entries = append(entries, Entry[K, D]{ID: id, Node: Node[K, D]{Data: raw.Data, Edges: edges}})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after graph document")
	}
	return entries, nil
}

// decodeEdges accepts either a list of ids or an object whose keys are ids,
// the latter being how older documents stored edge sets.
func decodeEdges[K comparable](keys keyCodec[K], raw json.RawMessage) ([]K, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []K{}, nil
	}
	switch raw[0] {
	case '[':
		var edges []K
		if err := json.Unmarshal(raw, &edges); err != nil {
			return nil, err
		}
		return edges, nil
	case '{':
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		edges := make([]K, 0)
		for dec.More() {
			id, err := keys.next(dec)
			if err != nil {
				return nil, err
			}
			var present bool
			if err := dec.Decode(&present); err != nil {
				return nil, fmt.Errorf("edge %v: %w", id, err)
			}
			if present {
				edges = append(edges, id)
			}
		}
		return edges, expectDelim(dec, '}')
	default:
		return nil, fmt.Errorf("edges must be a list or an object, got %s", raw)
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// keyCodec maps ids to JSON object keys. Ids whose JSON form is a string are
// used as is; any other JSON value is used as its text.
type keyCodec[K comparable] struct {
	quoted bool
}

func newKeyCodec[K comparable]() keyCodec[K] {
	var zero K
	b, err := json.Marshal(zero)
	return keyCodec[K]{quoted: err == nil && len(b) > 0 && b[0] == '"'}
}

// encode refuses ids that would come back as something else on decode, such
// as strings with invalid UTF-8 or numbers held in an interface-typed id.
func (c keyCodec[K]) encode(id K) ([]byte, error) {
	if v := reflect.ValueOf(id); v.Kind() == reflect.String && !utf8.ValidString(v.String()) {
		return nil, fmt.Errorf("node id %q is not valid UTF-8", v.String())
	}
	b, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("node id %v: %w", id, err)
	}
	if !c.quoted {
		if b, err = json.Marshal(string(b)); err != nil {
			return nil, err
		}
	}

	var key string
	if err := json.Unmarshal(b, &key); err != nil {
		return nil, err
	}
	back, err := c.decode(key)
	if err != nil {
		return nil, err
	}
	if back != id {
		return nil, fmt.Errorf("node id %v (%T) reads back as %v (%T)", id, id, back, back)
	}
	return b, nil
}

func (c keyCodec[K]) decode(key string) (id K, err error) {
	raw := []byte(key)
	if c.quoted {
		if raw, err = json.Marshal(key); err != nil {
			return id, err
		}
	}
	if err = json.Unmarshal(raw, &id); err != nil {
		return id, fmt.Errorf("node id %q: %w", key, err)
	}
	return id, nil
}

func (c keyCodec[K]) next(dec *json.Decoder) (id K, err error) {
	tok, err := dec.Token()
	if err != nil {
		return id, err
	}
	key, ok := tok.(string)
	if !ok {
		return id, fmt.Errorf("expected node id, got %v", tok)
	}
	return c.decode(key)
}
