package memgraph

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// Save encodes the whole graph and writes it to w. The document is fully
// encoded before the first byte is written; a failed write is not rolled back.
func (g *MemoryGraph[K, D]) Save(w io.Writer) (err error) {
	document, err := g.codec.Encode(g.All())
	if err != nil {
		return &EncodeError{Format: string(g.codec.Format()), Err: err}
	}
	if _, err = io.Copy(w, bytes.NewReader(document)); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	g.log.Info("graph saved", "nodes", len(g.order), "bytes", len(document))
	return nil
}

// Load reads r to the end and replaces the graph with its content. On any
// error the graph is left as it was.
func (g *MemoryGraph[K, D]) Load(r io.Reader) (err error) {
	document, err := io.ReadAll(r)
	if err != nil {
		return &IOError{Op: "read", Err: err}
	}
	entries, err := g.codec.Decode(document)
	if err != nil {
		return &ParseError{Format: string(g.codec.Format()), Err: err}
	}

	order, nodes, err := g.build(entries)
	if err != nil {
		return err
	}
	g.order = order
	g.nodes = nodes
	g.log.Info("graph loaded", "nodes", len(order))
	return nil
}

// SaveFile writes the graph next to path and renames it into place, so path
// holds either the previous document or the complete new one.
func (g *MemoryGraph[K, D]) SaveFile(path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &IOError{Op: "create", Err: err}
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return &IOError{Op: "chmod", Err: err}
	}
	if err = g.Save(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return &IOError{Op: "sync", Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &IOError{Op: "close", Err: err}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return &IOError{Op: "rename", Err: err}
	}
	g.log.Debug("graph file replaced", "path", path)
	return nil
}

func (g *MemoryGraph[K, D]) LoadFile(path string) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return &IOError{Op: "open", Err: err}
	}
	defer f.Close()
	return g.Load(f)
}

func (g *MemoryGraph[K, D]) build(entries Nodes[K, D]) ([]K, map[K]*record[K, D], error) {
	order := make([]K, 0, len(entries))
	nodes := make(map[K]*record[K, D], len(entries))
	for _, entry := range entries {
		if _, exists := nodes[entry.ID]; exists {
			if !g.opts.SkipValidation {
				return nil, nil, &ValidationError{ID: entry.ID, Err: ErrDuplicateNode}
			}
			g.log.Warn("duplicate node in graph document, keeping the last one", "id", entry.ID)
		} else {
			order = append(order, entry.ID)
		}
		r := newRecord[K, D](entry.Node.Data)
		for _, neighbor := range entry.Node.Edges {
			r.link(neighbor)
		}
		nodes[entry.ID] = r
	}

	if g.opts.SkipValidation {
		return order, nodes, nil
	}
	for _, id := range order {
		for _, neighbor := range nodes[id].edges {
			if neighbor == id {
				return nil, nil, &ValidationError{ID: id, Neighbor: neighbor, Err: ErrSelfLoop}
			}
			other, exists := nodes[neighbor]
			if !exists {
				return nil, nil, &ValidationError{ID: id, Neighbor: neighbor, Err: ErrDanglingEdge}
			}
			if !other.linked(id) {
				return nil, nil, &ValidationError{ID: id, Neighbor: neighbor, Err: ErrAsymmetricEdge}
			}
		}
	}
	return order, nodes, nil
}
