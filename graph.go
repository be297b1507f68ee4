package memgraph

import (
	"context"
	"io"
)

type Graph[K comparable, D any] interface {
	Store[K, D]
	Researcher[K, D]
	Persister
}

type Store[K comparable, D any] interface {
	AddNode(id K, data D) (added bool)
	AddEdge(a K, b K) (err error)
	Has(id K) bool
	Len() int
}

type Researcher[K comparable, D any] interface {
	Query(query Query[K, D]) Result[K, D]
	All() Nodes[K, D]
	Filter(match Predicate[D]) Nodes[K, D]
	Neighborhood(id K) (neighborhood Neighborhood[K, D], found bool)
}

// Persister round-trips a whole graph through a single document.
type Persister interface {
	Save(w io.Writer) (err error)
	Load(r io.Reader) (err error)
}

// SnapshotStore keeps whole graph documents under a name.
type SnapshotStore interface {
	Save(ctx context.Context, name string, graph Persister) (err error)
	Load(ctx context.Context, name string, graph Persister) (err error)
	Delete(ctx context.Context, name string) (err error)
	List(ctx context.Context) (names []string, err error)
}
