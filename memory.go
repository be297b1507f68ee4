package memgraph

import (
	"github.com/charmbracelet/log"
)

// MemoryGraph is an undirected graph held in memory. Edges are always stored in
// both directions and nodes keep their insertion order.
//
// A MemoryGraph is not safe for concurrent use; callers serialize access.
type MemoryGraph[K comparable, D any] struct {
	order []K
	nodes map[K]*record[K, D]
	codec Codec[K, D]
	opts  Options
	log   *log.Logger
}

var _ Graph[string, any] = (*MemoryGraph[string, any])(nil)

type record[K comparable, D any] struct {
	data  D
	edges []K
	set   map[K]struct{}
}

func newRecord[K comparable, D any](data D) *record[K, D] {
	return &record[K, D]{data: data, set: make(map[K]struct{})}
}

func (r *record[K, D]) link(id K) bool {
	if _, exists := r.set[id]; exists {
		return false
	}
	r.set[id] = struct{}{}
	r.edges = append(r.edges, id)
	return true
}

func (r *record[K, D]) linked(id K) bool {
	_, exists := r.set[id]
	return exists
}

func (r *record[K, D]) snapshot() Node[K, D] {
	edges := make([]K, len(r.edges))
	copy(edges, r.edges)
	return Node[K, D]{Data: r.data, Edges: edges}
}

func NewMemoryGraph[K comparable, D any](options *Options) (*MemoryGraph[K, D], error) {
	opts := options.withDefaults()
	codec, err := codecFor[K, D](opts)
	if err != nil {
		return nil, err
	}
	return &MemoryGraph[K, D]{
		nodes: make(map[K]*record[K, D]),
		codec: codec,
		opts:  opts,
		log:   opts.Logger,
	}, nil
}

// AddNode inserts a node and reports whether it was added. An id that is
// already present keeps its data and edges.
func (g *MemoryGraph[K, D]) AddNode(id K, data D) (added bool) {
	if _, exists := g.nodes[id]; exists {
		g.log.Debug("node already present", "id", id)
		return false
	}
	g.nodes[id] = newRecord[K, D](data)
	g.order = append(g.order, id)
	g.log.Debug("created node", "id", id)
	return true
}

// AddEdge links a and b in both directions. Nothing changes when either node
// is missing or when a and b are the same node.
func (g *MemoryGraph[K, D]) AddEdge(a K, b K) (err error) {
	if a == b {
		return ErrSelfLoop
	}
	left, exists := g.nodes[a]
	if !exists {
		return &NotFoundError{ID: a}
	}
	right, exists := g.nodes[b]
	if !exists {
		return &NotFoundError{ID: b}
	}

	if left.link(b) {
		g.log.Debug("created edge", "host", a, "target", b)
	}
	right.link(a)
	return nil
}

func (g *MemoryGraph[K, D]) Has(id K) bool {
	_, exists := g.nodes[id]
	return exists
}

func (g *MemoryGraph[K, D]) Len() int {
	return len(g.order)
}

func (g *MemoryGraph[K, D]) Node(id K) (node Node[K, D], found bool) {
	r, exists := g.nodes[id]
	if !exists {
		return node, false
	}
	return r.snapshot(), true
}

func (g *MemoryGraph[K, D]) Query(query Query[K, D]) Result[K, D] {
	if query.ID != nil {
		neighborhood, found := g.Neighborhood(*query.ID)
		if !found {
			return Result[K, D]{}
		}
		return Result[K, D]{Neighborhood: &neighborhood}
	}
	if query.Match != nil {
		return Result[K, D]{Nodes: g.Filter(query.Match)}
	}
	return Result[K, D]{Nodes: g.All()}
}

// All returns a copy of every node in insertion order.
func (g *MemoryGraph[K, D]) All() Nodes[K, D] {
	entries := make(Nodes[K, D], 0, len(g.order))
	for _, id := range g.order {
		entries = append(entries, Entry[K, D]{ID: id, Node: g.nodes[id].snapshot()})
	}
	return entries
}

// Filter calls match once per node in insertion order and returns the nodes
// whose data it accepted.
func (g *MemoryGraph[K, D]) Filter(match Predicate[D]) Nodes[K, D] {
	entries := make(Nodes[K, D], 0)
	for _, id := range g.order {
		r := g.nodes[id]
		if match(r.data) {
			entries = append(entries, Entry[K, D]{ID: id, Node: r.snapshot()})
		}
	}
	return entries
}

// Neighborhood returns the node, its direct neighbors and, for every neighbor,
// the neighbor's own neighbors that close a triangle with id.
func (g *MemoryGraph[K, D]) Neighborhood(id K) (neighborhood Neighborhood[K, D], found bool) {
	origin, exists := g.nodes[id]
	if !exists {
		return neighborhood, false
	}

	node := origin.snapshot()
	neighborhood = Neighborhood[K, D]{
		ID:     id,
		Node:   node,
		Edges:  append([]K{}, node.Edges...),
		Mutual: make([]Mutual[K], 0, len(node.Edges)),
	}
	for _, neighborID := range origin.edges {
		mutual := Mutual[K]{ID: neighborID, Neighbors: make([]K, 0)}
		// a dangling neighbor can only come from a document loaded without validation
		if neighbor, ok := g.nodes[neighborID]; ok {
			for _, candidate := range neighbor.edges {
				if origin.linked(candidate) {
					mutual.Neighbors = append(mutual.Neighbors, candidate)
				}
			}
		}
		neighborhood.Mutual = append(neighborhood.Mutual, mutual)
	}
	return neighborhood, true
}
