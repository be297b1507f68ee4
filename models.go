package memgraph

import (
	"github.com/google/uuid"
)

// Predicate is applied to a node's data during a filter query.
type Predicate[D any] func(data D) bool

type Node[K comparable, D any] struct {
	Data  D   `json:"data" yaml:"data"`
	Edges []K `json:"edges" yaml:"edges"`
}

type Entry[K comparable, D any] struct {
	ID   K
	Node Node[K, D]
}

// Nodes is an ordered copy of graph entries, in store insertion order.
type Nodes[K comparable, D any] []Entry[K, D]

func (n Nodes[K, D]) Get(id K) (node Node[K, D], found bool) {
	for _, entry := range n {
		if entry.ID == id {
			return entry.Node, true
		}
	}
	return node, false
}

func (n Nodes[K, D]) IDs() []K {
	ids := make([]K, 0, len(n))
	for _, entry := range n {
		ids = append(ids, entry.ID)
	}
	return ids
}

func (n Nodes[K, D]) Map() map[K]Node[K, D] {
	result := make(map[K]Node[K, D], len(n))
	for _, entry := range n {
		result[entry.ID] = entry.Node
	}
	return result
}

// Mutual lists the neighbors of ID that also neighbor the queried node.
type Mutual[K comparable] struct {
	ID        K   `json:"nodeId"`
	Neighbors []K `json:"neighbors"`
}

type Neighborhood[K comparable, D any] struct {
	ID     K           `json:"id"`
	Node   Node[K, D]  `json:"node"`
	Edges  []K         `json:"edges"`
	Mutual []Mutual[K] `json:"mutualNeighbors"`
}

// Query selects one of three modes. ID takes priority over Match; with neither
// set the whole graph is returned.
type Query[K comparable, D any] struct {
	ID    *K
	Match Predicate[D]
}

func ByID[K comparable, D any](id K) Query[K, D] {
	return Query[K, D]{ID: &id}
}

func Matching[K comparable, D any](match Predicate[D]) Query[K, D] {
	return Query[K, D]{Match: match}
}

type Result[K comparable, D any] struct {
	Nodes        Nodes[K, D]
	Neighborhood *Neighborhood[K, D]
}

func NewID() string {
	return uuid.NewString()
}
