package memgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func newGraph(t *testing.T) *MemoryGraph[int, item] {
	t.Helper()
	graph, err := NewMemoryGraph[int, item](nil)
	require.NoError(t, err)
	return graph
}

// pathGraph builds 1-2-3 with nodes 1 and 3 of type A.
func pathGraph(t *testing.T) *MemoryGraph[int, item] {
	t.Helper()
	graph := newGraph(t)
	graph.AddNode(1, item{ID: 1, Name: "Node 1", Type: "A"})
	graph.AddNode(2, item{ID: 2, Name: "Node 2", Type: "B"})
	graph.AddNode(3, item{ID: 3, Name: "Node 3", Type: "A"})
	require.NoError(t, graph.AddEdge(1, 2))
	require.NoError(t, graph.AddEdge(2, 3))
	return graph
}

func Test_AddNodeIsIdempotent(t *testing.T) {
	graph := newGraph(t)

	assert.True(t, graph.AddNode(1, item{Name: "first"}))
	assert.True(t, graph.AddNode(2, item{Name: "other"}))
	require.NoError(t, graph.AddEdge(1, 2))
	assert.False(t, graph.AddNode(1, item{Name: "second"}))

	node, found := graph.Node(1)
	require.True(t, found)
	assert.Equal(t, "first", node.Data.Name)
	assert.Equal(t, []int{2}, node.Edges)
	assert.Equal(t, 2, graph.Len())
}

func Test_AddEdgeIsSymmetric(t *testing.T) {
	graph := pathGraph(t)

	for _, pair := range [][2]int{{1, 2}, {2, 3}} {
		a, _ := graph.Node(pair[0])
		b, _ := graph.Node(pair[1])
		assert.Contains(t, a.Edges, pair[1])
		assert.Contains(t, b.Edges, pair[0])
	}

	// adding again from the other side changes nothing
	require.NoError(t, graph.AddEdge(2, 1))
	node, _ := graph.Node(2)
	assert.Equal(t, []int{1, 3}, node.Edges)
}

func Test_AddEdgeMissingEndpoint(t *testing.T) {
	graph := pathGraph(t)

	err := graph.AddEdge(1, 42)
	require.ErrorIs(t, err, ErrNodeNotFound)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 42, notFound.ID)

	require.ErrorIs(t, graph.AddEdge(42, 1), ErrNodeNotFound)

	node, _ := graph.Node(1)
	assert.Equal(t, []int{2}, node.Edges)
	assert.False(t, graph.Has(42))
}

func Test_AddEdgeSelfLoop(t *testing.T) {
	graph := pathGraph(t)

	require.ErrorIs(t, graph.AddEdge(1, 1), ErrSelfLoop)
	node, _ := graph.Node(1)
	assert.Equal(t, []int{2}, node.Edges)
}

func Test_QueryAll(t *testing.T) {
	graph := pathGraph(t)

	result := graph.Query(Query[int, item]{})
	assert.Nil(t, result.Neighborhood)
	assert.Equal(t, []int{1, 2, 3}, result.Nodes.IDs())

	node, found := result.Nodes.Get(2)
	require.True(t, found)
	assert.Equal(t, []int{1, 3}, node.Edges)
}

func Test_QueryAllReturnsCopy(t *testing.T) {
	graph := pathGraph(t)

	dump := graph.All()
	dump[0].Node.Edges[0] = 99
	dump[0].Node.Data.Name = "changed"

	node, _ := graph.Node(1)
	assert.Equal(t, []int{2}, node.Edges)
	assert.Equal(t, "Node 1", node.Data.Name)
}

func Test_QueryPredicate(t *testing.T) {
	graph := pathGraph(t)

	var seen []int
	result := graph.Query(Matching[int](func(data item) bool {
		seen = append(seen, data.ID)
		return data.Type == "A"
	}))

	assert.Equal(t, []int{1, 2, 3}, seen, "predicate runs once per node in store order")
	assert.Nil(t, result.Neighborhood)
	assert.Equal(t, []int{1, 3}, result.Nodes.IDs())
	assert.Equal(t, map[int]Node[int, item]{
		1: {Data: item{ID: 1, Name: "Node 1", Type: "A"}, Edges: []int{2}},
		3: {Data: item{ID: 3, Name: "Node 3", Type: "A"}, Edges: []int{2}},
	}, result.Nodes.Map())

	none := graph.Filter(func(item) bool { return false })
	assert.Empty(t, none)
}

func Test_QueryByIDTakesPriority(t *testing.T) {
	graph := pathGraph(t)

	called := false
	id := 2
	result := graph.Query(Query[int, item]{
		ID: &id,
		Match: func(item) bool {
			called = true
			return true
		},
	})

	assert.False(t, called)
	assert.Nil(t, result.Nodes)
	require.NotNil(t, result.Neighborhood)
	assert.Equal(t, 2, result.Neighborhood.ID)
}

func Test_QueryUnknownID(t *testing.T) {
	graph := pathGraph(t)

	result := graph.Query(ByID[int, item](42))
	assert.Nil(t, result.Neighborhood)
	assert.Nil(t, result.Nodes)

	_, found := graph.Neighborhood(42)
	assert.False(t, found)
}

func Test_NeighborhoodTriangle(t *testing.T) {
	graph := pathGraph(t)

	neighborhood, found := graph.Neighborhood(2)
	require.True(t, found)
	assert.Equal(t, "Node 2", neighborhood.Node.Data.Name)
	assert.Equal(t, []int{1, 3}, neighborhood.Node.Edges)
	assert.Equal(t, []int{1, 3}, neighborhood.Edges)
	assert.Equal(t, []Mutual[int]{
		{ID: 1, Neighbors: []int{}},
		{ID: 3, Neighbors: []int{}},
	}, neighborhood.Mutual)

	require.NoError(t, graph.AddEdge(1, 3))

	neighborhood, found = graph.Neighborhood(2)
	require.True(t, found)
	assert.Equal(t, []Mutual[int]{
		{ID: 1, Neighbors: []int{3}},
		{ID: 3, Neighbors: []int{1}},
	}, neighborhood.Mutual)
}

func Test_NeighborhoodOnlyCountsTriangles(t *testing.T) {
	graph := newGraph(t)
	for id := 1; id <= 5; id++ {
		graph.AddNode(id, item{ID: id})
	}
	// 1 is the origin; 2 and 3 close a triangle with it, 4 hangs off 2 only
	require.NoError(t, graph.AddEdge(1, 2))
	require.NoError(t, graph.AddEdge(1, 3))
	require.NoError(t, graph.AddEdge(2, 3))
	require.NoError(t, graph.AddEdge(2, 4))
	require.NoError(t, graph.AddEdge(4, 5))

	neighborhood, found := graph.Neighborhood(1)
	require.True(t, found)
	assert.Equal(t, []Mutual[int]{
		{ID: 2, Neighbors: []int{3}},
		{ID: 3, Neighbors: []int{2}},
	}, neighborhood.Mutual)

	isolated, found := graph.Neighborhood(5)
	require.True(t, found)
	assert.Equal(t, []int{4}, isolated.Edges)
	assert.Equal(t, []Mutual[int]{{ID: 4, Neighbors: []int{}}}, isolated.Mutual)
}

func Test_StringIDs(t *testing.T) {
	graph, err := NewMemoryGraph[string, map[string]string](nil)
	require.NoError(t, err)

	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	graph.AddNode(a, map[string]string{"stuff": "things"})
	graph.AddNode(b, map[string]string{"dev": "test"})
	require.NoError(t, graph.AddEdge(a, b))

	neighborhood, found := graph.Neighborhood(a)
	require.True(t, found)
	assert.Equal(t, []string{b}, neighborhood.Edges)
}

func Test_UnknownFormat(t *testing.T) {
	_, err := NewMemoryGraph[int, item](&Options{Format: "xml"})
	require.Error(t, err)
}
