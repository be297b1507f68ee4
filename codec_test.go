package memgraph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_KeyCodec(t *testing.T) {
	ints := newKeyCodec[int]()
	key, err := ints.encode(42)
	require.NoError(t, err)
	assert.Equal(t, `"42"`, string(key))
	id, err := ints.decode("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	_, err = ints.decode("forty-two")
	assert.Error(t, err)

	strs := newKeyCodec[string]()
	key, err = strs.encode(`node "1"`)
	require.NoError(t, err)
	assert.Equal(t, `"node \"1\""`, string(key))
	sid, err := strs.decode(`node "1"`)
	require.NoError(t, err)
	assert.Equal(t, `node "1"`, sid)
	sid, err = strs.decode("7")
	require.NoError(t, err)
	assert.Equal(t, "7", sid)
}

func Test_JSONCodecCompact(t *testing.T) {
	codec := JSONCodec[string, int]{}
	document, err := codec.Encode(Nodes[string, int]{
		{ID: "b", Node: Node[string, int]{Data: 2, Edges: []string{"a"}}},
		{ID: "a", Node: Node[string, int]{Data: 1, Edges: []string{"b"}}},
		{ID: "c", Node: Node[string, int]{Data: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"b":{"data":2,"edges":["a"]},"a":{"data":1,"edges":["b"]},"c":{"data":3,"edges":[]}}`, string(document))

	entries, err := codec.Decode(document)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, entries.IDs(), "document order is kept")
	node, found := entries.Get("c")
	require.True(t, found)
	assert.Equal(t, []string{}, node.Edges)
}

func Test_JSONCodecMissingEdges(t *testing.T) {
	entries, err := JSONCodec[int, string]{}.Decode([]byte(`{"1": {"data": "x"}, "2": {"data": "y", "edges": null}}`))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []int{}, entries[0].Node.Edges)
	assert.Equal(t, []int{}, entries[1].Node.Edges)
}

func Test_JSONCodecLegacyEdgesSkipsFalse(t *testing.T) {
	entries, err := JSONCodec[int, string]{}.Decode([]byte(`{"1": {"data": "x", "edges": {"2": true, "3": false}}}`))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, entries[0].Node.Edges)
}

func Test_YAMLCodecDocument(t *testing.T) {
	codec := YAMLCodec[int, map[string]string]{}
	document, err := codec.Encode(Nodes[int, map[string]string]{
		{ID: 2, Node: Node[int, map[string]string]{Data: map[string]string{"type": "B"}, Edges: []int{1}}},
		{ID: 1, Node: Node[int, map[string]string]{Data: map[string]string{"type": "A"}, Edges: []int{2}}},
	})
	require.NoError(t, err)

	text := string(document)
	assert.True(t, strings.HasPrefix(text, "2:\n"), text)
	assert.Contains(t, text, "\n1:\n")
	assert.Contains(t, text, "type: B")
	assert.Less(t, strings.Index(text, "type: B"), strings.Index(text, "type: A"))

	entries, err := codec.Decode(document)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, entries.IDs())
	assert.Equal(t, "A", entries[1].Node.Data["type"])
}

func Test_YAMLCodecErrors(t *testing.T) {
	codec := YAMLCodec[int, string]{}

	entries, err := codec.Decode([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = codec.Decode([]byte("- 1\n- 2\n"))
	assert.Error(t, err)

	_, err = codec.Decode([]byte("one:\n  data: x\n"))
	assert.Error(t, err)

	_, err = codec.Decode([]byte("1: [unclosed\n"))
	assert.Error(t, err)
}

func Test_ParseFormat(t *testing.T) {
	for name, expected := range map[string]Format{
		"":      FormatJSON,
		"json":  FormatJSON,
		".json": FormatJSON,
		"YAML":  FormatYAML,
		".yml":  FormatYAML,
	} {
		format, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, format, name)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
