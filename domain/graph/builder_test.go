package graph

import (
	"testing"
	"time"

	"tangle-backend/domain/capture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ownedCapture(id, text string) capture.Capture {
	return capture.Capture{ID: id, Text: text, CreatedAt: time.Now(), Owner: true}
}

func TestBuild_SingleTaggedCapture(t *testing.T) {
	// Arrange
	builder := NewBuilder(nil)
	captures := []capture.Capture{ownedCapture("1", "Learned #rust today")}

	// Act
	data := builder.Build(captures)

	// Assert
	require.Len(t, data.Nodes, 2)
	assert.Equal(t, Node{ID: "1", Type: NodeTypeCapture, Text: "Learned #rust today"}, data.Nodes[0])
	assert.Equal(t, Node{ID: "Tag|rust", Type: NodeTypeTag, Text: "rust"}, data.Nodes[1])

	require.Len(t, data.Edges, 1)
	assert.Equal(t, Edge{Source: "1", Destination: "Tag|rust"}, data.Edges[0])
}

func TestBuild_SharedTagConvergesOnOneNode(t *testing.T) {
	builder := NewBuilder(nil)
	captures := []capture.Capture{
		ownedCapture("1", "#Rust is fun"),
		ownedCapture("2", "more #rust notes"),
	}

	data := builder.Build(captures)

	// Two capture nodes plus a single tag node for both casings
	require.Len(t, data.Nodes, 3)
	assert.Equal(t, "Tag|rust", data.Nodes[2].ID)

	require.Len(t, data.Edges, 2)
	assert.Equal(t, Edge{Source: "1", Destination: "Tag|rust"}, data.Edges[0])
	assert.Equal(t, Edge{Source: "2", Destination: "Tag|rust"}, data.Edges[1])
}

func TestBuild_RepeatedTagInOneCaptureEmitsOneEdge(t *testing.T) {
	builder := NewBuilder(nil)
	captures := []capture.Capture{ownedCapture("1", "#go #Go #GO")}

	data := builder.Build(captures)

	require.Len(t, data.Edges, 1)
	assert.Equal(t, Edge{Source: "1", Destination: "Tag|go"}, data.Edges[0])
}

func TestBuild_FriendAuthorMarked(t *testing.T) {
	builder := NewBuilder(nil)
	captures := []capture.Capture{
		ownedCapture("mine", "my note"),
		{ID: "theirs", Text: "friend note", CreatedAt: time.Now(), Owner: false},
	}

	data := builder.Build(captures)

	assert.Equal(t, "", data.Nodes[0].Author)
	assert.Equal(t, FriendAuthor, data.Nodes[1].Author)
}

func TestBuild_EntitiesFromTopicExtractor(t *testing.T) {
	// Arrange
	extractor := TopicExtractorFunc(func(text string) []string {
		return []string{"Graph Theory", "graph theory"}
	})
	builder := NewBuilder(extractor)
	captures := []capture.Capture{ownedCapture("1", "reading about graph theory")}

	// Act
	data := builder.Build(captures)

	// Assert: both casings converge on one entity node
	require.Len(t, data.Nodes, 2)
	assert.Equal(t, Node{ID: "Entity|graph theory", Type: NodeTypeEntity, Text: "graph theory"}, data.Nodes[1])

	require.Len(t, data.Edges, 1)
	assert.Equal(t, Edge{Source: "1", Destination: "Entity|graph theory"}, data.Edges[0])
}

func TestBuild_NodeOrderingCapturesTagsEntities(t *testing.T) {
	extractor := TopicExtractorFunc(func(text string) []string {
		return []string{"topic"}
	})
	builder := NewBuilder(extractor)
	captures := []capture.Capture{ownedCapture("1", "note with #tag")}

	data := builder.Build(captures)

	require.Len(t, data.Nodes, 3)
	assert.Equal(t, NodeTypeCapture, data.Nodes[0].Type)
	assert.Equal(t, NodeTypeTag, data.Nodes[1].Type)
	assert.Equal(t, NodeTypeEntity, data.Nodes[2].Type)
}

func TestBuild_Deterministic(t *testing.T) {
	extractor := TopicExtractorFunc(func(text string) []string {
		return ExtractTags(text) // any stable function of the text
	})
	builder := NewBuilder(extractor)
	captures := []capture.Capture{
		ownedCapture("1", "#alpha #beta shared"),
		ownedCapture("2", "#beta #gamma shared"),
		ownedCapture("3", "#gamma #alpha shared"),
	}

	first := builder.Build(captures)
	second := builder.Build(captures)

	assert.Equal(t, first, second)
}

func TestBuild_NoDanglingEdges(t *testing.T) {
	builder := NewBuilder(nil)
	captures := []capture.Capture{
		ownedCapture("1", "#shared one"),
		ownedCapture("2", "#shared two"),
	}

	// A filtered subset, as search produces
	data := builder.Build(captures[:1])

	present := map[string]struct{}{}
	for _, n := range data.Nodes {
		if n.Type == NodeTypeCapture {
			present[n.ID] = struct{}{}
		}
	}
	for _, e := range data.Edges {
		_, ok := present[e.Source]
		assert.True(t, ok, "edge source %s not in working set", e.Source)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	builder := NewBuilder(nil)

	data := builder.Build(nil)

	assert.Empty(t, data.Nodes)
	assert.Empty(t, data.Edges)
}
