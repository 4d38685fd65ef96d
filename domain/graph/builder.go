package graph

import (
	"strings"

	"tangle-backend/domain/capture"
)

// TopicExtractor detects topic/entity names in capture text. It is a
// best-effort capability: implementations return an empty slice when
// detection fails, never an error.
type TopicExtractor interface {
	Topics(text string) []string
}

// TopicExtractorFunc adapts a plain function to the TopicExtractor
// interface.
type TopicExtractorFunc func(text string) []string

// Topics implements TopicExtractor
func (f TopicExtractorFunc) Topics(text string) []string {
	return f(text)
}

// Builder derives a renderable graph from a capture list. Tags and
// entities are recomputed from scratch on every build; nothing here
// survives a build pass or mutates the input slice.
type Builder struct {
	topics TopicExtractor
}

// NewBuilder creates a graph builder. A nil extractor yields graphs
// without entity nodes.
func NewBuilder(topics TopicExtractor) *Builder {
	return &Builder{topics: topics}
}

// Build projects captures to nodes, derives tag and entity groupings
// from their text, and emits one edge per (capture, grouping) pair.
// Given the same ordered capture list the output is identical: groups
// are accumulated in capture order and keyed by lowercased name, so
// two captures sharing a hashtag converge on one node.
func (b *Builder) Build(captures []capture.Capture) Data {
	nodes := make([]Node, 0, len(captures))
	present := make(map[string]struct{}, len(captures))
	for _, c := range captures {
		author := ""
		if !c.Owner {
			author = FriendAuthor
		}
		nodes = append(nodes, Node{
			ID:     c.ID,
			Type:   NodeTypeCapture,
			Text:   c.Text,
			Author: author,
		})
		present[c.ID] = struct{}{}
	}

	tags := newGroupIndex("Tag")
	entities := newGroupIndex("Entity")
	for _, c := range captures {
		for _, raw := range ExtractTags(c.Text) {
			tags.add(strings.ToLower(raw), c.ID)
		}
		if b.topics == nil {
			continue
		}
		for _, topic := range b.topics.Topics(c.Text) {
			name := strings.ToLower(strings.TrimSpace(topic))
			if name == "" {
				continue
			}
			entities.add(name, c.ID)
		}
	}

	for _, g := range tags.order {
		nodes = append(nodes, Node{ID: g.id, Type: NodeTypeTag, Text: g.name})
	}
	for _, g := range entities.order {
		nodes = append(nodes, Node{ID: g.id, Type: NodeTypeEntity, Text: g.name})
	}

	edges := make([]Edge, 0)
	edges = appendEdges(edges, tags, present)
	edges = appendEdges(edges, entities, present)

	return Data{Nodes: nodes, Edges: edges}
}

// appendEdges emits an edge for every (capture, group) membership
// whose capture is part of the working set. The membership check keeps
// filtered graphs free of dangling edges.
func appendEdges(edges []Edge, gi *groupIndex, present map[string]struct{}) []Edge {
	for _, g := range gi.order {
		for _, captureID := range g.captures {
			if _, ok := present[captureID]; !ok {
				continue
			}
			edges = append(edges, Edge{Source: captureID, Destination: g.id})
		}
	}
	return edges
}

// group accumulates the captures referencing one tag or entity name
type group struct {
	id       string
	name     string
	captures []string
	seen     map[string]struct{}
}

// groupIndex is an insertion-ordered collection of groups, keyed by
// normalized name. Iterating order instead of the map keeps builds
// deterministic.
type groupIndex struct {
	prefix string
	order  []*group
	byName map[string]*group
}

func newGroupIndex(prefix string) *groupIndex {
	return &groupIndex{
		prefix: prefix,
		byName: make(map[string]*group),
	}
}

func (gi *groupIndex) add(name, captureID string) {
	g, ok := gi.byName[name]
	if !ok {
		g = &group{
			id:   gi.prefix + "|" + name,
			name: name,
			seen: make(map[string]struct{}),
		}
		gi.byName[name] = g
		gi.order = append(gi.order, g)
	}
	if _, dup := g.seen[captureID]; dup {
		return
	}
	g.seen[captureID] = struct{}{}
	g.captures = append(g.captures, captureID)
}
