package graph

// NodeType is the closed set of node variants the renderer consumes.
// Consumers are expected to switch over all three values.
type NodeType string

const (
	NodeTypeCapture NodeType = "Capture"
	NodeTypeTag     NodeType = "Tag"
	NodeTypeEntity  NodeType = "Entity"
)

// FriendAuthor marks capture nodes that were fetched from another
// identity rather than authored locally.
const FriendAuthor = "friend"

// Node is the rendering-facing projection of a capture, tag or entity
type Node struct {
	ID     string   `json:"id"`
	Type   NodeType `json:"type"`
	Text   string   `json:"text"`
	Author string   `json:"author,omitempty"`
}

// Edge connects a capture to a tag or entity derived from its text
type Edge struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// Data is the {nodes, edges} structure consumed by the visualization
// layer.
type Data struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Empty returns a graph with no nodes or edges
func Empty() Data {
	return Data{Nodes: []Node{}, Edges: []Edge{}}
}
