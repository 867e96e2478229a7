package model

import "time"

// FallbackGroup is the group of a node whose type is missing from the
// taxonomy. It never collides with a real taxonomy index.
const FallbackGroup = -1

// GraphNode is a renderable node. ID is unique within a converted graph.
type GraphNode struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Observations []string `json:"observations"`
	Group        int      `json:"group"`
	Placeholder  bool     `json:"placeholder,omitempty"`
}

// GraphLink is a renderable link. Value is the frequency of its type.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Value  int    `json:"value"`
}

// GraphMetadata describes a converted graph. It is never read back by the
// conversion itself.
type GraphMetadata struct {
	NodeCount        int       `json:"nodeCount"`
	LinkCount        int       `json:"linkCount"`
	EntityTypes      []string  `json:"entityTypes"`
	RelationTypes    []string  `json:"relationTypes"`
	PlaceholderCount int       `json:"placeholderCount"`
	SkippedRecords   int       `json:"skippedRecords"`
	IgnoredRecords   int       `json:"ignoredRecords"`
	DuplicateNodes   int       `json:"duplicateNodes"`
	Fallback         bool      `json:"fallback,omitempty"`
	FallbackReason   string    `json:"fallbackReason,omitempty"`
	Source           string    `json:"source,omitempty"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

// ConvertedGraph is the output consumed by the renderer.
type ConvertedGraph struct {
	Nodes    []GraphNode   `json:"nodes"`
	Links    []GraphLink   `json:"links"`
	Metadata GraphMetadata `json:"metadata"`
}

// NodeIndex maps node ids to their position in Nodes.
// For duplicate ids the first position wins.
func (g *ConvertedGraph) NodeIndex() map[string]int {
	index := make(map[string]int, len(g.Nodes))
	for i, node := range g.Nodes {
		if _, ok := index[node.ID]; !ok {
			index[node.ID] = i
		}
	}
	return index
}

// DanglingReference is a link endpoint naming a node that does not exist.
type DanglingReference struct {
	Link     int    `json:"link"`
	Endpoint string `json:"endpoint"`
	ID       string `json:"id"`
}

// IntegrityReport is the outcome of checking a graph without repairing it.
type IntegrityReport struct {
	Valid              bool                `json:"valid"`
	DanglingReferences []DanglingReference `json:"danglingReferences"`
	MissingIDs         []string            `json:"missingIds"`
	DuplicateIDs       []string            `json:"duplicateIds"`
	Skipped            []string            `json:"skipped"`
	IgnoredRecords     int                 `json:"ignoredRecords"`
	Components         int                 `json:"components"`
	IsolatedNodes      []string            `json:"isolatedNodes"`
}
