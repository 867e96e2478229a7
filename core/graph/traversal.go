package graph

import (
	"fmt"

	"github.com/siherrmann/kgview/core/pipeline"
	"github.com/siherrmann/kgview/model"
)

// TraversalResult contains a node and its distance from the source
type TraversalResult struct {
	Node     *model.GraphNode
	NodeID   string
	Distance int
	Path     []string // Path from source to this node
}

// adjacency is the undirected neighbor list of a converted graph.
// Neighbors keep link order so traversals are deterministic.
type adjacency struct {
	nodes     map[string]*model.GraphNode
	neighbors map[string][]string
}

func newAdjacency(g *model.ConvertedGraph, linkTypes []string) *adjacency {
	a := &adjacency{
		nodes:     make(map[string]*model.GraphNode, len(g.Nodes)),
		neighbors: make(map[string][]string, len(g.Nodes)),
	}
	for i := range g.Nodes {
		if _, ok := a.nodes[g.Nodes[i].ID]; !ok {
			a.nodes[g.Nodes[i].ID] = &g.Nodes[i]
		}
	}

	allowed := make(map[string]bool, len(linkTypes))
	for _, t := range linkTypes {
		allowed[t] = true
	}
	for _, link := range g.Links {
		if len(allowed) > 0 && !allowed[link.Type] {
			continue
		}
		a.neighbors[link.Source] = append(a.neighbors[link.Source], link.Target)
		if link.Source != link.Target {
			a.neighbors[link.Target] = append(a.neighbors[link.Target], link.Source)
		}
	}
	return a
}

func (a *adjacency) node(id string) (*model.GraphNode, error) {
	node, ok := a.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %q not found", id)
	}
	return node, nil
}

// BFS performs breadth-first search from a source node, ignoring link
// direction. Only links of the given types are followed, all if none given.
func BFS(g *model.ConvertedGraph, sourceID string, maxHops int, linkTypes ...string) ([]*TraversalResult, error) {
	a := newAdjacency(g, linkTypes)

	sourceNode, err := a.node(sourceID)
	if err != nil {
		return nil, err
	}

	visited := map[string]bool{sourceID: true}
	queue := []TraversalResult{{
		Node:     sourceNode,
		NodeID:   sourceID,
		Distance: 0,
		Path:     []string{sourceID},
	}}

	var results []*TraversalResult
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		results = append(results, &current)

		if current.Distance >= maxHops {
			continue
		}

		for _, targetID := range a.neighbors[current.NodeID] {
			if visited[targetID] {
				continue
			}
			targetNode, err := a.node(targetID)
			if err != nil {
				continue // Dangling endpoint of an unrepaired graph
			}
			visited[targetID] = true

			newPath := make([]string, len(current.Path), len(current.Path)+1)
			copy(newPath, current.Path)
			newPath = append(newPath, targetID)

			queue = append(queue, TraversalResult{
				Node:     targetNode,
				NodeID:   targetID,
				Distance: current.Distance + 1,
				Path:     newPath,
			})
		}
	}

	return results, nil
}

// DFS performs depth-first search from a source node, ignoring link direction.
func DFS(g *model.ConvertedGraph, sourceID string, maxHops int, linkTypes ...string) ([]*TraversalResult, error) {
	a := newAdjacency(g, linkTypes)

	sourceNode, err := a.node(sourceID)
	if err != nil {
		return nil, err
	}

	visited := make(map[string]bool)
	var results []*TraversalResult
	dfsRecursive(a, sourceNode, 0, maxHops, []string{sourceID}, visited, &results)

	return results, nil
}

func dfsRecursive(
	a *adjacency,
	current *model.GraphNode,
	distance int,
	maxHops int,
	path []string,
	visited map[string]bool,
	results *[]*TraversalResult,
) {
	visited[current.ID] = true

	pathCopy := make([]string, len(path))
	copy(pathCopy, path)
	*results = append(*results, &TraversalResult{
		Node:     current,
		NodeID:   current.ID,
		Distance: distance,
		Path:     pathCopy,
	})

	if distance >= maxHops {
		return
	}

	for _, targetID := range a.neighbors[current.ID] {
		if visited[targetID] {
			continue
		}
		targetNode, err := a.node(targetID)
		if err != nil {
			continue
		}

		newPath := make([]string, len(path), len(path)+1)
		copy(newPath, path)
		newPath = append(newPath, targetID)

		dfsRecursive(a, targetNode, distance+1, maxHops, newPath, visited, results)
	}
}

// GetNeighbors retrieves immediate neighbors (1-hop) of a node
func GetNeighbors(g *model.ConvertedGraph, nodeID string, linkTypes ...string) ([]*model.GraphNode, error) {
	results, err := BFS(g, nodeID, 1, linkTypes...)
	if err != nil {
		return nil, err
	}

	// Skip the source node itself (first result)
	neighbors := make([]*model.GraphNode, 0, len(results)-1)
	for i := 1; i < len(results); i++ {
		neighbors = append(neighbors, results[i].Node)
	}

	return neighbors, nil
}

// Components groups node ids into connected components, ignoring link
// direction. Components are ordered by their first node, ids within a
// component by node order.
func Components(g *model.ConvertedGraph) [][]string {
	a := newAdjacency(g, nil)

	component := make(map[string]int, len(a.nodes))
	var components [][]string
	for _, node := range g.Nodes {
		if _, ok := component[node.ID]; ok {
			continue
		}

		index := len(components)
		component[node.ID] = index
		stack := []string{node.ID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range a.neighbors[id] {
				if _, ok := a.nodes[next]; !ok {
					continue
				}
				if _, ok := component[next]; ok {
					continue
				}
				component[next] = index
				stack = append(stack, next)
			}
		}
		components = append(components, nil)
	}

	listed := make(map[string]bool, len(component))
	for _, node := range g.Nodes {
		if listed[node.ID] {
			continue
		}
		listed[node.ID] = true
		index := component[node.ID]
		components[index] = append(components[index], node.ID)
	}
	return components
}

// IsolatedNodes returns the ids of nodes no link touches, in node order.
func IsolatedNodes(g *model.ConvertedGraph) []string {
	touched := make(map[string]bool, len(g.Nodes))
	for _, link := range g.Links {
		touched[link.Source] = true
		touched[link.Target] = true
	}

	isolated := []string{}
	for _, node := range g.Nodes {
		if !touched[node.ID] {
			isolated = append(isolated, node.ID)
		}
	}
	return isolated
}

// Neighborhood returns the subgraph of nodes within hops of nodeID, with
// the links among them. Groups and link values are kept from g, the
// metadata is recomputed for the subgraph.
func Neighborhood(g *model.ConvertedGraph, nodeID string, hops int) (*model.ConvertedGraph, error) {
	results, err := BFS(g, nodeID, hops)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(results))
	for _, result := range results {
		keep[result.NodeID] = true
	}

	sub := &model.ConvertedGraph{
		Nodes: make([]model.GraphNode, 0, len(results)),
		Links: []model.GraphLink{},
	}
	added := make(map[string]bool, len(results))
	for _, node := range g.Nodes {
		if keep[node.ID] && !added[node.ID] {
			added[node.ID] = true
			sub.Nodes = append(sub.Nodes, node)
		}
	}
	for _, link := range g.Links {
		if keep[link.Source] && keep[link.Target] {
			sub.Links = append(sub.Links, link)
		}
	}

	sub.Metadata = pipeline.Summarize(sub.Nodes, sub.Links, pipeline.Counters{}, g.Metadata.Source, g.Metadata.GeneratedAt)
	sub.Metadata.Fallback = g.Metadata.Fallback
	sub.Metadata.FallbackReason = g.Metadata.FallbackReason
	return sub, nil
}
