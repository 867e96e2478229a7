package pipeline

import "github.com/siherrmann/kgview/model"

// BuildNodes maps entities to nodes in input order. Duplicate names are kept.
// A type missing from taxonomy gets model.FallbackGroup.
func BuildNodes(entities []model.RawEntity, taxonomy *Taxonomy, unknownType string) []model.GraphNode {
	nodes := make([]model.GraphNode, 0, len(entities))
	for _, e := range entities {
		entityType := typeOrDefault(e.EntityType, unknownType)

		group, ok := taxonomy.Index(entityType)
		if !ok {
			group = model.FallbackGroup
		}

		observations := make([]string, len(e.Observations))
		copy(observations, e.Observations)

		nodes = append(nodes, model.GraphNode{
			ID:           e.Name,
			Type:         entityType,
			Observations: observations,
			Group:        group,
		})
	}
	return nodes
}

// BuildLinks maps relations to links in input order, weighted by the
// frequency of their type.
func BuildLinks(relations []model.RawRelation, weights *RelationWeights) []model.GraphLink {
	links := make([]model.GraphLink, 0, len(relations))
	for _, r := range relations {
		links = append(links, model.GraphLink{
			Source: r.From,
			Target: r.To,
			Type:   r.RelationType,
			Value:  weights.Weight(r.RelationType),
		})
	}
	return links
}
