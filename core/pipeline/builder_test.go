package pipeline

import (
	"testing"

	"github.com/siherrmann/kgview/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNodes(t *testing.T) {
	t.Run("Group indices follow the taxonomy", func(t *testing.T) {
		entities := entitiesOfTypes("A", "B", "A", "C")
		taxonomy := ExtractTaxonomy(entities, "Unknown")

		nodes := BuildNodes(entities, taxonomy, "Unknown")

		require.Len(t, nodes, 4)
		groups := []int{nodes[0].Group, nodes[1].Group, nodes[2].Group, nodes[3].Group}
		assert.Equal(t, []int{0, 1, 0, 2}, groups)
	})

	t.Run("Defaults type and observations", func(t *testing.T) {
		entities := []model.RawEntity{{Name: "A"}}
		nodes := BuildNodes(entities, ExtractTaxonomy(entities, "Unknown"), "Unknown")

		require.Len(t, nodes, 1)
		assert.Equal(t, "A", nodes[0].ID)
		assert.Equal(t, "Unknown", nodes[0].Type)
		assert.Equal(t, []string{}, nodes[0].Observations)
		assert.False(t, nodes[0].Placeholder)
	})

	t.Run("Type missing from taxonomy gets the fallback group", func(t *testing.T) {
		taxonomy := ExtractTaxonomy(entitiesOfTypes("A"), "Unknown")

		nodes := BuildNodes([]model.RawEntity{{Name: "x", EntityType: "B"}}, taxonomy, "Unknown")

		assert.Equal(t, model.FallbackGroup, nodes[0].Group)
	})

	t.Run("Duplicates are kept in input order", func(t *testing.T) {
		entities := []model.RawEntity{{Name: "A", EntityType: "T1"}, {Name: "A", EntityType: "T2"}}
		nodes := BuildNodes(entities, ExtractTaxonomy(entities, "Unknown"), "Unknown")

		require.Len(t, nodes, 2)
		assert.Equal(t, "T1", nodes[0].Type)
		assert.Equal(t, "T2", nodes[1].Type)
	})

	t.Run("Observations are copied", func(t *testing.T) {
		entities := []model.RawEntity{{Name: "A", Observations: []string{"one"}}}
		nodes := BuildNodes(entities, ExtractTaxonomy(entities, "Unknown"), "Unknown")

		entities[0].Observations[0] = "changed"
		assert.Equal(t, []string{"one"}, nodes[0].Observations)
	})
}

func TestBuildLinks(t *testing.T) {
	t.Run("Values are the relation type frequency", func(t *testing.T) {
		relations := []model.RawRelation{
			{From: "a", To: "b", RelationType: "likes"},
			{From: "b", To: "c", RelationType: "likes"},
			{From: "c", To: "a", RelationType: "knows"},
		}

		links := BuildLinks(relations, ExtractRelationWeights(relations))

		require.Len(t, links, 3)
		assert.Equal(t, model.GraphLink{Source: "a", Target: "b", Type: "likes", Value: 2}, links[0])
		assert.Equal(t, 2, links[1].Value)
		assert.Equal(t, 1, links[2].Value)
	})

	t.Run("No relations gives an empty, non-nil list", func(t *testing.T) {
		links := BuildLinks(nil, ExtractRelationWeights(nil))
		assert.NotNil(t, links)
		assert.Empty(t, links)
	})
}
