package pipeline

import (
	"testing"

	"github.com/siherrmann/kgview/model"
	"github.com/stretchr/testify/assert"
)

func entitiesOfTypes(types ...string) []model.RawEntity {
	entities := make([]model.RawEntity, 0, len(types))
	for i, entityType := range types {
		entities = append(entities, model.RawEntity{Name: string(rune('a' + i)), EntityType: entityType})
	}
	return entities
}

func TestExtractTaxonomy(t *testing.T) {
	t.Run("First-seen order, not sorted", func(t *testing.T) {
		taxonomy := ExtractTaxonomy(entitiesOfTypes("Person", "City", "Person", "Animal"), "Unknown")

		assert.Equal(t, []string{"Person", "City", "Animal"}, taxonomy.Types())
		assert.Equal(t, 3, taxonomy.Len())
	})

	t.Run("Missing type counts as unknown", func(t *testing.T) {
		taxonomy := ExtractTaxonomy(entitiesOfTypes("", "Person", ""), "Unknown")

		assert.Equal(t, []string{"Unknown", "Person"}, taxonomy.Types())
		index, ok := taxonomy.Index("Unknown")
		assert.True(t, ok)
		assert.Equal(t, 0, index)
	})

	t.Run("Unseen type is not found", func(t *testing.T) {
		taxonomy := ExtractTaxonomy(entitiesOfTypes("A"), "Unknown")

		_, ok := taxonomy.Index("B")
		assert.False(t, ok)
	})

	t.Run("Types returns a copy", func(t *testing.T) {
		taxonomy := ExtractTaxonomy(entitiesOfTypes("A", "B"), "Unknown")

		types := taxonomy.Types()
		types[0] = "changed"
		assert.Equal(t, []string{"A", "B"}, taxonomy.Types())
	})

	t.Run("Repeated extraction yields identical order", func(t *testing.T) {
		entities := entitiesOfTypes("z", "y", "x", "y", "w")
		assert.Equal(t, ExtractTaxonomy(entities, "Unknown").Types(), ExtractTaxonomy(entities, "Unknown").Types())
	})
}

func TestExtractRelationWeights(t *testing.T) {
	relations := []model.RawRelation{
		{From: "a", To: "b", RelationType: "likes"},
		{From: "b", To: "c", RelationType: "likes"},
		{From: "c", To: "a", RelationType: "knows"},
		{From: "c", To: "a", RelationType: "Knows"},
	}

	t.Run("Counts exact relation types", func(t *testing.T) {
		weights := ExtractRelationWeights(relations)

		assert.Equal(t, 2, weights.Weight("likes"))
		assert.Equal(t, 1, weights.Weight("knows"))
		assert.Equal(t, 1, weights.Weight("Knows"), "Expected case-sensitive counting")
	})

	t.Run("Unseen type weighs zero", func(t *testing.T) {
		assert.Equal(t, 0, ExtractRelationWeights(relations).Weight("hates"))
	})

	t.Run("Types are first-seen ordered", func(t *testing.T) {
		assert.Equal(t, []string{"likes", "knows", "Knows"}, ExtractRelationWeights(relations).Types())
	})
}
