package database

import (
	"context"
	"testing"

	"github.com/siherrmann/kgview/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphStore(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	store, err := NewGraphStore(database, true)
	require.NoError(t, err, "Expected NewGraphStore to not return an error")
	truncate(t, database, "entities", "relations")

	t.Run("Import graph", func(t *testing.T) {
		result, err := store.ImportGraph(ctx, &model.RawGraph{
			Entities: []model.RawEntity{
				{Name: "A"},
				{Name: "B", EntityType: "Person", Observations: []string{"likes tea"}},
			},
			Relations: []model.RawRelation{
				{From: "B", To: "C", RelationType: "knows"},
			},
		})

		assert.NoError(t, err, "Expected ImportGraph to not return an error")
		assert.Equal(t, &ImportResult{Entities: 2, Relations: 1}, result)
	})

	t.Run("Select graph keeps insertion order and dangling references", func(t *testing.T) {
		graph, err := store.SelectGraph(ctx)

		assert.NoError(t, err, "Expected SelectGraph to not return an error")
		require.Len(t, graph.Entities, 2)
		assert.Equal(t, "A", graph.Entities[0].Name)
		assert.Equal(t, "", graph.Entities[0].EntityType)
		assert.Equal(t, []string{}, graph.Entities[0].Observations)
		assert.Equal(t, "B", graph.Entities[1].Name)
		assert.Equal(t, []string{"likes tea"}, graph.Entities[1].Observations)
		require.Len(t, graph.Relations, 1)
		assert.Equal(t, model.RawRelation{Type: model.RecordKindRelation, From: "B", To: "C", RelationType: "knows"}, graph.Relations[0])
	})

	t.Run("Reimport merges entities", func(t *testing.T) {
		_, err := store.ImportGraph(ctx, &model.RawGraph{
			Entities: []model.RawEntity{{Name: "B", Observations: []string{"drinks coffee"}}},
		})
		require.NoError(t, err)

		graph, err := store.SelectGraph(ctx)
		require.NoError(t, err)
		require.Len(t, graph.Entities, 2, "Expected no duplicate entity")
		assert.Equal(t, "Person", graph.Entities[1].EntityType)
		assert.Equal(t, []string{"likes tea", "drinks coffee"}, graph.Entities[1].Observations)
	})

	t.Run("Failing record rolls back the import", func(t *testing.T) {
		result, err := store.ImportGraph(ctx, &model.RawGraph{
			Entities: []model.RawEntity{
				{Name: "Rollback"},
				{Name: "Broken\x00Name"},
			},
		})

		assert.Error(t, err, "Expected ImportGraph to fail on a name Postgres cannot store")
		assert.Nil(t, result)

		_, err = store.Entities.SelectEntityByName(ctx, "Rollback")
		assert.Error(t, err, "Expected the entity written before the failure to be rolled back")

		graph, err := store.SelectGraph(ctx)
		require.NoError(t, err)
		assert.Len(t, graph.Entities, 2, "Expected the stored graph to be unchanged")
	})

	t.Run("Import nil graph", func(t *testing.T) {
		result, err := store.ImportGraph(ctx, nil)
		assert.NoError(t, err)
		assert.Equal(t, &ImportResult{}, result)
	})
}
