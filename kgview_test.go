package kgview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/siherrmann/kgview/core/pipeline"
	"github.com/siherrmann/kgview/database"
	"github.com/siherrmann/kgview/model"
	"github.com/siherrmann/kgview/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const examplePayload = `{
	"entities": [{"name": "A"}, {"name": "B", "entityType": "Person"}],
	"relations": [{"from": "B", "to": "C", "relationType": "knows"}]
}`

// memoryStore is an in-memory GraphStore
type memoryStore struct {
	graph     model.RawGraph
	selectErr error
}

func (m *memoryStore) SelectGraph(ctx context.Context) (*model.RawGraph, error) {
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	graph := m.graph
	return &graph, nil
}

func (m *memoryStore) ImportGraph(ctx context.Context, graph *model.RawGraph) (*database.ImportResult, error) {
	m.graph.Entities = append(m.graph.Entities, graph.Entities...)
	m.graph.Relations = append(m.graph.Relations, graph.Relations...)
	return &database.ImportResult{Entities: len(graph.Entities), Relations: len(graph.Relations)}, nil
}

func envelopeOf(t *testing.T, text string) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"result": map[string]any{
			"content": []map[string]any{{"type": "text", "text": text}},
		},
	})
	require.NoError(t, err)
	return b
}

func initKGView(t *testing.T) *KGView {
	return NewKGView(model.DefaultConvertConfig(), slog.New(slog.DiscardHandler))
}

func TestNewKGView(t *testing.T) {
	t.Run("Valid call NewKGView", func(t *testing.T) {
		k := NewKGView(model.DefaultConvertConfig(), nil)
		require.NotNil(t, k, "Expected NewKGView to return a non-nil instance")
		assert.NotNil(t, k.Pipeline, "Expected KGView to have a pipeline")
		assert.NotNil(t, k.log, "Expected KGView to have a default logger")
		assert.Nil(t, k.Store, "Expected store to be nil initially")
	})

	t.Run("KGView without database handles Close gracefully", func(t *testing.T) {
		k := &KGView{}
		assert.NoError(t, k.Close(), "Expected Close to handle nil DB gracefully")
	})
}

func TestConvert(t *testing.T) {
	k := initKGView(t)

	t.Run("Convert envelope", func(t *testing.T) {
		graph, err := k.Convert(envelopeOf(t, examplePayload))
		require.NoError(t, err, "Expected Convert to not return an error")
		assert.Len(t, graph.Nodes, 3)
		assert.Equal(t, 1, graph.Metadata.PlaceholderCount)
	})

	t.Run("Convert payload", func(t *testing.T) {
		graph, err := k.ConvertPayload([]byte(examplePayload))
		require.NoError(t, err, "Expected ConvertPayload to not return an error")
		assert.Len(t, graph.Links, 1)
	})

	t.Run("Convert auto detects envelopes and payloads", func(t *testing.T) {
		fromEnvelope, err := k.ConvertAuto(envelopeOf(t, examplePayload))
		require.NoError(t, err)
		fromPayload, err := k.ConvertAuto([]byte(examplePayload))
		require.NoError(t, err)

		assert.Equal(t, fromEnvelope.Nodes, fromPayload.Nodes)
		assert.Equal(t, fromEnvelope.Links, fromPayload.Links)
	})

	t.Run("Convert auto reports schema errors of payloads", func(t *testing.T) {
		_, err := k.ConvertAuto([]byte(`{"entities":[]}`))
		assert.ErrorIs(t, err, pipeline.ErrSchema)
	})

	t.Run("Convert auto skips a block with object text", func(t *testing.T) {
		input, err := json.Marshal(map[string]any{"result": map[string]any{"content": []map[string]any{
			{"type": "text", "text": map[string]any{"entities": []any{}}},
			{"type": "text", "text": examplePayload},
		}}})
		require.NoError(t, err)

		graph, err := k.ConvertAuto(input)
		require.NoError(t, err, "Expected the graph block to be converted")
		assert.Len(t, graph.Nodes, 3)
	})

	t.Run("Convert auto treats a result without content as an envelope", func(t *testing.T) {
		_, err := k.ConvertAuto([]byte(`{"result":{}}`))
		assert.ErrorIs(t, err, pipeline.ErrEnvelope, "Expected an envelope error")
		assert.NotErrorIs(t, err, pipeline.ErrSchema)
	})
}

func TestConvertSource(t *testing.T) {
	ctx := context.Background()

	t.Run("Convert explicit source", func(t *testing.T) {
		k := initKGView(t)
		store := &memoryStore{graph: model.RawGraph{
			Entities:  []model.RawEntity{{Name: "A"}, {Name: "B", EntityType: "Person"}},
			Relations: []model.RawRelation{{From: "B", To: "C", RelationType: "knows"}},
		}}

		graph, err := k.ConvertSource(ctx, store)
		require.NoError(t, err, "Expected ConvertSource to not return an error")
		assert.Equal(t, "C", graph.Nodes[2].ID)
		assert.True(t, graph.Nodes[2].Placeholder, "Expected dangling store reference to be repaired")
	})

	t.Run("Convert connected store", func(t *testing.T) {
		k := initKGView(t)
		k.Store = &memoryStore{graph: model.RawGraph{Entities: []model.RawEntity{{Name: "A"}}}}

		graph, err := k.ConvertSource(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, graph.Nodes, 1)
	})

	t.Run("Convert without store", func(t *testing.T) {
		_, err := initKGView(t).ConvertSource(ctx, nil)
		assert.ErrorIs(t, err, ErrNoStore)
	})

	t.Run("Source error is wrapped", func(t *testing.T) {
		_, err := initKGView(t).ConvertSource(ctx, &memoryStore{selectErr: assert.AnError})
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "select graph")
	})
}

func TestConvertWithFallback(t *testing.T) {
	k := initKGView(t)

	t.Run("Valid input does not use fallback", func(t *testing.T) {
		graph, err := k.ConvertWithFallback(envelopeOf(t, examplePayload), sample.Envelope())
		require.NoError(t, err)
		assert.False(t, graph.Metadata.Fallback)
		assert.Len(t, graph.Nodes, 3)
	})

	t.Run("Envelope error uses fallback", func(t *testing.T) {
		graph, err := k.ConvertWithFallback([]byte(`{"result":{"content":[]}}`), sample.Envelope())
		require.NoError(t, err, "Expected fallback conversion to succeed")
		assert.True(t, graph.Metadata.Fallback)
		assert.Contains(t, graph.Metadata.FallbackReason, "envelope error")
		assert.Equal(t, 9, graph.Metadata.NodeCount)
	})

	t.Run("Schema error uses fallback", func(t *testing.T) {
		graph, err := k.ConvertWithFallback([]byte(`{"relations":[]}`), sample.Envelope())
		require.NoError(t, err)
		assert.True(t, graph.Metadata.Fallback)
		assert.Contains(t, graph.Metadata.FallbackReason, "entities")
	})

	t.Run("Broken fallback returns both errors", func(t *testing.T) {
		_, err := k.ConvertWithFallback([]byte(`{"relations":[]}`), []byte(`[]`))
		require.Error(t, err)
		var schemaErr *pipeline.SchemaError
		assert.True(t, errors.As(err, &schemaErr))
		assert.Contains(t, err.Error(), "convert fallback")
	})
}

func TestCheck(t *testing.T) {
	k := initKGView(t)

	t.Run("Check envelope with dangling reference", func(t *testing.T) {
		report, err := k.Check(envelopeOf(t, examplePayload))
		require.NoError(t, err, "Expected Check to not return an error")
		assert.False(t, report.Valid)
		assert.Equal(t, []string{"C"}, report.MissingIDs)
		assert.Equal(t, 2, report.Components, "Expected A alone and B with placeholder C")
		assert.Equal(t, []string{"A"}, report.IsolatedNodes)
	})

	t.Run("Check valid payload", func(t *testing.T) {
		report, err := k.Check([]byte(`{"entities":[{"name":"A"},{"name":"B"}],"relations":[{"from":"A","to":"B","relationType":"r"}]}`))
		require.NoError(t, err)
		assert.True(t, report.Valid)
		assert.Equal(t, 1, report.Components)
		assert.Empty(t, report.IsolatedNodes)
	})

	t.Run("Check broken envelope", func(t *testing.T) {
		_, err := k.Check([]byte(`{"result":{"content":"nope"}}`))
		assert.ErrorIs(t, err, pipeline.ErrEnvelope)
	})
}

func TestImportPayload(t *testing.T) {
	ctx := context.Background()

	t.Run("Import envelope into store", func(t *testing.T) {
		k := initKGView(t)
		store := &memoryStore{}
		k.Store = store

		result, err := k.ImportPayload(ctx, envelopeOf(t, `{"entities":[{"name":"A"},{"entityType":"broken"}],"relations":[{"from":"A","to":"B","relationType":"r"}]}`))
		require.NoError(t, err, "Expected ImportPayload to not return an error")
		assert.Equal(t, &database.ImportResult{Entities: 1, Relations: 1}, result, "Expected malformed record to be skipped")

		graph, err := k.ConvertSource(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, graph.Nodes, 2)
	})

	t.Run("Import without store", func(t *testing.T) {
		_, err := initKGView(t).ImportPayload(ctx, []byte(examplePayload))
		assert.ErrorIs(t, err, ErrNoStore)
	})

	t.Run("Import schema error", func(t *testing.T) {
		k := initKGView(t)
		k.Store = &memoryStore{}

		_, err := k.ImportPayload(ctx, []byte(`{"entities":{}}`))
		assert.ErrorIs(t, err, pipeline.ErrSchema)
	})
}

func TestTraversal(t *testing.T) {
	k := initKGView(t)
	converted, err := k.Convert(sample.Envelope())
	require.NoError(t, err)

	t.Run("BFS from project", func(t *testing.T) {
		results, err := k.BFSTraversal(converted, "gpxmapper", 1)
		require.NoError(t, err)
		assert.Len(t, results, 7, "Expected project and its six direct neighbors")
	})

	t.Run("DFS with link type filter", func(t *testing.T) {
		results, err := k.DFSTraversal(converted, "gpxmapper", 3, "depends_on")
		require.NoError(t, err)
		assert.Len(t, results, 4)
	})

	t.Run("Focus on a feature", func(t *testing.T) {
		sub, err := k.Focus(converted, "Elevation Profile", 1)
		require.NoError(t, err)
		assert.Equal(t, 4, sub.Metadata.NodeCount, "Expected feature, project, Chart.js and Bob")
		assert.Equal(t, 1, sub.Metadata.PlaceholderCount)
	})

	t.Run("Focus on unknown node", func(t *testing.T) {
		_, err := k.Focus(converted, "nobody", 1)
		assert.Error(t, err)
	})
}
