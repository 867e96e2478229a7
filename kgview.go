package kgview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/siherrmann/kgview/core/graph"
	"github.com/siherrmann/kgview/core/pipeline"
	"github.com/siherrmann/kgview/database"
	"github.com/siherrmann/kgview/helper"
	"github.com/siherrmann/kgview/model"
)

// ErrNoStore is returned by store operations before ConnectStore.
var ErrNoStore = errors.New("no graph store connected")

// GraphSource provides a stored knowledge graph
type GraphSource interface {
	SelectGraph(ctx context.Context) (*model.RawGraph, error)
}

// GraphStore is a GraphSource that also accepts imports
type GraphStore interface {
	GraphSource
	ImportGraph(ctx context.Context, graph *model.RawGraph) (*database.ImportResult, error)
}

// KGView converts knowledge-graph exports into renderable graphs and
// optionally reads them from or writes them to a Postgres store.
type KGView struct {
	DB       *helper.Database
	Store    GraphStore // Optional, see ConnectStore
	Pipeline *pipeline.Pipeline
	// Logging
	log *slog.Logger
}

// NewKGView creates a KGView with the default pipeline stages.
// A nil logger logs at info level to stderr.
func NewKGView(config model.ConvertConfig, logger *slog.Logger) *KGView {
	if logger == nil {
		logger = helper.NewLogger(os.Stderr, slog.LevelInfo)
	}

	return &KGView{
		Pipeline: pipeline.NewPipeline(config, logger),
		log:      logger,
	}
}

// ConnectStore opens the database and creates the entity and relation
// handlers. If force is true the SQL functions are reloaded.
func (k *KGView) ConnectStore(config *helper.DatabaseConfiguration, force bool) error {
	db := helper.NewDatabase("kgview", config, k.log)

	store, err := database.NewGraphStore(db, force)
	if err != nil {
		db.Close()
		return helper.NewError("create graph store", err)
	}

	k.DB = db
	k.Store = store
	return nil
}

// Close closes the database connection
func (k *KGView) Close() error {
	if k.DB != nil {
		return k.DB.Close()
	}
	return nil
}

// Convert converts a transport envelope
func (k *KGView) Convert(envelope []byte) (*model.ConvertedGraph, error) {
	return k.Pipeline.Convert(envelope)
}

// ConvertPayload converts an already unwrapped {entities, relations} payload
func (k *KGView) ConvertPayload(payload []byte) (*model.ConvertedGraph, error) {
	return k.Pipeline.ConvertPayload(payload)
}

// ConvertAuto converts input as envelope if it has result.content and as
// payload otherwise.
func (k *KGView) ConvertAuto(input []byte) (*model.ConvertedGraph, error) {
	if pipeline.IsEnvelope(input) {
		return k.Convert(input)
	}
	return k.ConvertPayload(input)
}

// ConvertSource converts the graph exported by src. A nil src uses the
// connected store.
func (k *KGView) ConvertSource(ctx context.Context, src GraphSource) (*model.ConvertedGraph, error) {
	if src == nil {
		if k.Store == nil {
			return nil, ErrNoStore
		}
		src = k.Store
	}

	raw, err := src.SelectGraph(ctx)
	if err != nil {
		return nil, helper.NewError("select graph", err)
	}

	return k.Pipeline.ConvertGraph(raw)
}

// ConvertWithFallback converts input and, if it has no usable payload,
// converts fallback instead. A graph converted from fallback has
// Metadata.Fallback set and the reason input was rejected in
// Metadata.FallbackReason. Other errors are returned unchanged.
func (k *KGView) ConvertWithFallback(input []byte, fallback []byte) (*model.ConvertedGraph, error) {
	converted, err := k.ConvertAuto(input)
	if err == nil {
		return converted, nil
	}
	if !errors.Is(err, pipeline.ErrEnvelope) && !errors.Is(err, pipeline.ErrSchema) {
		return nil, err
	}

	k.log.Warn("Input rejected, converting fallback dataset", slog.String("error", err.Error()))

	converted, fallbackErr := k.ConvertAuto(fallback)
	if fallbackErr != nil {
		return nil, fmt.Errorf("convert fallback after %w: %w", err, fallbackErr)
	}

	converted.Metadata.Fallback = true
	converted.Metadata.FallbackReason = err.Error()
	return converted, nil
}

// Check reports the integrity of input without repairing it. Components
// and isolated nodes describe the repaired graph.
func (k *KGView) Check(input []byte) (*model.IntegrityReport, error) {
	payload := input
	if pipeline.IsEnvelope(input) {
		unwrapped, err := k.Pipeline.Unwrap(input)
		if err != nil {
			return nil, err
		}
		payload = unwrapped.Payload
	}

	report, repaired, err := k.Pipeline.Check(payload)
	if err != nil {
		return nil, err
	}

	report.Components = len(graph.Components(repaired))
	report.IsolatedNodes = graph.IsolatedNodes(repaired)

	k.log.Info("Checked knowledge graph",
		slog.Bool("valid", report.Valid),
		slog.Int("dangling", len(report.DanglingReferences)),
		slog.Int("components", report.Components),
	)

	return report, nil
}

// ImportPayload writes the accepted records of input to the connected
// store. Malformed records are skipped as in a conversion.
func (k *KGView) ImportPayload(ctx context.Context, input []byte) (*database.ImportResult, error) {
	if k.Store == nil {
		return nil, ErrNoStore
	}

	payload := input
	if pipeline.IsEnvelope(input) {
		unwrapped, err := k.Pipeline.Unwrap(input)
		if err != nil {
			return nil, err
		}
		payload = unwrapped.Payload
	}

	records, err := k.Pipeline.Decode(payload)
	if err != nil {
		return nil, err
	}
	for _, skipped := range records.Skipped {
		k.log.Warn("Skipped malformed record", slog.String("path", skipped.Path), slog.String("reason", skipped.Reason))
	}

	result, err := k.Store.ImportGraph(ctx, &model.RawGraph{
		Entities:  records.Entities,
		Relations: records.Relations,
	})
	if err != nil {
		return result, helper.NewError("import graph", err)
	}
	return result, nil
}

// BFSTraversal performs breadth-first search from a node of a converted graph
func (k *KGView) BFSTraversal(g *model.ConvertedGraph, sourceID string, maxHops int, linkTypes ...string) ([]*graph.TraversalResult, error) {
	return graph.BFS(g, sourceID, maxHops, linkTypes...)
}

// DFSTraversal performs depth-first search from a node of a converted graph
func (k *KGView) DFSTraversal(g *model.ConvertedGraph, sourceID string, maxHops int, linkTypes ...string) ([]*graph.TraversalResult, error) {
	return graph.DFS(g, sourceID, maxHops, linkTypes...)
}

// Focus restricts a converted graph to the nodes within hops of nodeID
func (k *KGView) Focus(g *model.ConvertedGraph, nodeID string, hops int) (*model.ConvertedGraph, error) {
	sub, err := graph.Neighborhood(g, nodeID, hops)
	if err != nil {
		return nil, helper.NewError("focus", err)
	}
	return sub, nil
}
