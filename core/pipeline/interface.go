package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/siherrmann/kgview/model"
)

// UnwrapFunc extracts the payload from a transport envelope
type UnwrapFunc func(envelope []byte) (*Unwrapped, error)

// DecodeFunc validates a payload and decodes its records
type DecodeFunc func(payload []byte) (*Records, error)

// RepairFunc makes every link endpoint of a node/link set resolvable
type RepairFunc func(nodes []model.GraphNode, links []model.GraphLink, taxonomy *Taxonomy, config model.ConvertConfig) *Repaired

// Pipeline converts knowledge-graph payloads into renderable graphs.
// A Pipeline holds no per-conversion state and may be shared between
// goroutines.
type Pipeline struct {
	Config model.ConvertConfig
	Unwrap UnwrapFunc
	Decode DecodeFunc
	Repair RepairFunc
	Clock  func() time.Time
	log    *slog.Logger
}

// NewPipeline creates a pipeline with the default stages.
// A nil logger discards all output.
func NewPipeline(config model.ConvertConfig, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		Config: config,
		Unwrap: Unwrap,
		Decode: DecodePayload,
		Repair: Repair,
		Clock:  time.Now,
		log:    logger,
	}
}

// Convert unwraps an envelope and converts its payload.
func (p *Pipeline) Convert(envelope []byte) (*model.ConvertedGraph, error) {
	unwrapped, err := p.Unwrap(envelope)
	if err != nil {
		return nil, err
	}

	for _, attempt := range unwrapped.Attempts {
		p.log.Debug("Tried envelope block", slog.Int("block", attempt.Block), slog.Bool("qualifies", attempt.Qualifies), slog.Any("error", attempt.Err))
	}
	if unwrapped.Fallback {
		p.log.Warn("No envelope block exposes entities or relations, using first block")
	}

	return p.ConvertPayload(unwrapped.Payload)
}

// ConvertPayload converts an already unwrapped {entities, relations} payload.
func (p *Pipeline) ConvertPayload(payload []byte) (*model.ConvertedGraph, error) {
	records, err := p.Decode(payload)
	if err != nil {
		return nil, err
	}
	return p.convertRecords(records)
}

// ConvertGraph converts a decoded graph, e.g. one read from a store.
func (p *Pipeline) ConvertGraph(graph *model.RawGraph) (*model.ConvertedGraph, error) {
	if graph == nil {
		return nil, &SchemaError{Msg: "graph is nil"}
	}
	return p.convertRecords(CollectRecords(graph))
}

// Check decodes a payload and reports its integrity without repairing it.
func (p *Pipeline) Check(payload []byte) (*model.IntegrityReport, *model.ConvertedGraph, error) {
	records, err := p.Decode(payload)
	if err != nil {
		return nil, nil, err
	}

	taxonomy := ExtractTaxonomy(records.Entities, p.Config.UnknownType)
	weights := ExtractRelationWeights(records.Relations)
	nodes := BuildNodes(records.Entities, taxonomy, p.Config.UnknownType)
	links := BuildLinks(records.Relations, weights)
	integrity := Validate(nodes, links)

	report := &model.IntegrityReport{
		Valid:              integrity.Valid() && len(records.Skipped) == 0,
		DanglingReferences: nonNil(integrity.Dangling),
		MissingIDs:         nonNil(integrity.MissingIDs),
		DuplicateIDs:       nonNil(integrity.DuplicateIDs),
		Skipped:            make([]string, 0, len(records.Skipped)),
		IgnoredRecords:     records.Ignored,
		IsolatedNodes:      []string{},
	}
	for _, skipped := range records.Skipped {
		report.Skipped = append(report.Skipped, skipped.Error())
	}

	graph, err := p.convertRecords(records)
	if err != nil {
		return nil, nil, err
	}
	return report, graph, nil
}

func (p *Pipeline) convertRecords(records *Records) (*model.ConvertedGraph, error) {
	for _, skipped := range records.Skipped {
		p.log.Warn("Skipped malformed record", slog.String("path", skipped.Path), slog.String("reason", skipped.Reason))
	}
	if records.Ignored > 0 {
		p.log.Warn("Ignored records with unknown type", slog.Int("count", records.Ignored))
	}

	taxonomy := ExtractTaxonomy(records.Entities, p.Config.UnknownType)
	weights := ExtractRelationWeights(records.Relations)

	nodes := BuildNodes(records.Entities, taxonomy, p.Config.UnknownType)
	links := BuildLinks(records.Relations, weights)

	for _, node := range nodes {
		if node.Group == model.FallbackGroup {
			p.log.Warn("Entity type missing from taxonomy", slog.String("id", node.ID), slog.String("type", node.Type))
		}
	}

	repaired := p.Repair(nodes, links, taxonomy, p.Config)
	for _, ref := range repaired.Integrity.Dangling {
		p.log.Warn("Link endpoint not found in nodes", slog.Int("link", ref.Link), slog.String("endpoint", ref.Endpoint), slog.String("id", ref.ID))
	}
	if repaired.DroppedNodes > 0 {
		p.log.Warn("Dropped duplicate nodes", slog.Int("count", repaired.DroppedNodes), slog.Any("ids", repaired.Integrity.DuplicateIDs))
	}

	if after := Validate(repaired.Nodes, links); !after.Valid() {
		return nil, fmt.Errorf("repair left %d dangling references and %d duplicate ids", len(after.Dangling), len(after.DuplicateIDs))
	}

	metadata := Summarize(repaired.Nodes, links, Counters{
		Skipped:    len(records.Skipped),
		Ignored:    records.Ignored,
		Duplicates: repaired.DroppedNodes,
	}, p.Config.Source, p.Clock())

	p.log.Info("Converted knowledge graph",
		slog.Int("nodes", metadata.NodeCount),
		slog.Int("links", metadata.LinkCount),
		slog.Int("placeholders", metadata.PlaceholderCount),
		slog.Int("skipped", metadata.SkippedRecords),
	)

	return &model.ConvertedGraph{
		Nodes:    repaired.Nodes,
		Links:    links,
		Metadata: metadata,
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
