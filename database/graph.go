package database

import (
	"context"
	"log/slog"

	"github.com/siherrmann/kgview/helper"
	"github.com/siherrmann/kgview/model"
)

// GraphStore reads and writes whole knowledge graphs.
type GraphStore struct {
	Entities  EntitiesDBHandlerFunctions
	Relations RelationsDBHandlerFunctions
	db        *helper.Database
	log       *slog.Logger
}

// NewGraphStore creates the entity and relation handlers on db.
func NewGraphStore(db *helper.Database, force bool) (*GraphStore, error) {
	entities, err := NewEntitiesDBHandler(db, force)
	if err != nil {
		return nil, helper.NewError("entities handler", err)
	}

	relations, err := NewRelationsDBHandler(db, force)
	if err != nil {
		return nil, helper.NewError("relations handler", err)
	}

	return &GraphStore{
		Entities:  entities,
		Relations: relations,
		db:        db,
		log:       db.Logger,
	}, nil
}

// SelectGraph exports the stored graph in insertion order. The result is
// a source graph, relations may reference entities that are not stored.
func (s *GraphStore) SelectGraph(ctx context.Context) (*model.RawGraph, error) {
	entities, err := s.Entities.SelectAllEntities(ctx)
	if err != nil {
		return nil, helper.NewError("select entities", err)
	}

	relations, err := s.Relations.SelectAllRelations(ctx)
	if err != nil {
		return nil, helper.NewError("select relations", err)
	}

	graph := &model.RawGraph{
		Entities:  make([]model.RawEntity, 0, len(entities)),
		Relations: make([]model.RawRelation, 0, len(relations)),
	}
	for _, entity := range entities {
		graph.Entities = append(graph.Entities, entity.Raw())
	}
	for _, relation := range relations {
		graph.Relations = append(graph.Relations, relation.Raw())
	}

	s.log.Debug("Selected graph", slog.Int("entities", len(graph.Entities)), slog.Int("relations", len(graph.Relations)))

	return graph, nil
}

// ImportResult counts the records written by ImportGraph.
type ImportResult struct {
	Entities  int `json:"entities"`
	Relations int `json:"relations"`
}

// ImportGraph writes every entity and relation of graph in one
// transaction. Entities are upserted by name, relations by their
// from/to/type triple. A failing record rolls back the whole import.
func (s *GraphStore) ImportGraph(ctx context.Context, graph *model.RawGraph) (*ImportResult, error) {
	result := &ImportResult{}
	if graph == nil {
		return result, nil
	}

	tx, err := s.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return nil, helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	for _, raw := range graph.Entities {
		entity := &model.Entity{
			Name:         raw.Name,
			EntityType:   raw.EntityType,
			Observations: model.Observations(raw.Observations),
		}
		if err := s.Entities.InsertEntityTx(ctx, tx, entity); err != nil {
			return nil, helper.NewError("insert entity "+raw.Name, err)
		}
		result.Entities++
	}

	for _, raw := range graph.Relations {
		relation := &model.Relation{
			From:         raw.From,
			To:           raw.To,
			RelationType: raw.RelationType,
		}
		if err := s.Relations.InsertRelationTx(ctx, tx, relation); err != nil {
			return nil, helper.NewError("insert relation "+raw.From+" -> "+raw.To, err)
		}
		result.Relations++
	}

	if err := tx.Commit(); err != nil {
		return nil, helper.NewError("commit", err)
	}

	s.log.Info("Imported graph", slog.Int("entities", result.Entities), slog.Int("relations", result.Relations))

	return result, nil
}
