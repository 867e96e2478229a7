package model

import (
	"time"

	"github.com/google/uuid"
)

// Entity is an entity row of the knowledge-graph store.
type Entity struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	EntityType   string       `json:"entity_type"`
	Observations Observations `json:"observations"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Raw returns the payload form of the entity.
func (e *Entity) Raw() RawEntity {
	return RawEntity{
		Type:         RecordKindEntity,
		Name:         e.Name,
		EntityType:   e.EntityType,
		Observations: []string(e.Observations),
	}
}

// Relation is a relation row of the knowledge-graph store. From and To are
// entity names and may reference entities that are not stored.
type Relation struct {
	ID           uuid.UUID `json:"id"`
	From         string    `json:"from_entity"`
	To           string    `json:"to_entity"`
	RelationType string    `json:"relation_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// Raw returns the payload form of the relation.
func (r *Relation) Raw() RawRelation {
	return RawRelation{
		Type:         RecordKindRelation,
		From:         r.From,
		To:           r.To,
		RelationType: r.RelationType,
	}
}
