package model

// RecordKind is the discriminator carried by records in a payload's
// "type" field.
type RecordKind string

const (
	RecordKindEntity   RecordKind = "entity"
	RecordKindRelation RecordKind = "relation"
)

// RawEntity is an entity record as found in a knowledge-graph payload.
type RawEntity struct {
	Type         RecordKind `json:"type,omitempty"`
	Name         string     `json:"name"`
	EntityType   string     `json:"entityType,omitempty"`
	Observations []string   `json:"observations"`
}

// RawRelation is a directed, typed relation record between two entity names.
// The referenced entities are not guaranteed to exist.
type RawRelation struct {
	Type         RecordKind `json:"type,omitempty"`
	From         string     `json:"from"`
	To           string     `json:"to"`
	RelationType string     `json:"relationType"`
}

// RawGraph is the unwrapped knowledge-graph payload.
type RawGraph struct {
	Entities  []RawEntity   `json:"entities"`
	Relations []RawRelation `json:"relations"`
}
