package pipeline

import "github.com/siherrmann/kgview/model"

// Taxonomy is the ordered set of distinct entity types, in first-seen order.
// A type's position is the group index of its nodes.
type Taxonomy struct {
	types []string
	index map[string]int
}

// ExtractTaxonomy collects the entity types of entities in first-seen order.
// Entities without a type count as unknownType.
func ExtractTaxonomy(entities []model.RawEntity, unknownType string) *Taxonomy {
	t := &Taxonomy{index: make(map[string]int)}
	for _, e := range entities {
		entityType := typeOrDefault(e.EntityType, unknownType)
		if _, ok := t.index[entityType]; ok {
			continue
		}
		t.index[entityType] = len(t.types)
		t.types = append(t.types, entityType)
	}
	return t
}

// Index returns the group index of entityType.
func (t *Taxonomy) Index(entityType string) (int, bool) {
	i, ok := t.index[entityType]
	return i, ok
}

// Types returns a copy of the ordered types.
func (t *Taxonomy) Types() []string {
	return append([]string(nil), t.types...)
}

// Len is the number of distinct types.
func (t *Taxonomy) Len() int {
	return len(t.types)
}

// RelationWeights counts relations per exact relation type.
type RelationWeights struct {
	counts map[string]int
	order  []string
}

// ExtractRelationWeights counts the relation types of relations. Types are
// compared case-sensitively without normalization.
func ExtractRelationWeights(relations []model.RawRelation) *RelationWeights {
	w := &RelationWeights{counts: make(map[string]int)}
	for _, r := range relations {
		if _, ok := w.counts[r.RelationType]; !ok {
			w.order = append(w.order, r.RelationType)
		}
		w.counts[r.RelationType]++
	}
	return w
}

// Weight returns the number of relations of relationType, 0 if unseen.
func (w *RelationWeights) Weight(relationType string) int {
	return w.counts[relationType]
}

// Types returns the relation types in first-seen order.
func (w *RelationWeights) Types() []string {
	return append([]string(nil), w.order...)
}

func typeOrDefault(entityType, unknownType string) string {
	if entityType == "" {
		return unknownType
	}
	return entityType
}
