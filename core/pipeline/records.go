package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/siherrmann/kgview/model"
)

// Records are the entity and relation records accepted from a payload,
// in scan order: the entities array first, then the relations array.
type Records struct {
	Entities  []model.RawEntity
	Relations []model.RawRelation
	Skipped   []*MalformedRecordError
	Ignored   int // Records whose discriminator names neither kind
}

type record struct {
	path     string
	kind     model.RecordKind
	entity   model.RawEntity
	relation model.RawRelation
}

// DecodePayload validates the payload shape and decodes its records.
// It fails with a SchemaError if the payload is not an object or lacks the
// entities or relations array. Individual broken records are skipped and
// listed in Records.Skipped.
func DecodePayload(payload []byte) (*Records, error) {
	var root any
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, &EnvelopeError{Msg: "payload is not valid JSON", Err: err}
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return nil, &SchemaError{Msg: fmt.Sprintf("payload must be a JSON object, got %s", jsonKind(root))}
	}

	entities, err := requireArray(obj, "entities")
	if err != nil {
		return nil, err
	}
	relations, err := requireArray(obj, "relations")
	if err != nil {
		return nil, err
	}

	var records []record
	var skipped []*MalformedRecordError
	ignored := 0

	scan := func(field string, kind model.RecordKind, values []any) {
		for i, value := range values {
			path := fmt.Sprintf("%s[%d]", field, i)
			r, known, malformed := decodeRecord(value, kind, path)
			switch {
			case malformed != nil:
				skipped = append(skipped, malformed)
			case !known:
				ignored++
			default:
				records = append(records, r)
			}
		}
	}
	scan("entities", model.RecordKindEntity, entities)
	scan("relations", model.RecordKindRelation, relations)

	result := collect(records, ignored)
	result.Skipped = append(skipped, result.Skipped...)
	return result, nil
}

// CollectRecords applies the record rules of DecodePayload to an already
// decoded graph, e.g. one exported from a store.
func CollectRecords(graph *model.RawGraph) *Records {
	records := make([]record, 0, len(graph.Entities)+len(graph.Relations))
	ignored := 0

	for i, e := range graph.Entities {
		kind, known := resolveKind(string(e.Type), model.RecordKindEntity)
		if !known {
			ignored++
			continue
		}
		path := fmt.Sprintf("entities[%d]", i)
		if kind == model.RecordKindRelation {
			// an entity struct cannot carry relation fields
			records = append(records, record{path: path, kind: kind})
			continue
		}
		records = append(records, record{path: path, kind: kind, entity: e})
	}
	for i, r := range graph.Relations {
		kind, known := resolveKind(string(r.Type), model.RecordKindRelation)
		if !known {
			ignored++
			continue
		}
		path := fmt.Sprintf("relations[%d]", i)
		if kind == model.RecordKindEntity {
			records = append(records, record{path: path, kind: kind})
			continue
		}
		records = append(records, record{path: path, kind: kind, relation: r})
	}

	return collect(records, ignored)
}

// collect splits records by kind and drops the ones missing required fields.
func collect(records []record, ignored int) *Records {
	result := &Records{Ignored: ignored}

	for _, r := range records {
		switch r.kind {
		case model.RecordKindEntity:
			if r.entity.Name == "" {
				result.Skipped = append(result.Skipped, &MalformedRecordError{
					Path:   r.path,
					Kind:   r.kind,
					Reason: "entity has no name",
				})
				continue
			}
			result.Entities = append(result.Entities, r.entity)
		case model.RecordKindRelation:
			var missing []string
			if r.relation.From == "" {
				missing = append(missing, "from")
			}
			if r.relation.To == "" {
				missing = append(missing, "to")
			}
			if r.relation.RelationType == "" {
				missing = append(missing, "relationType")
			}
			if len(missing) > 0 {
				result.Skipped = append(result.Skipped, &MalformedRecordError{
					Path:   r.path,
					Kind:   r.kind,
					Reason: "relation is missing " + strings.Join(missing, ", "),
				})
				continue
			}
			result.Relations = append(result.Relations, r.relation)
		}
	}

	return result
}

func decodeRecord(value any, arrayKind model.RecordKind, path string) (record, bool, *MalformedRecordError) {
	obj, ok := value.(map[string]any)
	if !ok {
		return record{}, true, &MalformedRecordError{
			Path:   path,
			Kind:   arrayKind,
			Reason: fmt.Sprintf("record must be an object, got %s", jsonKind(value)),
		}
	}

	discriminator := ""
	switch t := obj["type"].(type) {
	case nil:
	case string:
		discriminator = t
	default:
		return record{}, false, nil
	}

	kind, known := resolveKind(discriminator, arrayKind)
	if !known {
		return record{}, false, nil
	}

	r := record{path: path, kind: kind}
	switch kind {
	case model.RecordKindEntity:
		r.entity = model.RawEntity{
			Type:         kind,
			Name:         stringField(obj, "name"),
			EntityType:   stringField(obj, "entityType"),
			Observations: stringList(obj["observations"]),
		}
	case model.RecordKindRelation:
		r.relation = model.RawRelation{
			Type:         kind,
			From:         stringField(obj, "from"),
			To:           stringField(obj, "to"),
			RelationType: stringField(obj, "relationType"),
		}
	}
	return r, true, nil
}

// resolveKind maps a discriminator to a record kind. An empty discriminator
// takes the kind of the array holding the record.
func resolveKind(discriminator string, arrayKind model.RecordKind) (model.RecordKind, bool) {
	switch model.RecordKind(discriminator) {
	case "":
		return arrayKind, true
	case model.RecordKindEntity:
		return model.RecordKindEntity, true
	case model.RecordKindRelation:
		return model.RecordKindRelation, true
	default:
		return "", false
	}
}

func requireArray(obj map[string]any, field string) ([]any, error) {
	value, ok := obj[field]
	if !ok {
		return nil, &SchemaError{Field: field, Msg: "required array is missing"}
	}
	values, ok := value.([]any)
	if !ok {
		return nil, &SchemaError{Field: field, Msg: fmt.Sprintf("must be an array, got %s", jsonKind(value))}
	}
	return values, nil
}

func stringField(obj map[string]any, field string) string {
	s, _ := obj[field].(string)
	return s
}

// stringList keeps the string elements of an array value; anything that is
// not an array yields an empty list.
func stringList(value any) []string {
	values, ok := value.([]any)
	if !ok {
		return []string{}
	}
	list := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			list = append(list, s)
		}
	}
	return list
}

func jsonKind(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
