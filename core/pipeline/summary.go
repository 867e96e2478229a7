package pipeline

import (
	"time"

	"github.com/siherrmann/kgview/model"
)

// Counters are the record-level counts a summary cannot observe on the
// final node and link sets.
type Counters struct {
	Skipped    int
	Ignored    int
	Duplicates int
}

// Summarize describes the final node and link sets. Type lists are
// distinct and first-seen ordered.
func Summarize(nodes []model.GraphNode, links []model.GraphLink, counters Counters, source string, generatedAt time.Time) model.GraphMetadata {
	entityTypes := make([]string, 0)
	seenEntityTypes := make(map[string]bool)
	placeholders := 0
	for _, node := range nodes {
		if node.Placeholder {
			placeholders++
		}
		if !seenEntityTypes[node.Type] {
			seenEntityTypes[node.Type] = true
			entityTypes = append(entityTypes, node.Type)
		}
	}

	relationTypes := make([]string, 0)
	seenRelationTypes := make(map[string]bool)
	for _, link := range links {
		if !seenRelationTypes[link.Type] {
			seenRelationTypes[link.Type] = true
			relationTypes = append(relationTypes, link.Type)
		}
	}

	return model.GraphMetadata{
		NodeCount:        len(nodes),
		LinkCount:        len(links),
		EntityTypes:      entityTypes,
		RelationTypes:    relationTypes,
		PlaceholderCount: placeholders,
		SkippedRecords:   counters.Skipped,
		IgnoredRecords:   counters.Ignored,
		DuplicateNodes:   counters.Duplicates,
		Source:           source,
		GeneratedAt:      generatedAt,
	}
}
