package pipeline

import "github.com/siherrmann/kgview/model"

// Integrity lists the problems of a node/link set.
type Integrity struct {
	Dangling     []model.DanglingReference
	MissingIDs   []string // Distinct dangling ids in first-seen order
	DuplicateIDs []string // Distinct ids defined more than once
}

// Valid reports whether every link endpoint resolves and ids are unique.
func (i *Integrity) Valid() bool {
	return len(i.Dangling) == 0 && len(i.DuplicateIDs) == 0
}

// Validate checks every link endpoint against the node ids without
// changing anything.
func Validate(nodes []model.GraphNode, links []model.GraphLink) *Integrity {
	result := &Integrity{}

	known := make(map[string]bool, len(nodes))
	duplicate := make(map[string]bool)
	for _, node := range nodes {
		if known[node.ID] {
			if !duplicate[node.ID] {
				duplicate[node.ID] = true
				result.DuplicateIDs = append(result.DuplicateIDs, node.ID)
			}
			continue
		}
		known[node.ID] = true
	}

	missing := make(map[string]bool)
	check := func(link int, endpoint, id string) {
		if known[id] {
			return
		}
		result.Dangling = append(result.Dangling, model.DanglingReference{Link: link, Endpoint: endpoint, ID: id})
		if !missing[id] {
			missing[id] = true
			result.MissingIDs = append(result.MissingIDs, id)
		}
	}
	for i, link := range links {
		check(i, "source", link.Source)
		check(i, "target", link.Target)
	}

	return result
}

// Repaired is the node set after repair together with what was changed.
type Repaired struct {
	Nodes        []model.GraphNode
	Placeholders []string // Ids of synthesized nodes, in creation order
	DroppedNodes int      // Later duplicates removed from the node set
	Integrity    *Integrity
}

// Repair makes every link endpoint resolvable. Later nodes repeating an
// id are dropped, then one placeholder node is appended per distinct
// missing id. Placeholders get the group after the last taxonomy entry so
// groups of real nodes are unaffected. Links are never changed.
func Repair(nodes []model.GraphNode, links []model.GraphLink, taxonomy *Taxonomy, config model.ConvertConfig) *Repaired {
	integrity := Validate(nodes, links)

	repaired := &Repaired{
		Nodes:     make([]model.GraphNode, 0, len(nodes)+len(integrity.MissingIDs)),
		Integrity: integrity,
	}

	seen := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		if seen[node.ID] {
			repaired.DroppedNodes++
			continue
		}
		seen[node.ID] = true
		repaired.Nodes = append(repaired.Nodes, node)
	}

	placeholderGroup := taxonomy.Len()
	for _, id := range integrity.MissingIDs {
		repaired.Nodes = append(repaired.Nodes, model.GraphNode{
			ID:           id,
			Type:         config.PlaceholderType,
			Observations: []string{config.PlaceholderNote},
			Group:        placeholderGroup,
			Placeholder:  true,
		})
		repaired.Placeholders = append(repaired.Placeholders, id)
	}

	return repaired
}
