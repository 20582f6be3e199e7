package aggregate

import "github.com/noah-isme/student-mental-health-api/internal/models"

const (
	conditionNodeOffset = 7
	treatmentNodeOffset = 11
	sankeyNodeCount     = 13
)

// SankeyNodes returns the fixed node list: seven age buckets, four
// conditions, then two treatment statuses.
func SankeyNodes() []models.SankeyNode {
	nodes := make([]models.SankeyNode, 0, sankeyNodeCount)
	for _, group := range models.AgeGroups {
		nodes = append(nodes, models.SankeyNode{Index: len(nodes), Name: group.String(), Category: models.DimensionAge})
	}
	for _, c := range models.Conditions {
		nodes = append(nodes, models.SankeyNode{Index: len(nodes), Name: c.String(), Category: models.DimensionCondition})
	}
	for _, t := range models.TreatmentStatuses {
		nodes = append(nodes, models.SankeyNode{Index: len(nodes), Name: t.String(), Category: models.DimensionTreatment})
	}
	return nodes
}

// AgeNodeIndex returns the node index of an age bucket.
func AgeNodeIndex(group models.AgeGroup) int {
	return group.Index()
}

// ConditionNodeIndex returns the node index of a condition.
func ConditionNodeIndex(c models.Condition) int {
	if c.Index() < 0 {
		return -1
	}
	return conditionNodeOffset + c.Index()
}

// TreatmentNodeIndex returns the node index of a treatment status.
func TreatmentNodeIndex(t models.TreatmentStatus) int {
	if t.Index() < 0 {
		return -1
	}
	return treatmentNodeOffset + t.Index()
}

type linkAccumulator struct {
	links []models.SankeyLink
	index map[[2]int]int
}

func (a *linkAccumulator) add(source, target int) {
	key := [2]int{source, target}
	if i, ok := a.index[key]; ok {
		a.links[i].Value++
		return
	}
	a.index[key] = len(a.links)
	a.links = append(a.links, models.SankeyLink{Source: source, Target: target, Value: 1})
}

// Sankey builds the flow graph. Each record adds one age → condition edge
// and one condition → treatment edge per condition it has. Edges between the
// same pair accumulate. Records without an age bucket are skipped entirely.
// Nodes matching the filter are flagged as selected.
func Sankey(records []models.StudentRecord, filter models.FilterState) models.SankeyGraph {
	acc := &linkAccumulator{index: make(map[[2]int]int)}
	for _, record := range records {
		group := record.AgeGroup()
		if group == models.AgeGroupNone {
			continue
		}
		conditions := record.Conditions()
		for _, c := range conditions {
			acc.add(AgeNodeIndex(group), ConditionNodeIndex(c))
		}
		for _, c := range conditions {
			acc.add(ConditionNodeIndex(c), TreatmentNodeIndex(record.TreatmentFor(c)))
		}
	}

	nodes := SankeyNodes()
	incoming := make([]int, len(nodes))
	outgoing := make([]int, len(nodes))
	for _, link := range acc.links {
		outgoing[link.Source] += link.Value
		incoming[link.Target] += link.Value
	}
	for i := range nodes {
		nodes[i].Value = max(incoming[i], outgoing[i])
		nodes[i].Selected = filter.Value(nodes[i].Category) == nodes[i].Name
	}

	links := acc.links
	if links == nil {
		links = []models.SankeyLink{}
	}
	return models.SankeyGraph{Nodes: nodes, Links: links}
}
