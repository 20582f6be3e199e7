package chart

import (
	"fmt"

	"github.com/noah-isme/student-mental-health-api/internal/aggregate"
	"github.com/noah-isme/student-mental-health-api/internal/dto"
	"github.com/noah-isme/student-mental-health-api/internal/models"
)

const sankeyTitle = "Student Mental Health Flow Analysis"

var sankeySections = []string{"Age Groups", "Mental Health Conditions", "Treatment Status"}

// NewSankey constructs the flow diagram adapter. It is the only adapter
// whose nodes can be clicked.
func NewSankey(params Params) *Adapter {
	return newAdapter(models.ChartSankey, buildSankey, params)
}

func buildSankey(records []models.StudentRecord, filter models.FilterState) *dto.ChartModel {
	graph := aggregate.Sankey(records, filter)
	chart := &dto.SankeyChart{
		Sections: sankeySections,
		Nodes:    make([]dto.SankeyNode, 0, len(graph.Nodes)),
		Links:    make([]dto.SankeyLink, 0, len(graph.Links)),
	}
	colors := make([]string, len(graph.Nodes))
	for i, node := range graph.Nodes {
		colors[i] = nodeColor(node)
		chart.Nodes = append(chart.Nodes, dto.SankeyNode{
			ChartElement: dto.ChartElement{
				ID:       NodeID(node.Index),
				Kind:     string(models.ElementNode),
				Name:     node.Name,
				Category: string(node.Category),
				Value:    float64(node.Value),
				Color:    colors[i],
				Selected: node.Selected,
			},
			Index: node.Index,
		})
	}
	for _, link := range graph.Links {
		chart.Links = append(chart.Links, dto.SankeyLink{
			ChartElement: dto.ChartElement{
				ID:    LinkID(link.Source, link.Target),
				Kind:  string(models.ElementLink),
				Name:  fmt.Sprintf("%s → %s", graph.Nodes[link.Source].Name, graph.Nodes[link.Target].Name),
				Value: float64(link.Value),
				Color: colors[link.Source],
			},
			Source: link.Source,
			Target: link.Target,
		})
	}
	return &dto.ChartModel{
		Kind:    string(models.ChartSankey),
		Title:   sankeyTitle,
		Filters: dto.NewFilters(filter),
		Legend:  sankeyLegend(),
		Sankey:  chart,
	}
}

// NodeID is the element id of a Sankey node.
func NodeID(index int) string {
	return fmt.Sprintf("node-%d", index)
}

// LinkID is the element id of a Sankey link.
func LinkID(source, target int) string {
	return fmt.Sprintf("link-%d-%d", source, target)
}

func nodeColor(node models.SankeyNode) string {
	switch node.Category {
	case models.DimensionAge:
		group, _ := models.ParseAgeGroup(node.Name)
		return group.Color()
	case models.DimensionCondition:
		c, _ := models.ParseCondition(node.Name)
		return c.Color()
	case models.DimensionTreatment:
		t, _ := models.ParseTreatmentStatus(node.Name)
		return t.Color()
	}
	return ""
}

func sankeyLegend() []dto.LegendItem {
	legend := make([]dto.LegendItem, 0, len(models.Conditions)+len(models.TreatmentStatuses))
	for _, c := range models.Conditions {
		legend = append(legend, dto.LegendItem{Label: c.String(), Color: c.Color()})
	}
	for _, t := range models.TreatmentStatuses {
		legend = append(legend, dto.LegendItem{Label: t.String(), Color: t.Color()})
	}
	return legend
}
