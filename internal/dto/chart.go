package dto

import "github.com/noah-isme/student-mental-health-api/internal/models"

// ChartElement is a hoverable chart primitive. ID is stable for a given
// dataset and filter and is what clients send back on pointer events.
type ChartElement struct {
	ID         string   `json:"id"`
	Kind       string   `json:"type"`
	Name       string   `json:"name"`
	Category   string   `json:"category,omitempty"`
	Value      float64  `json:"value"`
	Percentage *float64 `json:"percentage,omitempty"`
	Color      string   `json:"color"`
	Selected   bool     `json:"selected,omitempty"`
}

// Hovered converts the element into a tooltip descriptor at the given pointer.
func (e ChartElement) Hovered(p models.Pointer) models.HoveredElement {
	el := models.HoveredElement{
		Kind:     models.ElementKind(e.Kind),
		Category: e.Category,
		Name:     e.Name,
		Value:    e.Value,
		Pointer:  p,
	}
	if e.Percentage != nil {
		pct := *e.Percentage
		el.Percentage = &pct
	}
	return el
}

// SankeyNode is a flow node with its fixed index.
type SankeyNode struct {
	ChartElement
	Index int `json:"index"`
}

// SankeyLink is a flow edge between node indexes.
type SankeyLink struct {
	ChartElement
	Source int `json:"source"`
	Target int `json:"target"`
}

// SankeyChart is the flow diagram payload.
type SankeyChart struct {
	Sections []string     `json:"sections"`
	Nodes    []SankeyNode `json:"nodes"`
	Links    []SankeyLink `json:"links"`
}

// BarGroup is one age bucket with its stacked bars.
type BarGroup struct {
	AgeGroup string         `json:"ageGroup"`
	Total    int            `json:"total"`
	Selected bool           `json:"selected,omitempty"`
	Bars     []ChartElement `json:"bars"`
}

// BarChart is the treatment by age payload.
type BarChart struct {
	Series []string   `json:"series"`
	YMax   int        `json:"yMax"`
	Groups []BarGroup `json:"groups"`
}

// PieGroup is the pie of one gender.
type PieGroup struct {
	Gender string         `json:"gender"`
	Total  int            `json:"total"`
	Slices []ChartElement `json:"slices"`
}

// PieChart is the condition by gender payload.
type PieChart struct {
	Groups []PieGroup `json:"groups"`
}

// CGPAGroup is one CGPA range with a bar per condition.
type CGPAGroup struct {
	Band string         `json:"band"`
	Bars []ChartElement `json:"bars"`
}

// CGPAChart is the condition by CGPA payload.
type CGPAChart struct {
	Series []string    `json:"series"`
	Groups []CGPAGroup `json:"groups"`
}

// LegendItem is a colour key entry.
type LegendItem struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// ChartModel is the render payload of one chart adapter.
type ChartModel struct {
	Kind          string       `json:"kind"`
	Title         string       `json:"title"`
	Filters       Filters      `json:"filters"`
	Transitioning bool         `json:"isTransitioning"`
	Legend        []LegendItem `json:"legend"`
	Sankey        *SankeyChart `json:"sankey,omitempty"`
	Bar           *BarChart    `json:"bar,omitempty"`
	Pie           *PieChart    `json:"pie,omitempty"`
	CGPA          *CGPAChart   `json:"cgpa,omitempty"`
}

// Elements lists every hoverable primitive of the model.
func (m *ChartModel) Elements() []ChartElement {
	if m == nil {
		return nil
	}
	var out []ChartElement
	if m.Sankey != nil {
		for _, node := range m.Sankey.Nodes {
			out = append(out, node.ChartElement)
		}
		for _, link := range m.Sankey.Links {
			out = append(out, link.ChartElement)
		}
	}
	if m.Bar != nil {
		for _, group := range m.Bar.Groups {
			out = append(out, group.Bars...)
		}
	}
	if m.Pie != nil {
		for _, group := range m.Pie.Groups {
			out = append(out, group.Slices...)
		}
	}
	if m.CGPA != nil {
		for _, group := range m.CGPA.Groups {
			out = append(out, group.Bars...)
		}
	}
	return out
}
