package models

// View is the chart occupying the main dashboard slot.
type View string

const (
	ViewSankey View = "sankey"
	ViewBar    View = "bar"
	ViewPie    View = "pie"
)

// ChartKind identifies a chart adapter.
type ChartKind string

const (
	ChartSankey ChartKind = "sankey"
	ChartBar    ChartKind = "bar"
	ChartPie    ChartKind = "pie"
	ChartCGPA   ChartKind = "cgpa"
)

// ChartKinds lists every adapter kind.
var ChartKinds = []ChartKind{ChartSankey, ChartBar, ChartPie, ChartCGPA}

// ParseChartKind resolves a chart kind from its wire name.
func ParseChartKind(raw string) (ChartKind, bool) {
	for _, k := range ChartKinds {
		if string(k) == raw {
			return k, true
		}
	}
	return "", false
}

// ElementKind discriminates hovered chart primitives.
type ElementKind string

const (
	ElementNode ElementKind = "node"
	ElementLink ElementKind = "link"
	ElementBar  ElementKind = "bar"
	ElementPie  ElementKind = "pie"
)

// Pointer is a viewport position.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HoveredElement describes the chart primitive under the pointer.
type HoveredElement struct {
	Kind       ElementKind `json:"type"`
	Category   string      `json:"category,omitempty"`
	Name       string      `json:"name"`
	Value      float64     `json:"value"`
	Percentage *float64    `json:"percentage,omitempty"`
	Pointer    Pointer     `json:"coordinates"`
}

// HoverState is the tooltip store content. Owner names the chart that set
// the element; it is empty for elements set outside of a chart.
type HoverState struct {
	Element *HoveredElement
	Owner   ChartKind
}

// ViewState is the active view and its presentation settle flag.
type ViewState struct {
	Active        View
	Transitioning bool
}

// DashboardSnapshot is a consistent copy of the dashboard state. Version
// increases with every mutation.
type DashboardSnapshot struct {
	ID      string
	Version uint64
	Filter  FilterState
	View    ViewState
	Hover   HoverState
}
