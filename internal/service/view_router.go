package service

import "github.com/noah-isme/student-mental-health-api/internal/models"

var viewTitles = map[models.View]string{
	models.ViewSankey: "Student Mental Health Overview: Sankey Diagram",
	models.ViewBar:    "Treatment Distribution Analysis",
	models.ViewPie:    "Mental Health Condition Distribution",
}

// RouteForDimension returns the view shown after a selection on d. Age and
// treatment selections open the bar chart and condition selections open the
// pie chart.
func RouteForDimension(d models.Dimension) models.View {
	switch d {
	case models.DimensionAge, models.DimensionTreatment:
		return models.ViewBar
	case models.DimensionCondition:
		return models.ViewPie
	}
	return models.ViewSankey
}

// MountedCharts lists the charts drawn while view is active. The overview
// shows every chart; the detail views show only their own.
func MountedCharts(view models.View) []models.ChartKind {
	switch view {
	case models.ViewBar:
		return []models.ChartKind{models.ChartBar}
	case models.ViewPie:
		return []models.ChartKind{models.ChartPie}
	}
	return []models.ChartKind{models.ChartSankey, models.ChartBar, models.ChartPie, models.ChartCGPA}
}

// ViewTitle is the dashboard heading of view.
func ViewTitle(view models.View) string {
	if title, ok := viewTitles[view]; ok {
		return title
	}
	return viewTitles[models.ViewSankey]
}
