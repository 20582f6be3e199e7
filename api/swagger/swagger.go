package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Mental Health Dashboard API",
        "description": "Coordinated filter, view and tooltip state for the student mental health charts",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Dashboard", "description": "Filter selection, active view and tooltip"},
        {"name": "Charts", "description": "Chart models, pointer events and exports"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Observability"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "Metrics exposition"}}
            }
        },
        "/api/v1/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Instrumentation summary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Current dashboard state",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}}}
            }
        },
        "/api/v1/dashboard/events": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Stream dashboard snapshots",
                "produces": ["text/event-stream"],
                "responses": {"200": {"description": "snapshot events carrying a Dashboard payload"}}
            }
        },
        "/api/v1/dashboard/selection": {
            "post": {
                "tags": ["Dashboard"],
                "summary": "Select or deselect a filter value",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ToggleSelectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}},
                    "400": {"description": "Unknown dimension or value", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/selection/{dimension}": {
            "delete": {
                "tags": ["Dashboard"],
                "summary": "Remove the filter tag of a dimension",
                "parameters": [
                    {"in": "path", "name": "dimension", "required": true, "type": "string", "enum": ["age", "condition", "treatment"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}},
                    "400": {"description": "Unknown dimension", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/node-select": {
            "post": {
                "tags": ["Dashboard"],
                "summary": "Apply a flow diagram node click",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/NodeSelectRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}}}
            }
        },
        "/api/v1/dashboard/reset": {
            "post": {
                "tags": ["Dashboard"],
                "summary": "Clear every filter and return to the overview",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}}}
            }
        },
        "/api/v1/dashboard/tags/{dimension}/hover": {
            "post": {
                "tags": ["Dashboard"],
                "summary": "Hover a filter tag",
                "parameters": [
                    {"in": "path", "name": "dimension", "required": true, "type": "string"},
                    {"in": "body", "name": "payload", "schema": {"$ref": "#/definitions/Pointer"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}},
                    "404": {"description": "No active tag", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/hover": {
            "delete": {
                "tags": ["Dashboard"],
                "summary": "Hide the tooltip",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}}}
            }
        },
        "/api/v1/charts/{kind}": {
            "get": {
                "tags": ["Charts"],
                "summary": "Render a chart under the current filter",
                "parameters": [{"$ref": "#/parameters/ChartKind"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Chart is not part of the active view", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Dataset could not be loaded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/charts/{kind}/pointer-enter": {
            "post": {
                "tags": ["Charts"],
                "summary": "Move the pointer onto a chart element",
                "parameters": [
                    {"$ref": "#/parameters/ChartKind"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/PointerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}},
                    "404": {"description": "Unknown element", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/charts/{kind}/pointer-leave": {
            "post": {
                "tags": ["Charts"],
                "summary": "Move the pointer off a chart element",
                "parameters": [
                    {"$ref": "#/parameters/ChartKind"},
                    {"in": "query", "name": "elementId", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}}}
            }
        },
        "/api/v1/charts/{kind}/click": {
            "post": {
                "tags": ["Charts"],
                "summary": "Click a chart element",
                "parameters": [
                    {"$ref": "#/parameters/ChartKind"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ClickRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}},
                    "400": {"description": "Element is not selectable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/charts/{kind}/export": {
            "get": {
                "tags": ["Charts"],
                "summary": "Download a chart as a table",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/ChartKind"},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "404": {"description": "Exports disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "parameters": {
        "ChartKind": {"in": "path", "name": "kind", "required": true, "type": "string", "enum": ["sankey", "bar", "pie", "cgpa"]}
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "Pointer": {
            "type": "object",
            "properties": {
                "x": {"type": "number"},
                "y": {"type": "number"}
            }
        },
        "ToggleSelectionRequest": {
            "type": "object",
            "required": ["dimension", "value"],
            "properties": {
                "dimension": {"type": "string", "enum": ["age", "condition", "treatment"]},
                "value": {"type": "string", "example": "Panic Attack"}
            }
        },
        "NodeSelectRequest": {
            "type": "object",
            "required": ["name", "category"],
            "properties": {
                "name": {"type": "string", "example": "19"},
                "category": {"type": "string", "enum": ["age", "condition", "treatment"]}
            }
        },
        "PointerRequest": {
            "type": "object",
            "required": ["elementId"],
            "properties": {
                "elementId": {"type": "string", "example": "node-7"},
                "x": {"type": "number"},
                "y": {"type": "number"}
            }
        },
        "ClickRequest": {
            "type": "object",
            "required": ["elementId"],
            "properties": {
                "elementId": {"type": "string", "example": "node-7"}
            }
        },
        "Dashboard": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "version": {"type": "integer"},
                "title": {"type": "string"},
                "filters": {
                    "type": "object",
                    "properties": {
                        "selectedAge": {"type": "string"},
                        "selectedCondition": {"type": "string"},
                        "selectedTreatment": {"type": "string"}
                    }
                },
                "activeView": {"type": "string", "enum": ["sankey", "bar", "pie"]},
                "isTransitioning": {"type": "boolean"},
                "tags": {"type": "array", "items": {"type": "object"}},
                "controls": {
                    "type": "object",
                    "properties": {
                        "showReset": {"type": "boolean"},
                        "showBackToOverview": {"type": "boolean"}
                    }
                },
                "tooltip": {"type": "object"},
                "mountedCharts": {"type": "array", "items": {"type": "string"}}
            }
        },
        "DashboardEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Dashboard"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
