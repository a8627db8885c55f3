// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/view": {
            "get": {
                "description": "Current unit and the figure on display. render and figure are omitted until the first cycle renders.",
                "produces": ["application/json"],
                "tags": ["view"],
                "summary": "Get view",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ViewResponse"}}
                }
            }
        },
        "/api/v1/view/toggle": {
            "post": {
                "description": "Flips between °C and °F and runs a render cycle. A failed cycle still answers 200; cycle.status tells the outcome and the previous chart stays on display.",
                "produces": ["application/json"],
                "tags": ["view"],
                "summary": "Toggle unit",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.CycleResponse"}}
                }
            }
        },
        "/api/v1/view/refresh": {
            "post": {
                "description": "Runs a render cycle for the current unit.",
                "produces": ["application/json"],
                "tags": ["view"],
                "summary": "Refresh chart",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.CycleResponse"}}
                }
            }
        },
        "/api/v1/chart": {
            "get": {
                "description": "Fetches telemetry and returns a figure for the given unit without touching the dashboard view.",
                "produces": ["application/json"],
                "tags": ["chart"],
                "summary": "Build chart",
                "parameters": [
                    {"enum": ["C", "F"], "type": "string", "default": "C", "description": "Temperature unit", "name": "unit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/cycles": {
            "get": {
                "description": "Filter cycles by start time (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive (23:59:59.999999999Z).",
                "produces": ["application/json"],
                "tags": ["cycles"],
                "summary": "List render cycles",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range. Date-only treated as end of day.", "name": "to", "in": "query"},
                    {"enum": ["RENDERED", "FAILED", "SUPERSEDED"], "type": "string", "description": "Cycle status", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, cycles", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/telemetry": {
            "get": {
                "description": "Most recent simulator readings, oldest first, in the thermostat export format. Missing readings are -999.",
                "produces": ["application/json"],
                "tags": ["telemetry"],
                "summary": "Simulated telemetry",
                "parameters": [
                    {"maximum": 10000, "minimum": 1, "type": "integer", "description": "Maximum number of records", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object", "additionalProperties": true}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "WebSocket. Sends the chart on display right after connect, then one \"render\" message per rendered cycle.",
                "tags": ["view"],
                "summary": "Render stream",
                "responses": {}
            }
        }
    },
    "definitions": {
        "handlers.ViewResponse": {
            "type": "object",
            "properties": {
                "view": {"$ref": "#/definitions/models.ViewState"},
                "render": {"type": "object"},
                "figure": {"type": "object"}
            }
        },
        "handlers.CycleResponse": {
            "type": "object",
            "properties": {
                "view": {"$ref": "#/definitions/models.ViewState"},
                "cycle": {"$ref": "#/definitions/models.RenderCycle"},
                "figure": {"type": "object"}
            }
        },
        "models.ViewState": {
            "type": "object",
            "properties": {
                "unit": {"type": "string", "enum": ["C", "F"]}
            }
        },
        "models.RenderCycle": {
            "type": "object",
            "properties": {
                "cycle_id": {"type": "string"},
                "started_at": {"type": "string"},
                "finished_at": {"type": "string"},
                "unit": {"type": "string"},
                "status": {"type": "string", "enum": ["RENDERED", "FAILED", "SUPERSEDED"]},
                "error": {"type": "string"},
                "points": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Thermostat Dashboard API",
	Description:      "Thermostat telemetry chart with a °C/°F toggle.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
