// Package docs holds the OpenAPI document served at /swagger. It is
// maintained by hand alongside the handler annotations; router tests check
// that every /api/v1 route is documented.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Booking Curve Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/admin/jobs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List reload jobs",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Maximum jobs returned (1-100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Only jobs in this status", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/admin/jobs/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Get a reload job",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/admin/reload": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Reload the booking table in the background",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handlers.ReloadResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/bars": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Per-group counts above a threshold",
                "parameters": [
                    {"type": "integer", "description": "Threshold, defaults to the range minimum", "name": "threshold", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.BarFrame"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/export/bars.png": {
            "get": {
                "produces": ["image/png"],
                "tags": ["export"],
                "summary": "Bar chart for one threshold as PNG",
                "parameters": [
                    {"type": "integer", "description": "Threshold", "name": "threshold", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/export/scatter.png": {
            "get": {
                "produces": ["image/png"],
                "tags": ["export"],
                "summary": "Scatter plot for one group and threshold as PNG",
                "parameters": [
                    {"type": "string", "description": "Group label", "name": "group", "in": "query"},
                    {"type": "integer", "description": "Threshold", "name": "threshold", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/figures/bars": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Every precomputed bar frame",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.BarFigure"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/figures/scatter": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Every precomputed scatter frame with axis range and color scale",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ScatterFigure"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/groups": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Group labels in display order",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/scatter": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Rows of one group above a threshold",
                "parameters": [
                    {"type": "string", "description": "Group label, defaults to RMA", "name": "group", "in": "query"},
                    {"type": "integer", "description": "Threshold, defaults to the range minimum", "name": "threshold", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ScatterFrame"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Loaded dataset summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SummaryResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/thresholds": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Threshold range offered by the sliders",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ThresholdsResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "request_id": {"type": "string"}
                    }
                },
                "timestamp": {"type": "string"}
            }
        },
        "handlers.ReloadResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "job_id": {"type": "string"},
                "status": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handlers.SummaryResponse": {
            "type": "object",
            "properties": {
                "source": {"type": "string"},
                "rows": {"type": "integer"},
                "loaded_at": {"type": "string"},
                "date_range": {"$ref": "#/definitions/models.DateRange"},
                "max_counts": {"type": "object", "additionalProperties": {"type": "integer"}},
                "threshold_range": {"$ref": "#/definitions/models.ThresholdRange"},
                "built_at": {"type": "string"},
                "frames": {"type": "integer"}
            }
        },
        "handlers.ThresholdsResponse": {
            "type": "object",
            "properties": {
                "min": {"type": "integer"},
                "max": {"type": "integer"},
                "values": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "models.BarFigure": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "groups": {"type": "array", "items": {"type": "string"}},
                "thresholds": {"type": "array", "items": {"type": "integer"}},
                "frames": {"type": "array", "items": {"$ref": "#/definitions/models.BarFrame"}}
            }
        },
        "models.BarFrame": {
            "type": "object",
            "properties": {
                "threshold": {"type": "integer"},
                "groups": {"type": "array", "items": {"type": "string"}},
                "counts": {"type": "array", "items": {"type": "integer"}},
                "y_max": {"type": "number"}
            }
        },
        "models.DateRange": {
            "type": "object",
            "properties": {
                "min": {"type": "string", "example": "2024-01-01"},
                "max": {"type": "string", "example": "2024-06-30"}
            }
        },
        "models.ScatterFigure": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "groups": {"type": "array", "items": {"type": "string"}},
                "thresholds": {"type": "array", "items": {"type": "integer"}},
                "axis_range": {"$ref": "#/definitions/models.DateRange"},
                "colorscale": {"type": "array", "items": {"type": "array", "items": {}}},
                "marker_size": {"type": "integer"},
                "frames": {"type": "array", "items": {"$ref": "#/definitions/models.ThresholdFrames"}}
            }
        },
        "models.ScatterFrame": {
            "type": "object",
            "properties": {
                "group": {"type": "string", "example": "RMA"},
                "threshold": {"type": "integer"},
                "x": {"type": "array", "items": {"type": "string"}},
                "y": {"type": "array", "items": {"type": "string"}},
                "color": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "models.ThresholdFrames": {
            "type": "object",
            "properties": {
                "threshold": {"type": "integer"},
                "traces": {"type": "array", "items": {"$ref": "#/definitions/models.ScatterFrame"}}
            }
        },
        "models.ThresholdRange": {
            "type": "object",
            "properties": {
                "min": {"type": "integer"},
                "max": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Booking Curve API",
	Description:      "Threshold-filtered reservation counts behind the booking curve dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
