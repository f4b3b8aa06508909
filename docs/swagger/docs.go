// Package swagger registers the OpenAPI description of the device endpoints
// with swag so the server can serve it under /swagger.
package swagger

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
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/devices": {
            "get": {
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "List Categories",
                "responses": {
                    "200": {
                        "description": "Categories",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/model.CategoryConfig"}}
                    }
                }
            }
        },
        "/devices/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Session Status",
                "responses": {
                    "200": {
                        "description": "Busy flag",
                        "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}
                    }
                }
            }
        },
        "/devices/events": {
            "get": {
                "produces": ["text/event-stream"],
                "tags": ["devices"],
                "summary": "Status Events",
                "responses": {"200": {"description": "Server-sent status messages"}}
            }
        },
        "/devices/{category}/sync": {
            "post": {
                "description": "Converges the target to the desired records of a category and verifies the result.",
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Synchronize Category",
                "parameters": [
                    {"type": "string", "description": "Category name (e.g. 'Valves')", "name": "category", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Phase outcome", "schema": {"$ref": "#/definitions/sync.PhaseOutcome"}},
                    "404": {"description": "Unknown category", "schema": {"$ref": "#/definitions/error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/devices/{category}/compare": {
            "get": {
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Compare Category",
                "parameters": [
                    {"type": "string", "description": "Category name", "name": "category", "in": "path", "required": true},
                    {"type": "boolean", "description": "Keep records flagged for deletion", "name": "preserve", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Comparison", "schema": {"$ref": "#/definitions/model.DiffResult"}},
                    "404": {"description": "Unknown category", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/devices/{category}/plan": {
            "get": {
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Plan Category Sync",
                "parameters": [
                    {"type": "string", "description": "Category name", "name": "category", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Planned actions", "schema": {"$ref": "#/definitions/reconcile.ConstantPlan"}},
                    "404": {"description": "Unknown category", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/devices/{category}/view": {
            "get": {
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Last Comparison",
                "parameters": [
                    {"type": "string", "description": "Category name", "name": "category", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Comparison", "schema": {"$ref": "#/definitions/model.DiffResult"}},
                    "404": {"description": "No comparison yet", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/devices/{category}/sizing": {
            "get": {
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Target Sizing",
                "parameters": [
                    {"type": "string", "description": "Category name", "name": "category", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Sizing", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/devices/{category}/records/{id}/delete": {
            "post": {
                "tags": ["devices"],
                "summary": "Mark Record For Deletion",
                "parameters": [
                    {"type": "string", "description": "Category name", "name": "category", "in": "path", "required": true},
                    {"type": "integer", "description": "Record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/error"}},
                    "404": {"description": "Unknown category or record", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        }
    },
    "definitions": {
        "error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "model.CategoryConfig": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "kind": {"type": "string"},
                "sheet": {"type": "string"},
                "constant_table": {"type": "string"},
                "sizing_table": {"type": "string"},
                "block": {"type": "string"},
                "array": {"type": "string"},
                "sizing_limit_key": {"type": "string"},
                "sizing_constant": {"type": "string"}
            }
        },
        "model.DiffResult": {
            "type": "object",
            "properties": {
                "records": {"type": "array", "items": {"type": "object"}},
                "matched": {"type": "integer"},
                "mismatched": {"type": "integer"},
                "new": {"type": "integer"},
                "orphaned": {"type": "integer"},
                "all_match": {"type": "boolean"}
            }
        },
        "reconcile.Action": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["delete", "rename", "create"]},
                "id": {"type": "integer"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "reconcile.ConstantPlan": {
            "type": "object",
            "properties": {
                "actions": {"type": "array", "items": {"$ref": "#/definitions/reconcile.Action"}},
                "summary": {
                    "type": "object",
                    "properties": {
                        "deletes": {"type": "integer"},
                        "renames": {"type": "integer"},
                        "creates": {"type": "integer"},
                        "unchanged": {"type": "integer"}
                    }
                }
            }
        },
        "sync.PhaseOutcome": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "sizing": {"type": "boolean"},
                "constants": {"type": "boolean"},
                "compile": {"type": "boolean"},
                "comments": {"type": "boolean"},
                "verified": {"type": "boolean"},
                "overall": {"type": "boolean"},
                "aborted": {"type": "boolean"},
                "critical": {"type": "boolean"},
                "compile_errors": {"type": "integer"},
                "diff": {"$ref": "#/definitions/model.DiffResult"},
                "duration": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Device Sync API",
	Description:      "Compares and synchronizes device categories against the engineering project.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
