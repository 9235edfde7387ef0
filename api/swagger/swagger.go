package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "filmWithAi Scheduler API",
        "description": "Shooting-schedule optimization service for filmWithAi projects",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Schedule generation and export"},
        {"name": "Snapshots", "description": "Persisted schedule versions"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/schedules": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate an optimized shooting schedule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/save": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Persist a generated proposal as a snapshot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/proposals/{id}/export": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Export a proposal's call sheet",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/api/v1/schedules/proposals/{id}/breakdown/export": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Export a proposal's production breakdown",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/api/v1/schedules/snapshots": {
            "get": {
                "tags": ["Snapshots"],
                "summary": "List stored snapshots for a project",
                "parameters": [
                    {"name": "projectId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/snapshots/{id}": {
            "get": {
                "tags": ["Snapshots"],
                "summary": "Load one snapshot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Snapshots"],
                "summary": "Delete a draft snapshot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/schedules/cache": {
            "delete": {
                "tags": ["Schedules"],
                "summary": "Drop cached schedules for a project",
                "parameters": [
                    {"name": "projectId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "SceneInput": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "sceneNumber": {"type": "integer"},
                "title": {"type": "string"},
                "onScreenDurationText": {"type": "string"},
                "location": {"type": "string"},
                "cast": {"type": "array", "items": {"type": "string"}},
                "timeOfDay": {"type": "string"},
                "equipment": {"type": "array", "items": {"type": "string"}},
                "crew": {"type": "array", "items": {"type": "string"}},
                "props": {"type": "array", "items": {"type": "string"}},
                "costumes": {"type": "array", "items": {"type": "string"}},
                "specialRequirements": {"type": "array", "items": {"type": "string"}}
            }
        },
        "GenerateScheduleRequest": {
            "type": "object",
            "required": ["projectId"],
            "properties": {
                "projectId": {"type": "string"},
                "scenes": {"type": "array", "items": {"$ref": "#/definitions/SceneInput"}},
                "startDate": {"type": "string", "example": "2026-03-02"}
            }
        },
        "SaveScheduleRequest": {
            "type": "object",
            "required": ["proposalId"],
            "properties": {
                "proposalId": {"type": "string"},
                "confirm": {"type": "boolean"}
            }
        },
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
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalItems": {"type": "integer"},
                "totalPages": {"type": "integer"}
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
