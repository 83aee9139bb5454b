package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "HMTC Portal Gateway",
        "description": "Site routes, cached backend proxies and schedule events for the HMTC ITS portal",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http", "https"],
    "tags": [
        {"name": "Schedule", "description": "Time-gated feature windows"},
        {"name": "Magang", "description": "Internship applications"},
        {"name": "Galleries", "description": "Cached gallery reads"},
        {"name": "Ops", "description": "Health and metrics"}
    ],
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {
            "get": {"tags": ["Ops"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {
                "tags": ["Ops"],
                "summary": "Readiness with dependency checks",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "Degraded"}}
            }
        },
        "/metrics": {
            "get": {"tags": ["Ops"], "summary": "Prometheus metrics", "produces": ["text/plain"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Whether a path is inside its schedule window",
                "parameters": [{"name": "path", "in": "query", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleStatus"}},
                    "400": {"description": "Missing path", "schema": {"$ref": "#/definitions/SiteError"}}
                }
            }
        },
        "/api/apply-magang": {
            "post": {
                "tags": ["Magang"],
                "summary": "Submit a magang application",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "nama", "in": "formData", "type": "string", "required": true},
                    {"name": "nrp", "in": "formData", "type": "string", "required": true},
                    {"name": "kelompokKP", "in": "formData", "type": "string", "required": true},
                    {"name": "mindmap", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "201": {"description": "Received", "schema": {"$ref": "#/definitions/ApplyMagangResponse"}},
                    "400": {"description": "Invalid form", "schema": {"$ref": "#/definitions/SiteError"}},
                    "403": {"description": "Window closed", "schema": {"$ref": "#/definitions/SiteError"}},
                    "409": {"description": "NRP already applied", "schema": {"$ref": "#/definitions/SiteError"}}
                }
            }
        },
        "/api/magang/exports": {
            "post": {
                "tags": ["Magang"],
                "summary": "Queue an applicant roster export (admin)",
                "security": [{"Bearer": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing token"},
                    "403": {"description": "Not an admin"}
                }
            }
        },
        "/api/magang/exports/{id}": {
            "get": {
                "tags": ["Magang"],
                "summary": "Export job status (admin)",
                "security": [{"Bearer": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Unknown job"}}
            }
        },
        "/api/magang/exports/{id}/download": {
            "get": {
                "tags": ["Magang"],
                "summary": "Download a finished export (admin)",
                "security": [{"Bearer": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "File"}, "409": {"description": "Not ready"}}
            }
        },
        "/api/galleries": {
            "get": {
                "tags": ["Galleries"],
                "summary": "List gallery items (cached)",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "tag", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/galleries/{id}": {
            "get": {
                "tags": ["Galleries"],
                "summary": "Gallery item detail (cached)",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Galleries"],
                "summary": "Delete a gallery item and invalidate cached lists",
                "security": [{"Bearer": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"204": {"description": "Deleted"}, "401": {"description": "Missing token"}}
            }
        },
        "/events/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "WebSocket stream of schedule changes",
                "responses": {"101": {"description": "Switching protocols"}}
            }
        }
    },
    "definitions": {
        "ScheduleStatus": {
            "type": "object",
            "properties": {"active": {"type": "boolean"}}
        },
        "SiteError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ApplyMagangResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "applicant": {"type": "object"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "properties": {"format": {"type": "string", "enum": ["csv", "pdf"]}}
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "totalCount": {"type": "integer"}
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
