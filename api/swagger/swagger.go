package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Registration API",
        "description": "CRUD backend for the student registration portal",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student roster management"}
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
        "/api/student": {
            "get": {
                "tags": ["Students"],
                "summary": "List all students in ascending id order",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Student"}}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Student"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/student/{id}": {
            "put": {
                "tags": ["Students"],
                "summary": "Update a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Student"}},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/student/export": {
            "get": {
                "tags": ["Students"],
                "summary": "Export the roster as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Rendered roster"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "responses": {
                    "200": {"description": "Metrics exposition"}
                }
            }
        }
    },
    "definitions": {
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "course": {"type": "string", "enum": ["Java", ".Net", "Angular"]},
                "registered_at": {"type": "string", "format": "date-time"}
            }
        },
        "StudentInput": {
            "type": "object",
            "required": ["firstName", "lastName", "email", "course"],
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "course": {"type": "string", "enum": ["Java", ".Net", "Angular"]}
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
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/APIError"}
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
