package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Library Purchase API",
        "description": "Book purchase workflow service for the academic library",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session management"},
        {"name": "Sheets", "description": "Purchase sheet lifecycle"},
        {"name": "Requests", "description": "Teacher book requests"},
        {"name": "Comparisons", "description": "Shop price comparison"},
        {"name": "Purchases", "description": "Finalized purchases"},
        {"name": "History", "description": "Archived purchase cycles"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sheets": {
            "get": {
                "tags": ["Sheets"],
                "summary": "List purchase sheets",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "assignedTo", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sheets"],
                "summary": "Create purchase sheet",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSheetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sheets/{id}/compare": {
            "post": {
                "tags": ["Sheets"],
                "summary": "Move sheet to comparison phase",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Sheet has no requests"}
                }
            }
        },
        "/sheets/consolidate": {
            "post": {
                "tags": ["Sheets"],
                "summary": "Consolidate pending requests",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConsolidateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests": {
            "post": {
                "tags": ["Requests"],
                "summary": "Create book request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookRequestRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/comparisons/board": {
            "get": {
                "tags": ["Comparisons"],
                "summary": "Price comparison board",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/comparisons/prices": {
            "put": {
                "tags": ["Comparisons"],
                "summary": "Save shop quotes",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SavePricesRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/purchases/finalize": {
            "post": {
                "tags": ["Purchases"],
                "summary": "Finalize selected books",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FinalizeSelectedRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No books with valid prices"}
                }
            }
        },
        "/purchases/finalize-all": {
            "post": {
                "tags": ["Purchases"],
                "summary": "Finalize all compared books",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/purchases/{id}/move-back": {
            "post": {
                "tags": ["Purchases"],
                "summary": "Move purchase back to comparison",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/history/close": {
            "post": {
                "tags": ["History"],
                "summary": "Close the current purchase cycle",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/history/cycles": {
            "get": {
                "tags": ["History"],
                "summary": "List archived cycles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateSheetRequest": {
            "type": "object",
            "properties": {
                "sheetName": {"type": "string"},
                "department": {"type": "string"},
                "assignedTo": {"type": "string"}
            },
            "required": ["sheetName", "department"]
        },
        "ConsolidateRequest": {
            "type": "object",
            "properties": {
                "sheetName": {"type": "string"},
                "teacherIds": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["teacherIds"]
        },
        "CreateBookRequestRequest": {
            "type": "object",
            "properties": {
                "sheetId": {"type": "string"},
                "bookName": {"type": "string"},
                "author": {"type": "string"},
                "edition": {"type": "string"},
                "quantity": {"type": "integer"}
            },
            "required": ["bookName", "author", "edition", "quantity"]
        },
        "SavePricesRequest": {
            "type": "object",
            "properties": {
                "bookIds": {"type": "array", "items": {"type": "string"}},
                "prices": {"type": "object"}
            },
            "required": ["bookIds"]
        },
        "FinalizeSelectedRequest": {
            "type": "object",
            "properties": {
                "bookRequestIds": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["bookRequestIds"]
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
