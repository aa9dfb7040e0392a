// Package docs registers the OpenAPI description served under /swagger.
// The document is maintained by hand: update docTemplate together with the
// swag annotations on handlers/sport_handler.go.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness and database check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/sports": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sports"],
                "summary": "List sports",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SportCollection"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sports"],
                "summary": "Create a sport",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SportDocument"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/Error"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Error"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/sports/{sportID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sports"],
                "summary": "Show a sport",
                "parameters": [
                    {"type": "integer", "name": "sportID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SportDocument"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sports"],
                "summary": "Update a sport",
                "parameters": [
                    {"type": "integer", "name": "sportID", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SportDocument"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Error"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["sports"],
                "summary": "Delete a sport",
                "parameters": [
                    {"type": "integer", "name": "sportID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/sports/{sportID}/logo": {
            "put": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["sports"],
                "summary": "Upload a sport logo",
                "parameters": [
                    {"type": "integer", "name": "sportID", "in": "path", "required": true},
                    {"type": "file", "name": "logo", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SportDocument"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/Error"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        }
    },
    "definitions": {
        "Sport": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "logo_url": {"type": "string"}
            }
        },
        "SportDocument": {
            "type": "object",
            "properties": {"sports": {"$ref": "#/definitions/Sport"}}
        },
        "SportCollection": {
            "type": "object",
            "properties": {"sports": {"type": "array", "items": {"$ref": "#/definitions/Sport"}}}
        },
        "SportRequest": {
            "type": "object",
            "properties": {
                "sports": {"type": "object", "properties": {"name": {"type": "string", "maxLength": 255}}}
            }
        },
        "Error": {
            "type": "object",
            "properties": {"error": {}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Sports API",
	Description:      "CRUD API for sports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
