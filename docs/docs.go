// Package docs holds the OpenAPI description served by the Swagger UI.
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
        "/extract": {
            "get": {
                "produces": ["application/json"],
                "summary": "Liveness probe for the extraction route",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ProbeResponse"}}}
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Extract slab dimensions from a plan image with the default profile",
                "parameters": [
                    {"type": "file", "name": "file", "in": "formData", "required": true, "description": "Plan image or PDF"}
                ],
                "responses": {
                    "200": {"description": "Sanitized slab record", "schema": {"$ref": "#/definitions/types.Laje"}},
                    "400": {"description": "Missing or wrongly encoded upload", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Missing credential or unexpected failure", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Upstream model error, detail carries its body verbatim", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "options": {
                "summary": "CORS preflight",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/extract/{profile}": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Extract with a named profile; many-shaped profiles answer with an array",
                "parameters": [
                    {"type": "string", "name": "profile", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Sanitized slab record or list of records"},
                    "400": {"description": "Bad upload", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Unknown profile", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Upstream error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/profiles": {
            "get": {
                "produces": ["application/json"],
                "summary": "List extraction profiles",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ProfilesResponse"}}}
            }
        }
    },
    "definitions": {
        "types.Laje": {
            "type": "object",
            "properties": {
                "largura": {"type": "number", "example": 3.5},
                "comprimento": {"type": "number", "example": 6},
                "alturaViga": {"type": "string", "example": "H12"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "detail": {"type": "string"},
                "code": {"type": "integer"}
            }
        },
        "types.ProbeResponse": {
            "type": "object",
            "properties": {
                "route": {"type": "string", "example": "extract"},
                "ok": {"type": "boolean", "example": true}
            }
        },
        "types.ProfileInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "surface": {"type": "string"},
                "shape": {"type": "string"},
                "model": {"type": "string"},
                "schema": {"type": "boolean"},
                "default": {"type": "boolean"}
            }
        },
        "types.ProfilesResponse": {
            "type": "object",
            "properties": {
                "profiles": {"type": "array", "items": {"$ref": "#/definitions/types.ProfileInfo"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "lajed API",
	Description:      "Extracts slab dimensions from construction plan images.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
