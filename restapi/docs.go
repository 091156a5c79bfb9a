package restapi

import (
	"github.com/swaggo/swag"

	"github.com/sharedcode/lrc"
)

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
        "/schemes": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["Schemes"],
                "summary": "LookupScheme returns the first stored scheme of a configuration.",
                "parameters": [
                    {"type": "integer", "name": "groups", "in": "query", "required": true},
                    {"type": "integer", "name": "length", "in": "query", "required": true},
                    {"type": "integer", "name": "disks", "in": "query", "required": true},
                    {"type": "integer", "default": 1, "name": "global_s", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/lrc.Record"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Schemes"],
                "summary": "AddScheme appends a scheme record.",
                "parameters": [
                    {"description": "Scheme record", "name": "record", "in": "body", "required": true, "schema": {"$ref": "#/definitions/lrc.Record"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/lrc.Record"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/schemes/compile": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Schemes"],
                "summary": "CompileScheme compiles a scheme descriptor.",
                "parameters": [
                    {"description": "Descriptor and compiler options", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/restapi.CompileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.CompileResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "lrc.Record": {
            "type": "object",
            "properties": {
                "groups": {"type": "integer"},
                "length": {"type": "integer"},
                "disks": {"type": "integer"},
                "global_s": {"type": "integer"},
                "scheme": {"type": "string"}
            }
        },
        "restapi.CompileRequest": {
            "type": "object",
            "required": ["scheme"],
            "properties": {
                "scheme": {"type": "string"},
                "multi_global": {"type": "boolean"},
                "local_syndrome_base": {"type": "integer"}
            }
        },
        "restapi.CompileResponse": {
            "type": "object",
            "properties": {
                "layout": {"type": "object"},
                "encoded": {"type": "array", "items": {"type": "string"}},
                "data": {"type": "array", "items": {"type": "string"}},
                "config": {"type": "string"},
                "usable": {"type": "boolean"},
                "usable_error": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          lrc.Version,
	Host:             "",
	BasePath:         BasePath,
	Schemes:          []string{},
	Title:            "LRC scheme API",
	Description:      "Compiles LRC scheme descriptors and serves the scheme repository.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
