// Package docs registers the OpenAPI document served by the swagger UI.
// Keep it in step with the @Router annotations on the handlers.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/oauth/token": {
            "post": {
                "tags": ["OAuth2"],
                "summary": "Log in with user name and password",
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "parameters": [
                    {"name": "username", "in": "formData", "type": "string", "required": true},
                    {"name": "password", "in": "formData", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Token"}},
                    "401": {"description": "Incorrect username or password", "schema": {"$ref": "#/definitions/Error"}},
                    "429": {"description": "Too many attempts", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/oauth/refresh": {
            "post": {
                "tags": ["OAuth2"],
                "summary": "Exchange the refresh cookie for a new access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Token"}},
                    "401": {"description": "Could not validate credentials", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/oauth/logout": {
            "post": {"tags": ["OAuth2"], "summary": "Clear the refresh cookie", "responses": {"200": {"description": "OK"}}}
        },
        "/oauth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["OAuth2"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["OAuth2"],
                "summary": "Update own profile",
                "parameters": [{"name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/User"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}},
                    "409": {"description": "User name or email taken", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/oauth/me/change-password": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["OAuth2"],
                "summary": "Change own password",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePassword"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Incorrect current password", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/health": {
            "get": {"tags": ["Health"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Database unavailable"}}
            }
        },
        "/members": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "List members",
                "parameters": [
                    {"name": "skip", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer", "maximum": 1000}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Member"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "Create member",
                "parameters": [{"name": "member", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Member"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Member"}},
                    "400": {"description": "Validation failed or supervisor not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/members/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "Get member",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Member"}},
                    "404": {"description": "Member not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "Update member",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "member", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Member"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Member"}},
                    "400": {"description": "Validation failed, supervisor not found or cycle", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Member not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "Delete member",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Member not found"}}
            }
        },
        "/members/{id}/supervisor": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "Get supervisor",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Member"}},
                    "404": {"description": "Member or supervisor not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/members/{id}/subordinates": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "Get subordinates",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Member"}}}}
            }
        },
        "/members/{id}/top-manager": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "Get top manager",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Member"}}}
            }
        },
        "/members/{id}/org-tree": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "Get organization subtree in pre-order",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Member"}}}}
            }
        },
        "/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "List users", "responses": {"200": {"description": "OK"}}},
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Create user",
                "responses": {"201": {"description": "Created"}, "409": {"description": "User already exists"}}
            }
        },
        "/users/{id}/member": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Get the member record of a user",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Member"}}, "404": {"description": "Member not found"}}
            }
        },
        "/objectives": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Objectives"], "summary": "List objectives", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Objectives"], "summary": "Create objective", "responses": {"201": {"description": "Created"}}}
        },
        "/key-results": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Key Results"], "summary": "List key results", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Key Results"], "summary": "Create key result", "responses": {"201": {"description": "Created"}}}
        },
        "/meetings": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Meetings"], "summary": "List meetings", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Meetings"], "summary": "Create meeting", "responses": {"201": {"description": "Created"}}}
        },
        "/meetings/{id}/associations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Meetings"],
                "summary": "Get all associations for a meeting",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Meeting not found"}}
            }
        },
        "/messages": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Messages"], "summary": "List messages", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Messages"], "summary": "Create message", "responses": {"201": {"description": "Created"}}}
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {"detail": {"type": "string"}}
        },
        "Token": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "bearer"}
            }
        },
        "ChangePassword": {
            "type": "object",
            "properties": {
                "current_password": {"type": "string"},
                "new_password": {"type": "string"}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_name": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "position": {"type": "string"},
                "notes": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "Member": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "position": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "note": {"type": "string"},
                "supervisor_id": {"type": "integer"},
                "user_id": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds the values substituted into the template. BasePath is set
// at startup from the configured API prefix.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Lambda API",
	Description:      "Goal tracking: members and reporting lines, objectives, key results, meetings and messages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
