// Package docs holds the OpenAPI description of the local wallet API served at /swagger/.
package docs

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
    "paths": {
        "/wallets": {
            "get": {
                "description": "Lists wallet names and addresses, most recently used first. Nothing is decrypted.",
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "List wallets",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.WalletListResponse"}}
                }
            },
            "post": {
                "description": "Encrypts an existing mnemonic under a password and stores it. Replacing an existing wallet needs overwrite and that wallet's currentPassword.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Import wallet",
                "parameters": [
                    {"description": "Wallet data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ImportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.GenerateResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/model.LockoutResponse"}}
                }
            },
            "delete": {
                "description": "Overwrites and removes the wallet file. Best-effort on SSD and copy-on-write filesystems.",
                "tags": ["wallets"],
                "summary": "Delete wallet",
                "parameters": [
                    {"type": "string", "description": "Wallet name", "name": "name", "in": "query", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/wallets/generate": {
            "post": {
                "description": "Generates a new mnemonic, encrypts it and returns it exactly once",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Generate new wallet",
                "parameters": [
                    {"description": "Wallet data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.GenerateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.GenerateResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/wallets/unlock": {
            "post": {
                "description": "Verifies the password and that the mnemonic still derives the stored address. The mnemonic is never returned.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Unlock wallet",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.UnlockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.UnlockResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/model.LockoutResponse"}}
                }
            }
        },
        "/wallets/rename": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Rename wallet",
                "parameters": [
                    {"description": "Names", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.RenameRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/wallets/password": {
            "post": {
                "description": "Re-encrypts the wallet under a new password with a fresh salt and nonce",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Change wallet password",
                "parameters": [
                    {"description": "Passwords", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ChangePasswordRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/model.LockoutResponse"}}
                }
            }
        },
        "/wallets/qr": {
            "get": {
                "description": "Returns the wallet address and its QR code as base64 PNG",
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Address QR code",
                "parameters": [
                    {"type": "string", "description": "Wallet name", "name": "name", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.QRResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/wallets/check": {
            "get": {
                "description": "Validates every wallet file structurally and checks its permissions, without decrypting",
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Check wallet files",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.IntegrityEntry"}}}
                }
            }
        },
        "/password/check": {
            "post": {
                "description": "Evaluates a candidate password against the wallet password policy",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["password"],
                "summary": "Check password strength",
                "parameters": [
                    {"description": "Password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.PasswordCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.PasswordCheckResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "attemptsRemaining": {"type": "integer"}
            }
        },
        "model.LockoutResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "lockedUntil": {"type": "string"},
                "remainingSeconds": {"type": "integer"}
            }
        },
        "model.WalletSummary": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "address": {"type": "string"},
                "createdAt": {"type": "string"},
                "lastAccessedAt": {"type": "string"}
            }
        },
        "model.WalletListResponse": {
            "type": "object",
            "properties": {
                "wallets": {"type": "array", "items": {"$ref": "#/definitions/model.WalletSummary"}}
            }
        },
        "model.ImportRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "mnemonic": {"type": "string"},
                "password": {"type": "string"},
                "overwrite": {"type": "boolean"},
                "currentPassword": {"type": "string"}
            }
        },
        "model.GenerateRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "password": {"type": "string"},
                "words": {"type": "integer"}
            }
        },
        "model.GenerateResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "name": {"type": "string"},
                "address": {"type": "string"},
                "mnemonic": {"type": "string"}
            }
        },
        "model.UnlockRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "model.UnlockResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "model.RenameRequest": {
            "type": "object",
            "properties": {
                "oldName": {"type": "string"},
                "newName": {"type": "string"}
            }
        },
        "model.ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "oldPassword": {"type": "string"},
                "newPassword": {"type": "string"}
            }
        },
        "model.QRResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "QR": {"type": "string"}
            }
        },
        "model.IntegrityEntry": {
            "type": "object",
            "properties": {
                "file": {"type": "string"},
                "name": {"type": "string"},
                "ok": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "model.PasswordCheckRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            }
        },
        "model.PasswordCheckResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "failed": {"type": "array", "items": {"type": "string"}},
                "messages": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Mantra Wallet Vault API",
	Description:      "Local API over the encrypted wallet vault. Bind it to localhost only.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
