// Package docs holds the generated Swagger specification.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/v1/orders/{order_id}/shipment": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Get the shipment record for an order",
                "parameters": [
                    {"type": "string", "name": "order_id", "in": "path", "required": true},
                    {"type": "boolean", "name": "events", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Create the carrier shipment for an order",
                "parameters": [
                    {"type": "string", "name": "order_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/v1/orders/{order_id}/shipment/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Cancel the carrier shipment for an order",
                "parameters": [
                    {"type": "string", "name": "order_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/v1/orders/{order_id}/shipment/reconcile-cod": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Re-check the carrier back office for the COD collection document",
                "parameters": [
                    {"type": "string", "name": "order_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/v1/orders/{order_id}/shipment/recover-tracking": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Retry barcode resolution for a pending shipment",
                "parameters": [
                    {"type": "string", "name": "order_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/v1/orders/{order_id}/shipment/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Poll the carrier for the current shipment status",
                "parameters": [
                    {"type": "string", "name": "order_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/v1/shipments/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Enqueue status refreshes for a batch of orders",
                "responses": {
                    "202": {"description": "Accepted"},
                    "400": {"description": "Bad Request"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cargo Gateway API",
	Description:      "Carrier shipment integration service for the storefront back office.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
