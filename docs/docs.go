// Package docs registers the OpenAPI document served at /swagger/*.
// Regenerate it with `swag init` after changing handler annotations.
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
        "/session": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/session/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Log out and drop the user's booking drafts",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/rooms/{id}/blocked-dates": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Availability"],
                "summary": "Blocked dates of a room",
                "parameters": [{"type": "integer", "description": "Room ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/booking/quote": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Price a stay",
                "parameters": [{"description": "Quote", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/entities.QuoteRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/booking/drafts": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Open a booking draft",
                "parameters": [{"description": "Room to book", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/entities.OpenDraftRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/booking/drafts/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Get a booking draft",
                "parameters": [{"type": "string", "description": "Draft ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Cancel a booking draft",
                "parameters": [{"type": "string", "description": "Draft ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/booking/drafts/{id}/room": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Select the room of a draft",
                "parameters": [
                    {"type": "string", "description": "Draft ID", "name": "id", "in": "path", "required": true},
                    {"description": "Room", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/entities.SelectRoomRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/booking/drafts/{id}/availability/retry": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Reload blocked dates",
                "parameters": [{"type": "string", "description": "Draft ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/booking/drafts/{id}/check-in": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Pick the check-in date",
                "parameters": [
                    {"type": "string", "description": "Draft ID", "name": "id", "in": "path", "required": true},
                    {"description": "Date (YYYY-MM-DD)", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/entities.PickDateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/booking/drafts/{id}/check-out": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Pick the check-out date",
                "description": "A check-out on or before the check-in leaves the draft in range_invalid",
                "parameters": [
                    {"type": "string", "description": "Draft ID", "name": "id", "in": "path", "required": true},
                    {"description": "Date (YYYY-MM-DD)", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/entities.PickDateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/booking/drafts/{id}/guest": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Select the guest",
                "parameters": [
                    {"type": "string", "description": "Draft ID", "name": "id", "in": "path", "required": true},
                    {"description": "Guest", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/entities.SelectGuestRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/booking/drafts/{id}/services": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Replace the selected services",
                "parameters": [
                    {"type": "string", "description": "Draft ID", "name": "id", "in": "path", "required": true},
                    {"description": "Service IDs", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/entities.SetServicesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/booking/drafts/{id}/services/{serviceId}/toggle": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Toggle one service",
                "parameters": [
                    {"type": "string", "description": "Draft ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Service ID", "name": "serviceId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/booking/drafts/{id}/payment": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Set the payment status",
                "description": "payment_method is required when payment_status is paid",
                "parameters": [
                    {"type": "string", "description": "Draft ID", "name": "id", "in": "path", "required": true},
                    {"description": "Payment", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/entities.SetPaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/booking/drafts/{id}/submit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Submit the booking",
                "description": "Creates the reservation and, when paid, the payment. A failed payment after a created reservation answers 202 with error partial_failure.",
                "parameters": [{"type": "string", "description": "Draft ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "202": {"description": "Accepted", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/payments/follow-ups": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Payment"],
                "summary": "List payment follow-ups",
                "parameters": [{"type": "string", "description": "open, retrying or resolved", "name": "status", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.FollowUpListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/payments/follow-ups/{id}/retry": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Payment"],
                "summary": "Retry a payment",
                "parameters": [{"type": "integer", "description": "Follow-up ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/payments/follow-ups/{id}/resolve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Payment"],
                "summary": "Close a payment follow-up by hand",
                "parameters": [{"type": "integer", "description": "Follow-up ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "entities.OpenDraftRequest": {
            "type": "object",
            "properties": {"room_id": {"type": "integer"}}
        },
        "entities.SelectRoomRequest": {
            "type": "object",
            "required": ["room_id"],
            "properties": {"room_id": {"type": "integer"}}
        },
        "entities.PickDateRequest": {
            "type": "object",
            "required": ["date"],
            "properties": {"date": {"type": "string", "example": "2024-10-01"}}
        },
        "entities.SelectGuestRequest": {
            "type": "object",
            "required": ["guest_id"],
            "properties": {"guest_id": {"type": "integer"}}
        },
        "entities.SetServicesRequest": {
            "type": "object",
            "properties": {"service_ids": {"type": "array", "items": {"type": "integer"}}}
        },
        "entities.SetPaymentRequest": {
            "type": "object",
            "required": ["payment_status"],
            "properties": {
                "payment_status": {"type": "string", "enum": ["paid", "pending"]},
                "payment_method": {"type": "string"}
            }
        },
        "entities.QuoteRequest": {
            "type": "object",
            "required": ["room_id", "check_in_date", "check_out_date"],
            "properties": {
                "room_id": {"type": "integer"},
                "check_in_date": {"type": "string", "example": "2024-10-01"},
                "check_out_date": {"type": "string", "example": "2024-10-03"},
                "service_ids": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "entities.PaymentFollowUp": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "booking_id": {"type": "integer"},
                "guest_id": {"type": "integer"},
                "room_id": {"type": "integer"},
                "amount": {"type": "number"},
                "payment_method": {"type": "string"},
                "payment_date": {"type": "string"},
                "reason": {"type": "string"},
                "status": {"type": "string", "enum": ["open", "retrying", "resolved"]},
                "created_by": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "entities.FollowUpListResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/entities.PaymentFollowUp"}},
                "totalData": {"type": "integer"}
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

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Hotel Booking Engine API",
	Description:      "Front-desk booking engine in front of the hotel back office API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
