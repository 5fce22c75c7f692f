// Package docs holds the Swagger 2.0 description of the HTTP API. Keep it in
// step with the @ annotations on the handlers in internal/handler.
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
        "/add-expense": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Append an expense and return the whole ledger",
                "parameters": [
                    {
                        "description": "Expense",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.ExpenseRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.ExpenseListResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Add an expense",
                "tags": [
                    "expenses"
                ]
            }
        },
        "/budget-status": {
            "get": {
                "description": "Aggregate a period: total, remaining, usage, intensity tier and category breakdown",
                "parameters": [
                    {
                        "description": "Month (1-12)",
                        "in": "query",
                        "name": "month",
                        "type": "integer"
                    },
                    {
                        "description": "Year (1900-2100)",
                        "in": "query",
                        "name": "year",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.BudgetStatusResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Budget status",
                "tags": [
                    "budget"
                ]
            }
        },
        "/delete-expense/{id}": {
            "delete": {
                "description": "Remove an owned expense and return the whole ledger",
                "parameters": [
                    {
                        "description": "Expense ID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.ExpenseListResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Delete an expense",
                "tags": [
                    "expenses"
                ]
            }
        },
        "/expense-summary": {
            "get": {
                "description": "Total every expense by category",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.ExpenseSummaryResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Summarize expenses",
                "tags": [
                    "expenses"
                ]
            }
        },
        "/get-budget": {
            "get": {
                "description": "Return the budget of a period, 0 when unset",
                "parameters": [
                    {
                        "description": "Month (1-12)",
                        "in": "query",
                        "name": "month",
                        "type": "integer"
                    },
                    {
                        "description": "Year (1900-2100)",
                        "in": "query",
                        "name": "year",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.BudgetResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Get a monthly budget",
                "tags": [
                    "budget"
                ]
            }
        },
        "/get-budget-history": {
            "get": {
                "description": "Summarize budget and spending of the last n months, most recent first",
                "parameters": [
                    {
                        "default": 6,
                        "description": "Number of months (1-24)",
                        "in": "query",
                        "name": "months",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.BudgetHistoryResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Budget history",
                "tags": [
                    "budget"
                ]
            }
        },
        "/get-expenses": {
            "get": {
                "description": "List every expense of the account, oldest first",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.ExpenseListResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "List expenses",
                "tags": [
                    "expenses"
                ]
            }
        },
        "/get-expenses-by-month": {
            "get": {
                "description": "List the expenses of one UTC calendar month, the current one by default",
                "parameters": [
                    {
                        "description": "Month (1-12)",
                        "in": "query",
                        "name": "month",
                        "type": "integer"
                    },
                    {
                        "description": "Year (1900-2100)",
                        "in": "query",
                        "name": "year",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.ExpenseListResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "List expenses of a month",
                "tags": [
                    "expenses"
                ]
            }
        },
        "/health": {
            "get": {
                "description": "Report that the process is serving",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "additionalProperties": {
                                "type": "string"
                            },
                            "type": "object"
                        }
                    }
                },
                "summary": "Health check",
                "tags": [
                    "health"
                ]
            }
        },
        "/login": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Check credentials, set the authToken cookie and return the session token",
                "parameters": [
                    {
                        "description": "Login request",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.LoginRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "summary": "Log in",
                "tags": [
                    "auth"
                ]
            }
        },
        "/logout": {
            "post": {
                "description": "Clear the session cookie",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.MessageResponse"
                        }
                    }
                },
                "summary": "Log out",
                "tags": [
                    "auth"
                ]
            }
        },
        "/register": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Create an account from name, email and password",
                "parameters": [
                    {
                        "description": "Registration request",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.RegisterRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/handler.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "summary": "Register an account",
                "tags": [
                    "auth"
                ]
            }
        },
        "/set-budget": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Store the budget of a period, the current one by default, overwriting any previous value",
                "parameters": [
                    {
                        "description": "Budget",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.SetBudgetRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.BudgetResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Set a monthly budget",
                "tags": [
                    "budget"
                ]
            }
        },
        "/update-expense/{id}": {
            "put": {
                "consumes": [
                    "application/json"
                ],
                "description": "Replace an owned expense in place and return the whole ledger",
                "parameters": [
                    {
                        "description": "Expense ID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "description": "Expense",
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.ExpenseRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.ExpenseListResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "summary": "Update an expense",
                "tags": [
                    "expenses"
                ]
            }
        },
        "/ws": {
            "get": {
                "description": "Upgrade to a websocket that receives expense and budget events of the account",
                "parameters": [
                    {
                        "description": "Session token, when no cookie or header is sent",
                        "in": "query",
                        "name": "token",
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "101": {
                        "description": "Switching Protocols"
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ProblemDetails"
                        }
                    }
                },
                "summary": "Change event stream",
                "tags": [
                    "realtime"
                ]
            }
        }
    },
    "definitions": {
        "handler.AuthResponse": {
            "properties": {
                "expiresAt": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "token": {
                    "type": "string"
                },
                "user": {
                    "$ref": "#/definitions/handler.UserResponse"
                }
            },
            "type": "object"
        },
        "handler.BudgetHistoryResponse": {
            "properties": {
                "history": {
                    "items": {
                        "$ref": "#/definitions/handler.HistoryEntryResponse"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "handler.BudgetResponse": {
            "properties": {
                "budget": {
                    "type": "number"
                },
                "message": {
                    "type": "string"
                },
                "month": {
                    "type": "integer"
                },
                "year": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "handler.BudgetStatusResponse": {
            "properties": {
                "breakdown": {
                    "items": {
                        "$ref": "#/definitions/handler.CategoryTotalResponse"
                    },
                    "type": "array"
                },
                "budget": {
                    "type": "number"
                },
                "month": {
                    "type": "integer"
                },
                "remaining": {
                    "type": "number"
                },
                "tier": {
                    "enum": [
                        "safe",
                        "warning",
                        "exceeded"
                    ],
                    "type": "string"
                },
                "total": {
                    "type": "number"
                },
                "usagePercentage": {
                    "type": "number"
                },
                "year": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "handler.CategoryTotalResponse": {
            "properties": {
                "amount": {
                    "type": "number"
                },
                "category": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handler.ExpenseListResponse": {
            "properties": {
                "expenses": {
                    "items": {
                        "$ref": "#/definitions/handler.ExpenseResponse"
                    },
                    "type": "array"
                },
                "message": {
                    "type": "string"
                },
                "month": {
                    "type": "integer"
                },
                "year": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "handler.ExpenseRequest": {
            "properties": {
                "amount": {
                    "example": "12.50",
                    "type": "string"
                },
                "date": {
                    "example": "2025-03-10",
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "type": {
                    "example": "Food",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handler.ExpenseResponse": {
            "properties": {
                "amount": {
                    "type": "number"
                },
                "createdAt": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "type": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handler.ExpenseSummaryResponse": {
            "properties": {
                "summary": {
                    "additionalProperties": {
                        "type": "number"
                    },
                    "type": "object"
                }
            },
            "type": "object"
        },
        "handler.HistoryEntryResponse": {
            "properties": {
                "budget": {
                    "type": "number"
                },
                "expenses": {
                    "type": "number"
                },
                "month": {
                    "type": "integer"
                },
                "monthName": {
                    "type": "string"
                },
                "remaining": {
                    "type": "number"
                },
                "status": {
                    "enum": [
                        "within",
                        "over"
                    ],
                    "type": "string"
                },
                "year": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "handler.LoginRequest": {
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handler.MessageResponse": {
            "properties": {
                "message": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handler.ProblemDetails": {
            "properties": {
                "detail": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "errors": {
                    "items": {
                        "$ref": "#/definitions/handler.ValidationError"
                    },
                    "type": "array"
                },
                "instance": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "title": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handler.RegisterRequest": {
            "properties": {
                "email": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handler.SetBudgetRequest": {
            "properties": {
                "budget": {
                    "example": "1000",
                    "type": "string"
                },
                "month": {
                    "type": "integer"
                },
                "year": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "handler.UserResponse": {
            "properties": {
                "email": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handler.ValidationError": {
            "properties": {
                "field": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            },
            "type": "object"
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Session token from /login, sent as \"Bearer <token>\". The authToken cookie is accepted too.",
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
	Title:            "Spendwise API",
	Description:      "Personal expense ledger with monthly budgets. Sessions use a JWT sent as the authToken cookie or a Bearer header.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
