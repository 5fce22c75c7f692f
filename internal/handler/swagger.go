package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/spendwise/spendwise-backend/docs"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// swaggerUICSP lets the Swagger UI page run its inline bootstrap script
const swaggerUICSP = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"

// OpenAPI3Spec represents an OpenAPI 3.0 spec structure
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// RegisterSwagger serves the Swagger UI at /swagger/index.html, the Swagger 2.0
// document at /swagger/doc.json and its OpenAPI 3.0 form at /openapi.json
func RegisterSwagger(e *echo.Echo) {
	e.GET("/swagger/*", echoSwagger.WrapHandler, relaxCSP(swaggerUICSP))
	e.GET("/openapi.json", ServeOpenAPI3Spec)
}

func relaxCSP(policy string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderContentSecurityPolicy, policy)
			return next(c)
		}
	}
}

// convertRefs points #/definitions/ refs at #/components/schemas/ and turns
// query and path parameters into their OpenAPI 3.0 shape
func convertRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		if in, hasIn := v["in"]; hasIn && in != "body" {
			if _, hasName := v["name"]; hasName {
				return convertParameter(v)
			}
		}

		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			result[key] = convertRefs(value)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = convertRefs(item)
		}
		return result
	default:
		return data
	}
}

// convertParameter moves the type fields of a query or path parameter under
// schema. Body parameters are handled by convertOperation.
func convertParameter(param map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum"} {
		if val, ok := param[field]; ok {
			schema[field] = val
		}
	}
	if len(schema) > 0 {
		result["schema"] = schema
	}
	return result
}

// convertOperation lifts a body parameter into requestBody and wraps response
// schemas in a JSON content entry
func convertOperation(op map[string]interface{}) map[string]interface{} {
	if params, ok := op["parameters"].([]interface{}); ok {
		kept := make([]interface{}, 0, len(params))
		for _, p := range params {
			param, _ := p.(map[string]interface{})
			if param["in"] != "body" {
				kept = append(kept, p)
				continue
			}
			op["requestBody"] = map[string]interface{}{
				"description": param["description"],
				"required":    param["required"],
				"content": map[string]interface{}{
					echo.MIMEApplicationJSON: map[string]interface{}{"schema": param["schema"]},
				},
			}
		}
		if len(kept) == 0 {
			delete(op, "parameters")
		} else {
			op["parameters"] = kept
		}
	}
	delete(op, "consumes")
	delete(op, "produces")

	if responses, ok := op["responses"].(map[string]interface{}); ok {
		for code, r := range responses {
			resp, _ := r.(map[string]interface{})
			if schema, ok := resp["schema"]; ok {
				delete(resp, "schema")
				resp["content"] = map[string]interface{}{
					echo.MIMEApplicationJSON: map[string]interface{}{"schema": schema},
				}
				responses[code] = resp
			}
		}
	}
	return op
}

// ServeOpenAPI3Spec serves the Swagger document converted to OpenAPI 3.0, with
// the requesting host as the server
// GET /openapi.json
func ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read API description.")
	}

	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return NewInternalError(c, "Failed to parse API description.")
	}

	info, _ := swagger2["info"].(map[string]interface{})

	paths := make(map[string]interface{})
	if rawPaths, ok := swagger2["paths"].(map[string]interface{}); ok {
		for path, item := range convertRefs(rawPaths).(map[string]interface{}) {
			methods, _ := item.(map[string]interface{})
			for method, op := range methods {
				if operation, ok := op.(map[string]interface{}); ok {
					methods[method] = convertOperation(operation)
				}
			}
			paths[path] = methods
		}
	}

	components := make(map[string]interface{})
	if secDefs, ok := swagger2["securityDefinitions"].(map[string]interface{}); ok {
		components["securitySchemes"] = secDefs
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = convertRefs(definitions)
	}

	return c.JSON(http.StatusOK, OpenAPI3Spec{
		OpenAPI: "3.0.3",
		Info:    info,
		Servers: []Server{
			{URL: c.Scheme() + "://" + c.Request().Host, Description: "This server"},
		},
		Paths:      paths,
		Components: components,
	})
}
