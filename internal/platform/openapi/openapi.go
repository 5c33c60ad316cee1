package openapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Generator builds the OpenAPI 3.0 document for the formulation API.
type Generator struct {
	version string
	baseURL string
	keys    []string
}

// NewGenerator creates a generator. keys, when given, become the enum of the
// {key} path parameter.
func NewGenerator(version, baseURL string, keys []string) *Generator {
	return &Generator{version: version, baseURL: baseURL, keys: append([]string(nil), keys...)}
}

// Document produces the OpenAPI document as a map.
func (g *Generator) Document() map[string]interface{} {
	keyParam := g.keyParameter()

	paths := map[string]interface{}{
		"/disorders": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "List catalog disorders",
				"operationId": "listDisorders",
				"tags":        []string{"Catalog"},
				"parameters": []map[string]interface{}{
					queryParam("limit", "integer", "Page size (1-100)"),
					queryParam("offset", "integer", "Number of entries to skip"),
				},
				"responses": map[string]interface{}{
					"200": jsonResponse("Paginated disorder summaries", "#/components/schemas/SummaryPage"),
				},
			},
		},
		"/disorders/{key}": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Read a disorder definition",
				"operationId": "getDisorder",
				"tags":        []string{"Catalog"},
				"parameters":  []map[string]interface{}{keyParam},
				"responses": map[string]interface{}{
					"200": jsonResponse("Disorder definition", "#/components/schemas/Entry"),
					"404": jsonResponse("Unknown disorder", "#/components/schemas/Error"),
				},
			},
		},
		"/disorders/{key}/sections": map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "List the criteria sections of a disorder",
				"operationId": "listSections",
				"tags":        []string{"Catalog"},
				"parameters":  []map[string]interface{}{keyParam},
				"responses": map[string]interface{}{
					"200": jsonArrayResponse("Criteria sections", "#/components/schemas/Section"),
					"404": jsonResponse("Unknown disorder", "#/components/schemas/Error"),
				},
			},
		},
		"/disorders/{key}/formulation": map[string]interface{}{
			"post": map[string]interface{}{
				"summary":     "Generate the formulation for a selection",
				"operationId": "generateFormulation",
				"tags":        []string{"Formulation"},
				"parameters":  []map[string]interface{}{keyParam, queryParam("markup", "string", "keep or strip")},
				"requestBody": requestBody("#/components/schemas/GenerateRequest"),
				"responses": map[string]interface{}{
					"200": jsonResponse("Generated formulation", "#/components/schemas/Result"),
					"400": jsonResponse("Malformed request", "#/components/schemas/Error"),
					"404": jsonResponse("Unknown disorder", "#/components/schemas/Error"),
				},
			},
		},
		"/formulations/batch": map[string]interface{}{
			"post": map[string]interface{}{
				"summary":     "Generate several formulations in one call",
				"operationId": "generateBatch",
				"tags":        []string{"Formulation"},
				"requestBody": requestBody("#/components/schemas/BatchRequest"),
				"responses": map[string]interface{}{
					"200": jsonResponse("Results in request order", "#/components/schemas/BatchResponse"),
					"400": jsonResponse("Malformed request", "#/components/schemas/Error"),
				},
			},
		},
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       "DSM-5-TR Formulation API",
			"version":     g.version,
			"description": "Turns selected diagnostic criteria into narrative formulations",
		},
		"servers": []map[string]string{
			{"url": g.baseURL},
		},
		"paths": paths,
		"components": map[string]interface{}{
			"schemas": buildComponentSchemas(),
			"securitySchemes": map[string]interface{}{
				"bearerAuth": map[string]interface{}{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
		"security": []map[string][]string{
			{"bearerAuth": {}},
		},
	}
}

func (g *Generator) keyParameter() map[string]interface{} {
	schema := map[string]interface{}{"type": "string"}
	if len(g.keys) > 0 {
		schema["enum"] = g.keys
	}
	return map[string]interface{}{
		"name":     "key",
		"in":       "path",
		"required": true,
		"schema":   schema,
	}
}

func queryParam(name, typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"in":          "query",
		"description": description,
		"schema":      map[string]string{"type": typ},
	}
}

func requestBody(schemaRef string) map[string]interface{} {
	return map[string]interface{}{
		"required": true,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{"$ref": schemaRef},
			},
		},
	}
}

// jsonResponse creates an OpenAPI response with content schema reference.
func jsonResponse(description, schemaRef string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{"$ref": schemaRef},
			},
		},
	}
}

func jsonArrayResponse(description, itemRef string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": arrayOf(itemRef),
			},
		},
	}
}

func arrayOf(itemRef string) map[string]interface{} {
	return map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"$ref": itemRef},
	}
}

func object(required []string, props map[string]interface{}) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var (
	stringSchema  = map[string]interface{}{"type": "string"}
	integerSchema = map[string]interface{}{"type": "integer"}
	booleanSchema = map[string]interface{}{"type": "boolean"}
	stringArray   = map[string]interface{}{"type": "array", "items": stringSchema}
)

// buildComponentSchemas mirrors the JSON shapes of the catalog and narrative
// handlers.
func buildComponentSchemas() map[string]interface{} {
	return map[string]interface{}{
		"Section": object([]string{"title", "prefix", "items"}, map[string]interface{}{
			"title":  stringSchema,
			"prefix": stringSchema,
			"items":  stringArray,
		}),
		"Entry": object([]string{"key", "name", "sections"}, map[string]interface{}{
			"key":      stringSchema,
			"name":     stringSchema,
			"sections": arrayOf("#/components/schemas/Section"),
		}),
		"Summary": object(nil, map[string]interface{}{
			"key":      stringSchema,
			"name":     stringSchema,
			"sections": integerSchema,
			"prefixes": stringArray,
		}),
		"SummaryPage": object(nil, map[string]interface{}{
			"data":     arrayOf("#/components/schemas/Summary"),
			"total":    integerSchema,
			"limit":    integerSchema,
			"offset":   integerSchema,
			"has_more": booleanSchema,
			"links": map[string]interface{}{
				"type": "array",
				"items": object(nil, map[string]interface{}{
					"relation": stringSchema,
					"url":      stringSchema,
				}),
			},
		}),
		"Item": object([]string{"text", "section"}, map[string]interface{}{
			"text":    stringSchema,
			"section": stringSchema,
		}),
		"GenerateRequest": object(nil, map[string]interface{}{
			"selection": arrayOf("#/components/schemas/Item"),
			"markup": map[string]interface{}{
				"type": "string",
				"enum": []string{"keep", "strip"},
			},
		}),
		"Result": object([]string{"disorder", "text", "met", "alerts", "dropped"}, map[string]interface{}{
			"disorder": stringSchema,
			"text":     stringSchema,
			"met":      booleanSchema,
			"alerts":   stringArray,
			"severity": stringSchema,
			"dropped":  integerSchema,
		}),
		"BatchRequest": object([]string{"requests"}, map[string]interface{}{
			"requests": map[string]interface{}{
				"type": "array",
				"items": object([]string{"disorder"}, map[string]interface{}{
					"disorder":  stringSchema,
					"selection": arrayOf("#/components/schemas/Item"),
				}),
			},
			"markup": stringSchema,
		}),
		"BatchResponse": object(nil, map[string]interface{}{
			"results": map[string]interface{}{
				"type": "array",
				"items": object(nil, map[string]interface{}{
					"disorder": stringSchema,
					"result":   map[string]interface{}{"$ref": "#/components/schemas/Result"},
					"error":    stringSchema,
				}),
			},
		}),
		"Error": object([]string{"message"}, map[string]interface{}{
			"message": stringSchema,
		}),
	}
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>DSM-5-TR Formulation API - Swagger UI</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" >
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/api/v1/openapi.json",
      dom_id: '#swagger-ui',
      deepLinking: true
    })
  </script>
</body>
</html>`

// RegisterRoutes registers the OpenAPI endpoints.
func (g *Generator) RegisterRoutes(apiGroup *echo.Group) {
	apiGroup.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, g.Document())
	})
	apiGroup.GET("/docs", func(c echo.Context) error {
		return c.HTML(http.StatusOK, swaggerUIHTML)
	})
}
