package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>firegate — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the service surface.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "firegate", "version": "v0.1.0" },
  "paths": {
    "/auth/login": {
      "post": { "summary": "Session login with username/password", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"username":{"type":"string"},"password":{"type":"string"}},"required":["username","password"]}}}}, "responses": { "200": { "description": "session established" }, "401": { "description": "unauthenticated" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Clear the session", "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Current principal (session or bearer token)", "responses": { "200": { "description": "user" }, "401": { "description": "unauthenticated" } } }
    },
    "/api/v1/tokens": {
      "post": { "summary": "Issue a personal access token", "responses": { "201": { "description": "plaintext token, shown once" } } },
      "get": { "summary": "List the caller's tokens", "responses": { "200": { "description": "token metadata" } } },
      "delete": { "summary": "Revoke all of the caller's tokens", "responses": { "200": { "description": "revoked" } } }
    },
    "/api/v1/tokens/{id}": {
      "delete": { "summary": "Revoke one token", "responses": { "200": { "description": "revoked" }, "404": { "description": "unknown id" } } }
    },
    "/api/v1/data/{collection}": {
      "get": { "summary": "List a collection (optional field/value equality query)", "responses": { "200": { "description": "documents in store order" } } },
      "post": { "summary": "Create a document with a store-assigned id", "responses": { "201": { "description": "new id" } } }
    },
    "/api/v1/data/{collection}/{id}": {
      "get": { "summary": "Fetch one document", "responses": { "200": { "description": "document" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Merge attributes into a document", "responses": { "200": { "description": "updated" } } },
      "delete": { "summary": "Delete a document", "responses": { "204": { "description": "deleted" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
