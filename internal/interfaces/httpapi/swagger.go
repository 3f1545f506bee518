package httpapi

import (
	_ "embed"
	"io"
	"net/http"
)

//go:embed openapi.yaml
var openAPIDocument []byte

const docsPage = `<!doctype html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8">
  <title>equipe-service</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.17.14/swagger-ui.css">
</head>
<body>
  <div id="docs"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5.17.14/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({ url: "/openapi.yaml", dom_id: "#docs", tryItOutEnabled: true });
  </script>
</body>
</html>
`

// OpenAPI serves the embedded API description.
func (h *Handler) OpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(openAPIDocument)
}

// Docs serves a Swagger UI page pointed at OpenAPI.
func (h *Handler) Docs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, docsPage)
}
