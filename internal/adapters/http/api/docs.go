package api

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.yaml
var openAPISpec []byte

// DocsHandler serves the embedded API document.
type DocsHandler struct{}

// NewDocsHandler creates a docs handler.
func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

// HandleOpenAPI handles GET /openapi.yaml.
func (h *DocsHandler) HandleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(openAPISpec)
}
