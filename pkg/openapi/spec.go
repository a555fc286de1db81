package openapi

import (
	"net/http"

	"github.com/goccy/go-json"
)

// NewSpec creates an OpenAPI 3.1 document with empty paths.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI: "3.1.0",
		Info: &Info{
			Title:   title,
			Version: version,
		},
		Paths:      make(map[string]*PathItem),
		Components: NewComponents(),
	}
}

// SetDescription sets the info description.
func (s *Spec) SetDescription(description string) {
	s.Info.Description = description
}

// AddServer appends a server URL. Empty URLs are ignored.
func (s *Spec) AddServer(url string) {
	if url == "" {
		return
	}
	s.Servers = append(s.Servers, &Server{URL: url})
}

// AddOperation attaches op to path under the given HTTP method.
func (s *Spec) AddOperation(path, method string, op *Operation) {
	if op == nil {
		return
	}
	if s.Paths[path] == nil {
		s.Paths[path] = &PathItem{}
	}

	switch method {
	case http.MethodGet:
		s.Paths[path].Get = op
	case http.MethodPost:
		s.Paths[path].Post = op
	case http.MethodPut:
		s.Paths[path].Put = op
	case http.MethodDelete:
		s.Paths[path].Delete = op
	}
}

// NewComponents creates an empty component registry.
func NewComponents() *Components {
	return &Components{
		Schemas:   make(map[string]*Schema),
		Responses: make(map[string]*Response),
	}
}

// AddSchemas merges schemas into the registry.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	for name, schema := range schemas {
		c.Schemas[name] = schema
	}
}

// AddResponses merges reusable responses into the registry.
func (c *Components) AddResponses(responses map[string]*Response) {
	for name, resp := range responses {
		c.Responses[name] = resp
	}
}

// MarshalJSON renders the spec as indented JSON.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// ServeSpec returns a handler that writes pre-rendered spec bytes.
func ServeSpec(spec []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(spec)
	}
}
