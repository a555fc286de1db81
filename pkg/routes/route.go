package routes

import (
	"net/http"

	"github.com/JaimeStill/bookshelf/pkg/openapi"
)

// Route binds a method and pattern to a handler. Pattern is relative to the
// enclosing Group prefix; OpenAPI may be nil for undocumented routes.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group is a set of routes sharing a path prefix and OpenAPI tags.
// Children inherit the accumulated prefix of their parents.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
}
