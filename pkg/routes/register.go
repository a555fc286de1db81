// Package routes registers route groups on a ServeMux and records their
// OpenAPI operations in the same pass.
package routes

import (
	"net/http"

	"github.com/JaimeStill/bookshelf/pkg/openapi"
)

// Register adds every route of groups to mux. When spec is non-nil, each
// route carrying an operation is documented under its full path; operations
// without tags inherit the group tags.
func Register(mux *http.ServeMux, spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		register(mux, spec, "", group)
	}
}

func register(mux *http.ServeMux, spec *openapi.Spec, parentPrefix string, group Group) {
	prefix := parentPrefix + group.Prefix

	for _, route := range group.Routes {
		path := prefix + route.Pattern
		mux.HandleFunc(route.Method+" "+path, route.Handler)

		if spec == nil || route.OpenAPI == nil {
			continue
		}
		if len(route.OpenAPI.Tags) == 0 {
			route.OpenAPI.Tags = group.Tags
		}
		spec.AddOperation(path, route.Method, route.OpenAPI)
	}

	for _, child := range group.Children {
		register(mux, spec, prefix, child)
	}
}
