package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/bookshelf/pkg/openapi"
	"github.com/JaimeStill/bookshelf/pkg/routes"
)

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	spec := openapi.NewSpec("test", "1.0.0")

	op := &openapi.Operation{Summary: "page"}
	group := routes.Group{
		Prefix: "/books",
		Tags:   []string{"Pages"},
		Routes: []routes.Route{
			{
				Method:  http.MethodGet,
				Pattern: "/{id}/pages/{page}",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(r.PathValue("id") + ":" + r.PathValue("page")))
				},
				OpenAPI: op,
			},
		},
		Children: []routes.Group{
			{
				Prefix: "/{id}/events",
				Routes: []routes.Route{
					{Method: http.MethodGet, Pattern: "", Handler: func(w http.ResponseWriter, r *http.Request) {
						w.Write([]byte("events"))
					}},
				},
			},
		},
	}

	routes.Register(mux, spec, group)

	tests := []struct {
		path string
		want string
	}{
		{"/books/5/pages/2", "5:2"},
		{"/books/5/events", "events"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if w.Body.String() != tt.want {
			t.Errorf("GET %s = %q, want %q", tt.path, w.Body.String(), tt.want)
		}
	}

	item := spec.Paths["/books/{id}/pages/{page}"]
	if item == nil || item.Get != op {
		t.Fatal("operation not recorded in spec")
	}
	if len(op.Tags) != 1 || op.Tags[0] != "Pages" {
		t.Errorf("Tags = %v, want group tags", op.Tags)
	}
	if _, ok := spec.Paths["/books/{id}/events"]; ok {
		t.Error("undocumented route added to spec")
	}
}
