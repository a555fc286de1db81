package openapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/bookshelf/pkg/openapi"
)

func TestSpec_AddOperation(t *testing.T) {
	spec := openapi.NewSpec("Bookshelf API", "1.0.0")
	spec.AddServer("")
	spec.AddServer("http://localhost:8080")

	get := &openapi.Operation{Summary: "get"}
	put := &openapi.Operation{Summary: "put"}
	spec.AddOperation("/books/{id}/pages/{page}", http.MethodGet, get)
	spec.AddOperation("/books/{id}/pages/{page}", http.MethodPut, put)
	spec.AddOperation("/ignored", http.MethodGet, nil)

	item := spec.Paths["/books/{id}/pages/{page}"]
	if item == nil || item.Get != get || item.Put != put {
		t.Fatalf("path item = %+v, want get and put operations", item)
	}
	if _, ok := spec.Paths["/ignored"]; ok {
		t.Error("nil operation registered a path")
	}
	if len(spec.Servers) != 1 {
		t.Errorf("servers = %d, want 1", len(spec.Servers))
	}
}

func TestMarshalJSON_ServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Bookshelf API", "1.0.0")
	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Document": {Type: "object"},
	})

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"openapi": "3.1.0"`) {
		t.Errorf("spec missing version: %s", data)
	}

	w := httptest.NewRecorder()
	openapi.ServeSpec(data)(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if w.Code != http.StatusOK || w.Body.String() != string(data) {
		t.Errorf("ServeSpec() = %d %q", w.Code, w.Body.String())
	}
}

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_VERSION", "2.0.0")

	cfg := openapi.Config{Title: "Library"}
	cfg.Merge(&openapi.Config{Description: "Pages"})
	if err := cfg.Finalize(&openapi.ConfigEnv{Version: "TEST_OPENAPI_VERSION"}); err != nil {
		t.Fatal(err)
	}

	if cfg.Title != "Library" || cfg.Description != "Pages" || cfg.Version != "2.0.0" {
		t.Errorf("config = %+v", cfg)
	}
}
