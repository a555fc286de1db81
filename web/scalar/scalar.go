// Package scalar serves the interactive API reference for the OpenAPI
// document published by the API module.
package scalar

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/bookshelf/pkg/module"
)

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type pageData struct {
	Title   string
	SpecURL string
}

// NewModule creates the reference module at prefix. specURL is the absolute
// path of the OpenAPI document, such as "/api/openapi.json".
func NewModule(prefix, title, specURL string) (*module.Module, error) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, pageData{Title: title, SpecURL: specURL}); err != nil {
		return nil, err
	}
	page := buf.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)
	})

	return module.New(prefix, mux), nil
}
