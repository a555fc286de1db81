package api

import (
	"net/http"

	"github.com/JaimeStill/bookshelf/internal/config"
	"github.com/JaimeStill/bookshelf/internal/notify"
	"github.com/JaimeStill/bookshelf/internal/pages"
	"github.com/JaimeStill/bookshelf/pkg/openapi"
	"github.com/JaimeStill/bookshelf/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	pagesHandler := pages.NewHandler(domain.Pages, runtime.Logger, runtime.MaxUploadSize)
	notifyHandler := notify.NewHandler(runtime.Hub, &cfg.Notify, runtime.Logger)

	routes.Register(
		mux,
		spec,
		pagesHandler.Routes(),
		notifyHandler.Routes(),
	)

	spec.Components.AddSchemas(pages.Spec.Schemas())
	spec.Components.AddResponses(pages.Spec.Responses())
}
