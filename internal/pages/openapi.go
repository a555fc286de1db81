package pages

import "github.com/JaimeStill/bookshelf/pkg/openapi"

type spec struct {
	Upload  *openapi.Operation
	Info    *openapi.Operation
	Page    *openapi.Operation
	Replace *openapi.Operation
	Delete  *openapi.Operation
}

// Spec documents the pages endpoints.
var Spec = spec{
	Upload: &openapi.Operation{
		Summary:     "Upload book",
		Description: "Split an uploaded file into pages and store them. Fails if the book already has pages.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Book ID"),
		},
		RequestBody: openapi.MultipartFile("file", "Document to paginate (.pdf, or single-page .docx/.xlsx)"),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Document stored", "Document"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			413: openapi.ResponseRef("TooLarge"),
		},
	},
	Info: &openapi.Operation{
		Summary:     "Document info",
		Description: "Format and page count of a book's stored pages",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Book ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Document info", "Document"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Page: &openapi.Operation{
		Summary:     "Get page",
		Description: "Raw bytes of one page. Content-Type follows the stored format.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Book ID"),
			openapi.PathParam("page", "Page number, starting at 1"),
			openapi.HeaderParam("If-None-Match", "ETag from a previous response"),
		},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Page content",
				Content: map[string]*openapi.MediaType{
					"application/octet-stream": {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
				},
			},
			304: {Description: "Page unchanged"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Replace: &openapi.Operation{
		Summary:     "Replace page",
		Description: "Overwrite one existing page with a single-page file of the book's format. Subscribers are notified.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Book ID"),
			openapi.PathParam("page", "Page number, starting at 1"),
		},
		RequestBody: openapi.MultipartFile("file", "Single-page replacement in the book's format"),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page replaced", "Document"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			413: openapi.ResponseRef("TooLarge"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete pages",
		Description: "Remove every stored page of a book. Succeeds when nothing is stored.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Book ID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Pages deleted"},
		},
	},
}

// Schemas returns the component schemas used by the pages endpoints.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"book_id":     {Type: "integer", Format: "int64"},
				"storage_key": {Type: "string"},
				"format":      {Type: "string", Example: ".pdf"},
				"page_count":  {Type: "integer"},
			},
			Required: []string{"book_id", "storage_key", "format", "page_count"},
		},
		"Error": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"error": {Type: "string"},
				"kind":  {Type: "string", Example: "PageNotFound"},
			},
			Required: []string{"error"},
		},
	}
}

// Responses returns the reusable error responses referenced by the pages endpoints.
func (spec) Responses() map[string]*openapi.Response {
	errorResponse := func(description string) *openapi.Response {
		return &openapi.Response{
			Description: description,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.SchemaRef("Error")},
			},
		}
	}

	return map[string]*openapi.Response{
		"BadRequest": errorResponse("Invalid upload"),
		"NotFound":   errorResponse("Book or page not found"),
		"Conflict":   errorResponse("Book already has pages"),
		"TooLarge":   errorResponse("File exceeds maximum upload size"),
	}
}
