package formats

// Supported extensions.
const (
	PDF  = ".pdf"
	DOCX = ".docx"
	XLSX = ".xlsx"
)

// DefaultContentType is served for extensions without a mapping.
const DefaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	PDF:    "application/pdf",
	DOCX:   "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	XLSX:   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".doc": "application/msword",
	".xls": "application/vnd.ms-excel",
}

// ContentType maps a file extension to its MIME type.
func ContentType(format string) string {
	if ct, ok := contentTypes[Normalize(format)]; ok {
		return ct
	}
	return DefaultContentType
}
