package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldSessionID   = "session_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldFile        = "file"
	FieldSchema      = "schema"
	FieldImported    = "imported"
	FieldSkipped     = "skipped"
	FieldTransaction = "transaction_id"
	FieldCategory    = "category"
	FieldChanged     = "changed"
	FieldPeriod      = "period"
	FieldSpreadsheet = "spreadsheet_id"
	FieldSheet       = "sheet"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentImporter = "importer"
	ComponentClassify = "classify"
	ComponentExport   = "export"
	ComponentSheets   = "sheets"
	ComponentSession  = "session"
	ComponentSecurity = "security"
	ComponentTemplate = "template"
	ComponentCLI      = "cli"
)

// Operations defines standard operation names
const (
	OpImport     = "import"
	OpClassify   = "classify"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpExport     = "export"
	OpDownload   = "download"
	OpRender     = "render"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
	OpExpire     = "expire"
	OpReclassify = "reclassify"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithFile adds the fields describing one imported file.
func (f LogFields) WithFile(name, schema string, imported, skipped int) LogFields {
	f[FieldFile] = name
	if schema != "" {
		f[FieldSchema] = schema
	}
	f[FieldImported] = imported
	f[FieldSkipped] = skipped
	return f
}

// WithTransaction adds a transaction ID and its category.
func (f LogFields) WithTransaction(id, category string) LogFields {
	f[FieldTransaction] = id
	if category != "" {
		f[FieldCategory] = category
	}
	return f
}

// WithExportTarget adds the spreadsheet target of an export.
func (f LogFields) WithExportTarget(spreadsheetID, sheet, period string) LogFields {
	f[FieldSpreadsheet] = spreadsheetID
	f[FieldSheet] = sheet
	f[FieldPeriod] = period
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
