package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldError       = "error"
	FieldProjectID   = "project_id"
	FieldEntryID     = "entry_id"
	FieldSequenceNo  = "sequence_no"
	FieldParticulars = "particulars"
	FieldAmountPaise = "amount_paise"
)

// Components defines standard component names
const (
	ComponentApp  = "app"
	ComponentHTTP = "http"
)

// LogFields collects structured log fields for one request or ledger
// mutation before handing them to slog.
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithRequestID adds the request ID field.
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithRequest adds the method and path of the request being served.
func (f LogFields) WithRequest(method, path string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	return f
}

// WithClient adds the caller's address and, when present, its user agent.
func (f LogFields) WithClient(ip, userAgent string) LogFields {
	f[FieldClientIP] = ip
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

// WithStatus adds the response outcome fields.
func (f LogFields) WithStatus(code int, durationMs int64) LogFields {
	f[FieldStatusCode] = code
	f[FieldDuration] = durationMs
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithEntry adds ledger-entry fields
func (f LogFields) WithEntry(projectID, entryID, particulars string, amountPaise int64) LogFields {
	f[FieldProjectID] = projectID
	f[FieldEntryID] = entryID
	f[FieldParticulars] = particulars
	f[FieldAmountPaise] = amountPaise
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
