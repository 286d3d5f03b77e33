package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// Registered codes.
const (
	CodeUnknownRenderer    = "E200"
	CodeUnknownComponent   = "E201"
	CodeMalformedBatch     = "E202"
	CodeInvalidEdit        = "E203"
	CodeInvalidFrame       = "E204"
	CodeDuplicateComponent = "E205"
	CodeStepOutOfRoot      = "E206"

	CodeNoElementForSelector = "E300"
	CodeElementDetached      = "E301"
	CodeInvalidSelector      = "E302"

	CodeConfigParse   = "E400"
	CodeConfigInvalid = "E401"

	CodeCaptureRead   = "E500"
	CodeCaptureSource = "E501"
	CodeCaptureStep   = "E502"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Protocol Errors (E200-E299)
	// ============================================

	CodeUnknownRenderer: {
		Category:   CategoryProtocol,
		Message:    "Unknown renderer",
		Suggestion: "Attach a root component with this renderer id before sending batches.",
	},
	CodeUnknownComponent: {
		Category:   CategoryProtocol,
		Message:    "Update for unregistered component",
		Suggestion: "The host and client disagree about live components; the component was never attached or has been disposed.",
	},
	CodeMalformedBatch: {
		Category: CategoryProtocol,
		Message:  "Malformed render batch",
	},
	CodeInvalidEdit: {
		Category: CategoryProtocol,
		Message:  "Invalid edit",
	},
	CodeInvalidFrame: {
		Category: CategoryProtocol,
		Message:  "Invalid reference frame",
	},
	CodeDuplicateComponent: {
		Category: CategoryProtocol,
		Message:  "Component id already registered",
	},
	CodeStepOutOfRoot: {
		Category: CategoryProtocol,
		Message:  "StepOut past component root",
	},

	// ============================================
	// Document Errors (E300-E399)
	// ============================================

	CodeNoElementForSelector: {
		Category: CategoryDocument,
		Message:  "Could not find any element matching selector",
	},
	CodeElementDetached: {
		Category: CategoryDocument,
		Message:  "Element is not attached to the document",
	},
	CodeInvalidSelector: {
		Category: CategoryDocument,
		Message:  "Invalid selector",
	},

	// ============================================
	// Config Errors (E400-E499)
	// ============================================

	CodeConfigParse: {
		Category:   CategoryConfig,
		Message:    "Failed to parse batchdom.json",
		Suggestion: "Check the file is valid JSON.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// ============================================
	// Capture Errors (E500-E599)
	// ============================================

	CodeCaptureRead: {
		Category: CategoryCapture,
		Message:  "Failed to read capture",
	},
	CodeCaptureSource: {
		Category:   CategoryCapture,
		Message:    "Unsupported capture source",
		Suggestion: "Use a file path or an s3://bucket/key URL.",
	},
	CodeCaptureStep: {
		Category: CategoryCapture,
		Message:  "Capture step failed",
	},
}

// Lookup returns the template for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
