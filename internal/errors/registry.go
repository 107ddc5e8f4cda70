package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// State errors (L001-L009)
	"L001": {
		Category: CategoryState,
		Message:  "Unknown variable",
	},
	"L002": {
		Category: CategoryState,
		Message:  "Invalid variable value",
	},
	"L003": {
		Category: CategoryState,
		Message:  "Invalid variable definition",
	},

	// Content errors (L010-L019)
	"L010": {
		Category: CategoryContent,
		Message:  "Duplicate block identifier",
	},
	"L011": {
		Category: CategoryContent,
		Message:  "Unknown widget",
	},
	"L012": {
		Category: CategoryContent,
		Message:  "Invalid block",
	},

	// Protocol errors (L020-L029)
	"L020": {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
	},
	"L021": {
		Category: CategoryProtocol,
		Message:  "Malformed event",
	},
	"L022": {
		Category:   CategoryProtocol,
		Message:    "Handler not found",
		Suggestion: "The element may have been re-rendered since the event was sent.",
	},

	// Session errors (L030-L039)
	"L030": {
		Category: CategorySession,
		Message:  "Session store unavailable",
	},
	"L031": {
		Category: CategorySession,
		Message:  "Corrupt session snapshot",
	},

	// Config errors (L040-L049)
	"L040": {
		Category:   CategoryConfig,
		Message:    "Cannot read config file",
		Suggestion: "Pass --config with the path to lesson.yaml or lesson.json.",
	},
	"L041": {
		Category: CategoryConfig,
		Message:  "Invalid config",
	},

	// Publish errors (L050-L059)
	"L050": {
		Category:   CategoryPublish,
		Message:    "Publish failed",
		Suggestion: "Check the bucket name, region and credentials.",
	},
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
