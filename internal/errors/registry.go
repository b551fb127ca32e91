package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Usage Errors (W100-W199)
	// ============================================

	"W101": {
		Category:   CategoryUsage,
		Message:    "Reserved property key",
		Suggestion: `Rename the property; keys starting with "__" belong to the engine.`,
	},
	"W102": {
		Category:   CategoryUsage,
		Message:    "Component used after release",
		Suggestion: "Construct a new component instead of reusing an unmounted one.",
	},
	"W103": {
		Category:   CategoryUsage,
		Message:    "Duplicate component identifier",
		Suggestion: "Identifiers must come from Registry.Generate.",
	},
	"W104": {
		Category:   CategoryUsage,
		Message:    "Component rendered more than once",
		Suggestion: "A component instance can appear once per render; create one instance per occurrence.",
	},

	// ============================================
	// Template Errors (W200-W299)
	// ============================================

	"W201": {
		Category: CategoryTemplate,
		Message:  "Unknown property in placeholder",
	},
	"W202": {
		Category:   CategoryTemplate,
		Message:    "Malformed placeholder arguments",
		Suggestion: `Call arguments must be a JSON object, or a JSON array followed by "...".`,
	},
	"W203": {
		Category:   CategoryTemplate,
		Message:    "Placeholder target is not callable",
		Suggestion: "Call-form placeholders need a func(map[string]any) any property.",
	},
	"W204": {
		Category:   CategoryTemplate,
		Message:    "Event attribute did not resolve to a function",
		Suggestion: `Bind a func(*dom.Event) or func() to on<type> attributes.`,
	},
	"W205": {
		Category: CategoryTemplate,
		Message:  "Function in text position",
	},

	// ============================================
	// Render Errors (W300-W399)
	// ============================================

	"W301": {
		Category: CategoryRender,
		Message:  "Renderer panicked",
	},
	"W302": {
		Category: CategoryRender,
		Message:  "Event listener panicked",
	},

	// ============================================
	// Transport Errors (W400-W499)
	// ============================================

	"W401": {
		Category: CategoryTransport,
		Message:  "Request failed after retries",
	},
	"W402": {
		Category: CategoryTransport,
		Message:  "Unexpected response status",
	},

	// ============================================
	// Config Errors (W500-W599)
	// ============================================

	"W501": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"W502": {
		Category: CategoryConfig,
		Message:  "Failed to read configuration file",
	},

	// ============================================
	// Command Errors (W600-W699)
	// ============================================

	"W601": {
		Category: CategoryUsage,
		Message:  "Command failed",
	},
	"W602": {
		Category:   CategoryUsage,
		Message:    "Unknown error format",
		Suggestion: "Use --error-format=pretty, compact or json.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered error codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
