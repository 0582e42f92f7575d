package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reconciler Errors (RE001-RE099)
	// ============================================

	"RE001": {
		Category:   CategoryHooks,
		Message:    "Hook order changed between renders",
		Detail:     "A component called its hooks in a different order, or a different number of them, than on its first render. The mismatched hook fell back to its initial value and the stored slot was left untouched.",
		Suggestion: "Call hooks unconditionally at the top level of the render function, never inside conditions or loops.",
	},
	"RE002": {
		Category:   CategoryHooks,
		Message:    "Hook called outside render",
		Detail:     "A hook ran on a scope whose render had already returned, typically from a goroutine or event handler that captured the scope.",
		Suggestion: "Only call hooks synchronously inside the render function. Capture the setter instead of the scope.",
	},
	"RE003": {
		Category:   CategoryRenderer,
		Message:    "Renderer contract violation",
		Detail:     "The renderer failed to create, update or destroy a target it was handed.",
		Suggestion: "Check that the renderer accepts every host type it is asked to mount and only receives targets it created.",
	},
	"RE004": {
		Category: CategoryRuntime,
		Message:  "Stale update dropped",
		Detail:   "A queued state mutation targeted a component that has since been unmounted. The mutation was discarded.",
	},
	"RE005": {
		Category:   CategoryRuntime,
		Message:    "Unknown mounted instance",
		Detail:     "The ID does not refer to a mounted node. It was never issued or the node has been unmounted.",
		Suggestion: "Keep the ID returned by Mount and stop using it after Unmount.",
	},
	"RE006": {
		Category:   CategoryNode,
		Message:    "Invalid node",
		Detail:     "The node cannot be mounted or applied at this position.",
		Suggestion: "Composite types need a render function, and Update must keep the node's type.",
	},

	// ============================================
	// Configuration Errors (RE100-RE119)
	// ============================================

	"RE100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No reactor.json or reactor.yaml file was found in the project directory.",
	},
	"RE101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file has an invalid value.",
	},
	"RE102": {
		Category: CategoryConfig,
		Message:  "Configuration parse error",
		Detail:   "The configuration file could not be parsed.",
	},

	// ============================================
	// CLI Errors (RE120-RE139)
	// ============================================

	"RE120": {
		Category: CategoryCLI,
		Message:  "Snapshot store unavailable",
		Detail:   "The configured snapshot driver could not be opened.",
	},
	"RE121": {
		Category: CategoryCLI,
		Message:  "Snapshot not found",
		Detail:   "No snapshot with that ID exists in the configured store.",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
