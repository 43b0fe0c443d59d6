package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://routegen.vango.dev/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Scan errors (E100-E119)

	"E100": {
		Category: CategoryScan,
		Message:  "Route directory not found",
		Detail:   "The input directory does not exist or is not a directory.",
		DocURL:   docBase + "E100",
	},
	"E101": {
		Category: CategoryScan,
		Message:  "Malformed dynamic segment",
		Detail:   "A bracketed directory name is not a valid [name], [name:type] or [...name] segment.",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryValidation,
		Message:  "Route tree validation failed",
		Detail:   "Sibling dynamic segments, repeated parameter names and catch-all segments with children cannot be expressed as paths.",
		DocURL:   docBase + "E102",
	},
	"E110": {
		Category: CategoryScan,
		Message:  "Invalid route tree file",
		Detail:   "The serialized route tree could not be decoded.",
		DocURL:   docBase + "E110",
	},

	// Configuration errors (E120-E139)

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid routegen configuration",
		Detail:   "The configuration file could not be parsed.",
		DocURL:   docBase + "E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Unknown configuration value",
		Detail:   "An output format or malformed-segment policy is not recognized.",
		DocURL:   docBase + "E121",
	},

	// CLI errors (E140-E149)

	"E140": {
		Category: CategoryCLI,
		Message:  "Configuration file already exists",
		Detail:   "routegen init does not overwrite an existing configuration.",
		DocURL:   docBase + "E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Configuration not found",
		Detail:   "No configuration file was found in the directory or any parent.",
		DocURL:   docBase + "E141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Invalid builder call",
		Detail:   "The path expression does not match the route tree.",
		DocURL:   docBase + "E142",
	},

	// Code generation errors (E150-E169)

	"E150": {
		Category: CategoryCodegen,
		Message:  "Identifier collision",
		Detail:   "Two route segments map to the same generated identifier.",
		DocURL:   docBase + "E150",
	},
	"E151": {
		Category: CategoryCodegen,
		Message:  "Invalid identifier",
		Detail:   "A route segment cannot be turned into a Go identifier.",
		DocURL:   docBase + "E151",
	},
	"E152": {
		Category: CategoryCodegen,
		Message:  "Code generation failed",
		Detail:   "The generated source could not be formatted.",
		DocURL:   docBase + "E152",
	},
	"E160": {
		Category: CategoryIO,
		Message:  "Write failed",
		Detail:   "The generated output could not be written.",
		DocURL:   docBase + "E160",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
