package config

// Version is the current Selene version.
// Set at build time via -ldflags or by writing to this file.
var Version = "0.2.1"

const SourceFileExt = ".sel"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".sel", ".selene"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// IsTestMode indicates if the program is running in test mode.
// Set once at startup when handling the test command.
var IsTestMode = false

// BuiltinPack is the package every compile unit implicitly imports.
// Loading it exposes short-form names for its declarations.
const BuiltinPack = "builtin"

// Built-in iteration protocol names.
const (
	IterTypeName    = "Iter"
	Iter2TypeName   = "Iter2"
	IterMethodName  = "iter"
	Iter2MethodName = "iter2"
)

// SelfTypeName is the placeholder a method signature uses for its owner.
const SelfTypeName = "Self"
