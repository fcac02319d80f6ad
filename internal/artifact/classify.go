package artifact

import "strings"

// Declared content types used by the artifacts tool.
const (
	TypeCode     = "application/vnd.ant.code"
	TypeReact    = "application/vnd.ant.react"
	TypeHTML     = "text/html"
	TypeCSS      = "text/css"
	TypeJS       = "text/javascript"
	TypeMarkdown = "text/markdown"
	TypePlain    = "text/plain"
)

// Kind is the canonical language label and file extension of an artifact.
type Kind struct {
	Language  string
	Extension string
}

var plainKind = Kind{Language: "txt", Extension: ".txt"}

var languageExtensions = map[string]string{
	"javascript": ".js",
	"typescript": ".ts",
	"python":     ".py",
	"java":       ".java",
	"cpp":        ".cpp",
	"c":          ".c",
	"csharp":     ".cs",
	"go":         ".go",
	"rust":       ".rs",
	"ruby":       ".rb",
	"php":        ".php",
	"swift":      ".swift",
	"kotlin":     ".kt",
	"scala":      ".scala",
	"r":          ".r",
	"matlab":     ".m",
	"html":       ".html",
	"css":        ".css",
	"scss":       ".scss",
	"json":       ".json",
	"xml":        ".xml",
	"yaml":       ".yaml",
	"sql":        ".sql",
	"shell":      ".sh",
	"bash":       ".sh",
	"markdown":   ".md",
	"jsx":        ".jsx",
	"tsx":        ".tsx",
	"vue":        ".vue",
}

// ExtensionFor returns the file extension of a language, ".txt" when unknown.
func ExtensionFor(language string) string {
	if ext, ok := languageExtensions[strings.ToLower(language)]; ok {
		return ext
	}
	return ".txt"
}

// Classify maps a declared type and optional language hint to a Kind.
// It is total: unrecognized input classifies as plain text.
func Classify(declaredType, language string) Kind {
	switch declaredType {
	case TypeCode:
		if language == "" {
			return plainKind
		}
		return Kind{Language: strings.ToLower(language), Extension: ExtensionFor(language)}
	case TypeHTML:
		return Kind{Language: "html", Extension: ".html"}
	case TypeReact:
		return Kind{Language: "jsx", Extension: ".jsx"}
	case TypeCSS:
		return Kind{Language: "css", Extension: ".css"}
	case TypeJS:
		return Kind{Language: "javascript", Extension: ".js"}
	case TypeMarkdown:
		return Kind{Language: "markdown", Extension: ".md"}
	default:
		return plainKind
	}
}
