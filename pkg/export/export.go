// Package export turns a finalized document into a downloadable artifact:
// a filename with a language-derived extension, a MIME type, and the bytes.
package export

import (
	"fmt"

	"github.com/google/uuid"
)

// Artifact is an exportable file produced from a classified document.
type Artifact struct {
	Filename string
	MIMEType string
	Bytes    []byte
}

// extensions is the fixed language→extension mapping. Unmapped languages
// fall back to the generic text extension.
var extensions = map[string]string{
	"javascript": "js",
	"typescript": "ts",
	"tsx":        "tsx",
	"python":     "py",
	"vue":        "vue",
	"rust":       "rs",
	"cpp":        "cpp",
	"java":       "java",
	"php":        "php",
	"sql":        "sql",
	"html":       "html",
	"css":        "css",
	"markdown":   "md",
	"go":         "go",
}

const (
	fallbackExtension = "txt"
	mimeType          = "text/plain; charset=utf-8"
)

// Export builds an artifact for text in the given language. The filename is
// unique per call so successive exports never clobber each other.
func Export(text, language string) Artifact {
	return Artifact{
		Filename: fmt.Sprintf("codestream-%s.%s", uuid.NewString()[:8], Extension(language)),
		MIMEType: mimeType,
		Bytes:    []byte(text),
	}
}

// Extension resolves a language to its file extension, falling back to the
// generic text extension for unmapped languages.
func Extension(language string) string {
	if ext, ok := extensions[language]; ok {
		return ext
	}
	return fallbackExtension
}
