package archive

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	unsafeChars = regexp.MustCompile(`[^\w\s\-.]`)
	spaceRuns   = regexp.MustCompile(`\s+`)
	hyphenRuns  = regexp.MustCompile(`-+`)
)

// Sanitize turns an arbitrary title into a lower-case path segment made of
// word characters, hyphens and periods. The result may be empty.
func Sanitize(title string) string {
	s := strings.ToLower(title)
	s = unsafeChars.ReplaceAllString(s, "-")
	s = spaceRuns.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// titleExtensions may be stripped from sanitized titles so that "app.js"
// does not become "app.js.js".
var titleExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true, ".css": true,
	".html": true, ".json": true, ".md": true, ".txt": true, ".py": true,
}

// baseName sanitizes title and drops a trailing extension only when it is
// the one the file is about to get, so "foo.js" saved as text stays
// "foo.js.txt".
func baseName(title, ext string) string {
	name := Sanitize(title)
	if titleExtensions[ext] && strings.HasSuffix(name, ext) {
		name = strings.TrimRight(strings.TrimSuffix(name, ext), "-.")
	}
	if name == "" {
		return "untitled"
	}
	return name
}

// Namer allocates artifact filenames that are unique within one archive.
// Names are handed out in call order, so earlier artifacts keep the plain
// name and later clashes get a numeric suffix.
type Namer struct {
	used map[string]struct{}
}

// NewNamer returns a Namer with no names taken.
func NewNamer() *Namer {
	return &Namer{used: make(map[string]struct{})}
}

// Name returns "NN-title.ext" for the seq'th artifact, appending "-1",
// "-2", ... before the extension when the name is already taken.
func (n *Namer) Name(seq int, title, ext string) string {
	stem := fmt.Sprintf("%02d-%s", seq, baseName(title, ext))
	name := stem + ext
	for i := 1; n.taken(name); i++ {
		name = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
	n.used[name] = struct{}{}
	return name
}

func (n *Namer) taken(name string) bool {
	_, ok := n.used[name]
	return ok
}
