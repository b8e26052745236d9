package inject

import (
	"errors"
	"fmt"
	"io"

	"github.com/valyala/fasttemplate"
)

// Defaults for the feedback script injection.
const (
	DefaultPattern         = "**.html"
	DefaultExclude         = "feedback/**"
	DefaultScript          = "/feedback/init-feedback.js"
	DefaultSnippetTemplate = "  <script type=\"module\" src=\"{script}\"></script>\n"
	DefaultAnchor          = "</body>"
)

// Rule describes one injection: what to look for, where to insert and what.
type Rule struct {
	Marker  string // presence means the file was already processed
	Anchor  string // snippet is inserted in front of the first occurrence
	Snippet string // inserted verbatim

	// RequireAnchor turns a missing anchor into ErrAnchorNotFound instead of
	// an unchanged rewrite.
	RequireAnchor bool
}

// NewRule renders snippetTemplate with {script} replaced by script and uses
// the script path as the marker. Any other text, including unbalanced braces
// and other {tags}, is kept as written.
func NewRule(script, snippetTemplate, anchor string) (Rule, error) {
	snippet, err := fasttemplate.ExecuteFuncStringWithErr(snippetTemplate, "{", "}",
		func(w io.Writer, tag string) (int, error) {
			if tag == "script" {
				return io.WriteString(w, script)
			}
			return io.WriteString(w, "{"+tag+"}")
		})
	if err != nil {
		return Rule{}, fmt.Errorf("rendering snippet template: %w", err)
	}
	r := Rule{
		Marker:  script,
		Anchor:  anchor,
		Snippet: snippet,
	}
	return r, r.Validate()
}

// DefaultRule returns the feedback script rule.
func DefaultRule() Rule {
	r, _ := NewRule(DefaultScript, DefaultSnippetTemplate, DefaultAnchor)
	return r
}

// Validate reports a rule that could never produce a sensible result.
func (r Rule) Validate() error {
	switch {
	case r.Marker == "":
		return errors.New("marker must not be empty")
	case r.Anchor == "":
		return errors.New("anchor must not be empty")
	case r.Snippet == "":
		return errors.New("snippet must not be empty")
	}
	return nil
}
