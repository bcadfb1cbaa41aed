package render

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans operator supplied info panel HTML. Only formatting, links
// and lists survive; scripts, styles and event handlers are stripped.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the info panel policy.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.NewPolicy()
	policy.AllowStandardURLs()
	policy.AllowAttrs("href").OnElements("a")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.AllowElements("p", "br", "strong", "em", "b", "i", "code", "pre", "ul", "ol", "li", "h3", "h4")
	return &Sanitizer{policy: policy}
}

// Sanitize returns safe HTML. Blank input yields "".
func (s *Sanitizer) Sanitize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if s == nil || s.policy == nil {
		return bluemonday.StrictPolicy().Sanitize(raw)
	}
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
