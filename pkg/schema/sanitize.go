package schema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	introPolicyOnce sync.Once
	introPolicy     *bluemonday.Policy
)

// SanitizedIntro returns the admin-authored intro content with unsafe markup
// stripped. The intro is the only schema string rendered as HTML, so it is
// the only one that passes through a sanitizer.
func (f Form) SanitizedIntro() string {
	return sanitizeContent(f.Settings.Intro)
}

func sanitizeContent(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := strings.TrimSpace(contentSanitizer().Sanitize(trimmed))
	return cleaned
}

func contentSanitizer() *bluemonday.Policy {
	introPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").OnElements("p", "span", "ul", "ol", "li")
		introPolicy = policy
	})
	return introPolicy
}
