package confirm

import (
	"regexp"
	"strings"

	"github.com/flosch/pongo2/v6"
)

var (
	tokenPattern      = regexp.MustCompile(`\{\{\s*([A-Za-z][A-Za-z0-9_]*)\s*\}\}`)
	whitespaceRuns    = regexp.MustCompile(`\s{2,}`)
	templateDelimiter = regexp.MustCompile(`\{[{%#]`)
)

// Render substitutes every {{token}} occurrence in an administrator-authored
// template with its resolved value ("" when absent), collapses runs of
// whitespace left behind by empty tokens, and trims the result.
//
// Templates go through the pongo2 engine so admins keep filter/expression
// support; a template that fails to parse falls back to literal token
// replacement instead of erroring, since admin content must never break the
// confirmation screen.
func Render(template string, tokens map[string]string) string {
	if strings.TrimSpace(template) == "" {
		return ""
	}

	rendered, err := renderTemplate(template, tokens)
	if err != nil {
		rendered = replaceLiteral(template, tokens)
	}
	return tidy(rendered)
}

func renderTemplate(template string, tokens map[string]string) (string, error) {
	if !templateDelimiter.MatchString(template) {
		return template, nil
	}
	tpl, err := pongo2.FromString(template)
	if err != nil {
		return "", err
	}
	// Token values are plain text, not HTML: mark them safe so pongo2 does
	// not entity-encode characters like & or ' in the output.
	ctx := make(pongo2.Context, len(tokens))
	for name, value := range tokens {
		ctx[name] = pongo2.AsSafeValue(value)
	}
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", err
	}
	return out, nil
}

func replaceLiteral(template string, tokens map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := tokenPattern.FindStringSubmatch(match)[1]
		return tokens[name]
	})
}

func tidy(s string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}
