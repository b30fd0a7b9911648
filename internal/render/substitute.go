package render

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

	// strictPlaceholderPattern matches what authors may reference: word
	// characters only, no inner whitespace.
	strictPlaceholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)
)

// Substitute replaces every {{key}} in s whose key exists in vars with the
// value. Keys are compared literally after trimming whitespace inside the
// braces. Unknown placeholders are left untouched and inserted values are
// never scanned again.
func Substitute(s string, vars map[string]string) string {
	if s == "" || len(vars) == 0 || !strings.Contains(s, "{{") {
		return s
	}

	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := placeholderPattern.FindStringSubmatch(match)
		key := strings.TrimSpace(sub[1])
		if v, ok := vars[key]; ok {
			return v
		}
		return match
	})
}

// Placeholders returns the distinct variable names referenced in s, in
// order of first appearance.
func Placeholders(s string) []string {
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		key := strings.TrimSpace(m[1])
		if key != "" && !slices.Contains(names, key) {
			names = append(names, key)
		}
	}
	return names
}

// ValidateVariables reports the first {{name}} reference in text that is not
// in allowed.
func ValidateVariables(text string, allowed []string) error {
	for _, m := range strictPlaceholderPattern.FindAllStringSubmatch(text, -1) {
		if !slices.Contains(allowed, m[1]) {
			return fmt.Errorf("%w: {{%s}}", ErrUnknownVariable, m[1])
		}
	}
	return nil
}
