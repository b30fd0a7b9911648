package render

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five HTML-sensitive characters. It is applied to
// substituted values before they are embedded in generated markup.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
