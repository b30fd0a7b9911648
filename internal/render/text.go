package render

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dmitrymomot/remindr/internal/model"
)

// RenderText renders blocks as a plain-text alternative: one paragraph per
// block, buttons as [label](url), dividers as ---. Images produce nothing.
func RenderText(blocks []model.Block, vars map[string]string) string {
	parts := make([]string, 0, len(blocks))
	for _, block := range sortBlocks(blocks) {
		var line string
		switch block.Type {
		case model.BlockText:
			line = Substitute(block.Content, vars)
		case model.BlockButton:
			line = "[" + Substitute(block.Label, vars) + "](" + Substitute(block.URL, vars) + ")"
		case model.BlockDivider:
			line = "---"
		case model.BlockSpacer:
			line = "\n"
		}
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n\n")
}

var (
	strictPolicy     *bluemonday.Policy
	strictPolicyOnce sync.Once

	blockBreakPattern = regexp.MustCompile(`(?i)<\s*(br\s*/?|/p|/div|/tr|/h[1-6]|/li)\s*>`)
	blankRunPattern   = regexp.MustCompile(`\n{3,}`)
	hspacePattern     = regexp.MustCompile(`[ \t]+`)
)

// PlainTextFromHTML strips all markup from an HTML document and returns its
// readable text, keeping paragraph breaks.
func PlainTextFromHTML(doc string) string {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})

	withBreaks := blockBreakPattern.ReplaceAllString(doc, "$0\n")
	stripped := html.UnescapeString(strictPolicy.Sanitize(withBreaks))

	lines := strings.Split(stripped, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(hspacePattern.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(blankRunPattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
