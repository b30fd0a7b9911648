// Package render turns a template and a per-recipient variable set into
// final email content.
//
// # Substitution
//
// [Substitute] replaces {{key}} placeholders (whitespace inside the braces is
// tolerated) with values from a flat map in a single pass. Placeholders for
// unknown keys are kept verbatim so a missing variable is visible in the
// delivered mail instead of silently erased.
//
// # Blocks
//
// [RenderHTML] converts content blocks into a standalone, table-based HTML
// document with inline styles, the layout email clients render reliably.
// Substituted values are HTML-escaped before they are placed in markup.
// [RenderText] produces the plain-text alternative.
//
// # Resolution
//
// [Resolver.Resolve] dispatches on the template content mode: HTML bodies
// get raw substitution (the author owns that markup), block templates go
// through the block renderer, legacy text bodies are substituted and, when
// enabled, formatted as markdown.
//
// Everything in this package is pure: no I/O, and inputs are never mutated.
package render
