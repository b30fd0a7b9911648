// Package model defines the records the dispatch core reads: recipients
// (subscribers), groups, legacy schedules and templates.
//
// Templates are a tagged union. Exactly one of [TextContent], [HTMLContent]
// or [BlockContent] is carried by [Template.Content]; the flat [Record] form
// is what storage and wire formats use, and [Record.Template] decides the
// variant with a fixed priority (HTML, then blocks, then legacy text) when a
// record carries more than one mode flag.
//
// Write-path validation lives here too. Callers that persist records should
// run Validate before writing; a validated record never needs the read-side
// priority fallback.
package model
