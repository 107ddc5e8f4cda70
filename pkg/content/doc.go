// Package content holds the lesson as data.
//
// A Document is an ordered list of layout sections (Stack, Split) holding
// blocks; each block has a stable ID and a body (Heading, Paragraph, Rule
// or a WidgetRef naming a registered widget). Inline runs mix plain text,
// formulas, color spots, bold text and scrubbers bound to variables.
// Nothing here renders; see package page.
package content
