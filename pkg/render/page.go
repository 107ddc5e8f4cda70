package render

import (
	"fmt"
	"io"

	"github.com/lessonkit/inversetrig/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Description fills the description meta tag when set.
	Description string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// InlineStyle is emitted in a <style> element in the head.
	InlineStyle string

	// SessionID identifies the visitor's variable snapshot; the thin client
	// sends it back when opening the live connection.
	SessionID string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", escapeAttr(lang)); err != nil {
		return err
	}
	if err := r.renderHead(w, page); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	if err := r.renderClientScript(w, page); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n</body>\n</html>\n")
	return err
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	head := "<head>\n" +
		`  <meta charset="utf-8">` + "\n" +
		`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n"
	if _, err := io.WriteString(w, head); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	if page.Description != "" {
		if _, err := fmt.Fprintf(w, `  <meta name="description" content="%s">`+"\n", escapeAttr(page.Description)); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, `  <link rel="stylesheet" href="%s">`+"\n", escapeAttr(href)); err != nil {
			return err
		}
	}
	if page.InlineStyle != "" {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", page.InlineStyle); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</head>\n")
	return err
}

// renderClientScript injects the thin client. Static renders skip it.
func (r *Renderer) renderClientScript(w io.Writer, page PageData) error {
	if r.config.ClientScript == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, `<script src="%s" data-ws="%s" data-session="%s" defer></script>`,
		escapeAttr(r.config.ClientScript),
		escapeAttr(r.config.WebSocketPath),
		escapeAttr(page.SessionID))
	return err
}
