package jsonhl

import (
	"bufio"
	"fmt"
	"html"
	"io"
)

// DefaultHTMLClasses are the CSS classes WriteHTML uses when none are given.
var DefaultHTMLClasses = map[Category]string{
	CategoryKey:     "json-key",
	CategoryString:  "json-string",
	CategoryNumber:  "json-number",
	CategoryBoolean: "json-boolean",
	CategoryNull:    "json-null",
}

// WriteHTML writes doc as an HTML <pre> block. Annotated ranges become
// <span> elements with the class mapped to their category; a category
// missing from classes is written without a span. A nil map selects
// DefaultHTMLClasses.
func WriteHTML(w io.Writer, doc *Document, classes map[Category]string) error {
	if classes == nil {
		classes = DefaultHTMLClasses
	}
	bw := bufio.NewWriter(w)
	if _, err := io.WriteString(bw, `<pre class="json">`); err != nil {
		return err
	}
	for span := range doc.Spans() {
		text := html.EscapeString(span.Text)
		class, ok := classes[span.Category]
		if !span.Styled || !ok {
			if _, err := io.WriteString(bw, text); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(bw, `<span class="%s">%s</span>`, html.EscapeString(class), text); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(bw, "</pre>\n"); err != nil {
		return err
	}
	return bw.Flush()
}
