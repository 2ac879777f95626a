package display

import (
	"fmt"
	"io"
	"strings"
)

// Painter applies a named style to text. The text renderer passes Plain.
type Painter func(style, text string) string

// Plain is the Painter that ignores styles
func Plain(_, text string) string { return text }

// Write lays doc out on w: sections separated by a blank line, titled
// sections indented, keys padded to a common width per section.
func Write(w io.Writer, doc Document, paint Painter) error {
	var b strings.Builder
	first := true
	for _, sec := range doc.Sections {
		if len(sec.Rows) == 0 && sec.Title == "" {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false

		indent := ""
		if sec.Title != "" {
			b.WriteString(paint("Title", sec.Title))
			b.WriteString("\n")
			indent = "  "
		}

		width := sec.KeyWidth()
		for _, row := range sec.Rows {
			b.WriteString(indent)
			if width > 0 {
				b.WriteString(paint("Key", fmt.Sprintf("%-*s", width, row.Key)))
				b.WriteString("  ")
			}
			b.WriteString(paint(row.Kind.Style(), row.Value))
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
