package topics

import (
	"os"

	"github.com/charmbracelet/glamour"
)

// Renderer formats topic content for the terminal. format is the topic
// file's extension, dot included.
type Renderer interface {
	Render(content string, format string) string
}

// PlainRenderer prints topics as they are stored
type PlainRenderer struct{}

// Render returns the content unchanged
func (r *PlainRenderer) Render(content string, format string) string {
	return content
}

// GlamourRenderer renders markdown topics with glamour. Other formats pass
// through unchanged, and so does markdown glamour fails to render.
type GlamourRenderer struct {
	// Style is a glamour style name or a path to a JSON style file. Empty
	// picks one from the terminal background, or notty under NO_COLOR.
	Style string
	// WrapWidth wraps rendered text; 0 keeps glamour's default.
	WrapWidth int
}

// NewGlamourRenderer returns a renderer that adapts to the terminal
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{}
}

// Render renders markdown content
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	switch {
	case r.Style != "":
		options = append(options, glamour.WithStylePath(r.Style))
	case os.Getenv("NO_COLOR") != "":
		options = append(options, glamour.WithStandardStyle("notty"))
	default:
		options = append(options, glamour.WithAutoStyle())
	}
	if r.WrapWidth > 0 {
		options = append(options, glamour.WithWordWrap(r.WrapWidth))
	}

	tr, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := tr.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
