// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"

	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/ui/display"
	"github.com/arthur-debert/mimer/pkg/ui/styles"
	"github.com/charmbracelet/lipgloss"
)

// Renderer draws display documents with the lipgloss styles of the
// styles registry, bound to the output's color profile
type Renderer struct {
	output   io.Writer
	renderer *lipgloss.Renderer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w, renderer: lipgloss.NewRenderer(w)}
}

func (r *Renderer) paint(style, text string) string {
	if text == "" {
		return text
	}
	return styles.Get(style).Renderer(r.renderer).Render(text)
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	return display.Write(r.output, display.Convert(result), r.paint)
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	msg := err.Error()
	var me *errors.MimerError
	if errors.As(err, &me) {
		msg = me.Message
		if me.Wrapped != nil {
			msg += ": " + me.Wrapped.Error()
		}
	}
	_, werr := fmt.Fprintf(r.output, "%s %s\n", r.paint("Error", "Error:"), msg)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, r.paint("Success", msg))
	return err
}
