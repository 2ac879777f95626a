// Package display turns mimer's results into a format-neutral document of
// titled sections and key/value rows. The text and terminal renderers
// draw the same document, with and without styling.
package display

// Kind tells a renderer how to emphasise a row
type Kind int

const (
	KindPlain Kind = iota
	KindDefault
	KindCandidate
	KindMuted
	KindSuccess
	KindWarning
	KindError
)

// Style names the style a Kind is drawn with
func (k Kind) Style() string {
	switch k {
	case KindDefault:
		return "Default"
	case KindCandidate:
		return "Candidate"
	case KindMuted:
		return "Muted"
	case KindSuccess:
		return "Success"
	case KindWarning:
		return "Warning"
	case KindError:
		return "Error"
	default:
		return "Value"
	}
}

// Row is one line of a section. An empty Key continues the previous row.
type Row struct {
	Key   string
	Value string
	Kind  Kind
}

// Section is a titled group of rows. An empty Title draws no heading.
type Section struct {
	Title string
	Rows  []Row
}

// Document is everything one command prints
type Document struct {
	Sections []Section
}

// KeyWidth is the width of the widest key in s
func (s Section) KeyWidth() int {
	width := 0
	for _, r := range s.Rows {
		if len(r.Key) > width {
			width = len(r.Key)
		}
	}
	return width
}

// Message is a one-line status, such as the outcome of a mutation
type Message struct {
	Text string `json:"message" yaml:"message"`
	Kind Kind   `json:"-" yaml:"-"`
}
