package testutil

import (
	"fmt"
	"strings"
)

// DesktopFile describes a desktop entry to write in a test. The zero value
// plus a Name renders a valid application.
type DesktopFile struct {
	Type      string // defaults to Application
	Name      string
	Exec      string // defaults to the lowercased Name
	MimeTypes []string
	Hidden    bool
	NoDisplay bool
	Terminal  bool
	Extra     string // raw lines appended to [Desktop Entry]
}

// App is shorthand for a visible application handling mimes
func App(name string, mimes ...string) DesktopFile {
	return DesktopFile{Name: name, MimeTypes: mimes}
}

// String renders the desktop entry file
func (d DesktopFile) String() string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")

	typ := d.Type
	if typ == "" {
		typ = "Application"
	}
	fmt.Fprintf(&b, "Type=%s\n", typ)

	if d.Name != "" {
		fmt.Fprintf(&b, "Name=%s\n", d.Name)
	}
	exec := d.Exec
	if exec == "" && d.Name != "" {
		exec = strings.ToLower(strings.ReplaceAll(d.Name, " ", "-")) + " %U"
	}
	if exec != "" {
		fmt.Fprintf(&b, "Exec=%s\n", exec)
	}
	if len(d.MimeTypes) > 0 {
		fmt.Fprintf(&b, "MimeType=%s;\n", strings.Join(d.MimeTypes, ";"))
	}
	if d.Hidden {
		b.WriteString("Hidden=true\n")
	}
	if d.NoDisplay {
		b.WriteString("NoDisplay=true\n")
	}
	if d.Terminal {
		b.WriteString("Terminal=true\n")
	}
	if d.Extra != "" {
		b.WriteString(strings.TrimSuffix(d.Extra, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// Mimeapps builds mimeapps.list content section by section, in the order
// the sections are first used.
type Mimeapps struct {
	sections []string
	entries  map[string][]string
}

// NewMimeapps starts an empty mimeapps.list
func NewMimeapps() *Mimeapps {
	return &Mimeapps{entries: make(map[string][]string)}
}

// Added adds an [Added Associations] line
func (m *Mimeapps) Added(mime string, ids ...string) *Mimeapps {
	return m.line("Added Associations", mime, ids)
}

// Removed adds a [Removed Associations] line
func (m *Mimeapps) Removed(mime string, ids ...string) *Mimeapps {
	return m.line("Removed Associations", mime, ids)
}

// Default adds a [Default Applications] line
func (m *Mimeapps) Default(mime string, ids ...string) *Mimeapps {
	return m.line("Default Applications", mime, ids)
}

func (m *Mimeapps) line(section, mime string, ids []string) *Mimeapps {
	if _, ok := m.entries[section]; !ok {
		m.sections = append(m.sections, section)
	}
	m.entries[section] = append(m.entries[section], mime+"="+strings.Join(ids, ";")+";")
	return m
}

// String renders the file
func (m *Mimeapps) String() string {
	var b strings.Builder
	for i, section := range m.sections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s]\n", section)
		for _, line := range m.entries[section] {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}
