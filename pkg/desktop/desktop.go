package desktop

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/types"
)

const (
	// GroupDesktopEntry is the only group mimer reads
	GroupDesktopEntry = "Desktop Entry"

	// TypeApplication is the only entry type that can handle MIME types
	TypeApplication = "Application"

	// Extension is the file suffix of desktop entries
	Extension = ".desktop"

	// ReasonNotApplication marks entries rejected for their Type
	ReasonNotApplication = "not_application"
)

// Entry is one parsed desktop entry. It is built once per scan and never
// modified afterwards.
type Entry struct {
	ID   types.ApplicationID `json:"id" yaml:"id"`
	Path string              `json:"path" yaml:"path"`

	// Locale-resolved strings
	Name        string `json:"name" yaml:"name"`
	GenericName string `json:"generic_name,omitempty" yaml:"generic_name,omitempty"`
	Comment     string `json:"comment,omitempty" yaml:"comment,omitempty"`

	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Exec string `json:"exec,omitempty" yaml:"exec,omitempty"`

	Hidden          bool `json:"hidden" yaml:"hidden"`
	NoDisplay       bool `json:"no_display" yaml:"no_display"`
	Terminal        bool `json:"terminal" yaml:"terminal"`
	DBusActivatable bool `json:"dbus_activatable,omitempty" yaml:"dbus_activatable,omitempty"`

	// MimeTypes are the declared types, normalized, in file order
	MimeTypes []types.MimeType `json:"mime_types" yaml:"mime_types"`
}

// Supports reports whether the entry declares mime
func (e *Entry) Supports(mime types.MimeType) bool {
	for _, m := range e.MimeTypes {
		if m == mime {
			return true
		}
	}
	return false
}

// group holds the raw key/value pairs of one group. The first occurrence of
// a key wins.
type group map[string]string

func (g group) raw(key string) (string, bool) {
	v, ok := g[key]
	return v, ok
}

func (g group) localized(key string, loc Locale) string {
	for _, suffix := range loc.Candidates() {
		if v, ok := g[key+"["+suffix+"]"]; ok {
			return unescapeString(v)
		}
	}
	return unescapeString(g[key])
}

func (g group) boolean(key string) bool {
	return strings.TrimSpace(g[key]) == "true"
}

// Parse parses a desktop entry file. It fails with PARSE_ERROR on malformed
// group headers, key lines outside any group, a missing [Desktop Entry]
// group, a missing Name, or a missing Exec on a non-D-Bus application.
// Entries of another Type fail with the "reason" detail set to
// ReasonNotApplication.
func Parse(id types.ApplicationID, path string, data []byte, loc Locale) (*Entry, error) {
	groups, err := parseGroups(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrParse, "malformed desktop entry").WithDetail("path", path)
	}

	g, ok := groups[GroupDesktopEntry]
	if !ok {
		return nil, errors.New(errors.ErrParse, "missing [Desktop Entry] group").WithDetail("path", path)
	}

	if typ, ok := g.raw("Type"); ok && strings.TrimSpace(typ) != TypeApplication {
		return nil, errors.Newf(errors.ErrParse, "entry type %q is not %s", typ, TypeApplication).
			WithDetail("path", path).
			WithDetail("reason", ReasonNotApplication)
	}

	e := &Entry{
		ID:              id,
		Path:            path,
		Name:            g.localized("Name", loc),
		GenericName:     g.localized("GenericName", loc),
		Comment:         g.localized("Comment", loc),
		Icon:            unescapeString(g["Icon"]),
		Exec:            unescapeString(g["Exec"]),
		Hidden:          g.boolean("Hidden"),
		NoDisplay:       g.boolean("NoDisplay"),
		Terminal:        g.boolean("Terminal"),
		DBusActivatable: g.boolean("DBusActivatable"),
	}

	// Hidden=true marks a deletion override and needs no other keys
	if e.Name == "" && !e.Hidden {
		return nil, errors.New(errors.ErrParse, "missing Name key").WithDetail("path", path)
	}
	if e.Exec == "" && !e.DBusActivatable && !e.Hidden {
		return nil, errors.New(errors.ErrParse, "missing Exec key").WithDetail("path", path)
	}

	seen := make(map[types.MimeType]struct{})
	for _, raw := range SplitList(g["MimeType"]) {
		m, err := types.ParseMimeType(raw)
		if err != nil {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		e.MimeTypes = append(e.MimeTypes, m)
	}

	return e, nil
}

func parseGroups(data []byte) (map[string]group, error) {
	groups := make(map[string]group)
	var current group

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.HasPrefix(trimmed, "[") {
			name, ok := groupName(trimmed)
			if !ok {
				return nil, errors.Newf(errors.ErrParse, "line %d: malformed group header %q", lineNo, trimmed)
			}
			if _, exists := groups[name]; exists {
				// A repeated group is invalid; keep the first one and
				// ignore the rest of the repeated group.
				current = group{}
				continue
			}
			current = group{}
			groups[name] = current
			continue
		}

		if current == nil {
			return nil, errors.Newf(errors.ErrParse, "line %d: key outside of any group", lineNo)
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, errors.Newf(errors.ErrParse, "line %d: expected key=value", lineNo)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, errors.Newf(errors.ErrParse, "line %d: empty key", lineNo)
		}
		if _, exists := current[key]; !exists {
			current[key] = strings.TrimLeft(value, " \t")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// groupName extracts the name from a "[Name]" header line
func groupName(line string) (string, bool) {
	if len(line) < 3 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	name := line[1 : len(line)-1]
	if strings.ContainsAny(name, "[]") {
		return "", false
	}
	return name, true
}

// SplitList splits a semicolon-separated value, honouring "\;" escapes and
// dropping empty items.
func SplitList(raw string) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		item := strings.TrimSpace(cur.String())
		if item != "" {
			out = append(out, item)
		}
		cur.Reset()
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '\\' && i+1 < len(raw):
			i++
			writeEscape(&cur, raw[i])
		case c == ';':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return out
}

func unescapeString(raw string) string {
	if !strings.Contains(raw, `\`) {
		return strings.TrimSpace(raw)
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			writeEscape(&b, raw[i])
			continue
		}
		b.WriteByte(raw[i])
	}
	return strings.TrimSpace(b.String())
}

func writeEscape(b *strings.Builder, c byte) {
	switch c {
	case 's':
		b.WriteByte(' ')
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '\\':
		b.WriteByte('\\')
	case ';':
		b.WriteByte(';')
	default:
		b.WriteByte('\\')
		b.WriteByte(c)
	}
}
