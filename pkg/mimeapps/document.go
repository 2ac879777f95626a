package mimeapps

import (
	"strings"

	"github.com/arthur-debert/mimer/pkg/desktop"
	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/types"
)

// Section names a recognised mimeapps.list group
type Section string

const (
	SectionAdded    Section = "Added Associations"
	SectionRemoved  Section = "Removed Associations"
	SectionDefaults Section = "Default Applications"
)

// Sections lists the recognised groups in the order new ones are appended
var Sections = []Section{SectionDefaults, SectionAdded, SectionRemoved}

type lineKind int

const (
	lineOther  lineKind = iota // blank, comment or anything unparsable
	lineHeader                 // [Group]
	lineEntry                  // key=value inside a group
)

type line struct {
	raw     string
	kind    lineKind
	section string // owning group for entries, own name for headers
	key     types.MimeType
	rawKey  string
	value   string
}

// Document is a line-preserving mimeapps.list
type Document struct {
	lines        []line
	finalNewline bool
}

// NewDocument returns an empty document
func NewDocument() *Document {
	return &Document{}
}

// Parse builds a Document from file content. Content with meaningful lines
// but no group header at all is rejected; anything else parses, with
// unrecognised lines kept verbatim.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if len(data) == 0 {
		return doc, nil
	}

	text := string(data)
	if strings.HasSuffix(text, "\n") {
		doc.finalNewline = true
		text = text[:len(text)-1]
	}

	current := ""
	sawHeader := false
	sawContent := false
	for _, raw := range strings.Split(text, "\n") {
		l := line{raw: raw}
		trimmed := strings.TrimSpace(raw)

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
		case strings.HasPrefix(trimmed, "["):
			if name, ok := headerName(trimmed); ok {
				l.kind = lineHeader
				l.section = name
				current = name
				sawHeader = true
			}
			sawContent = true
		default:
			sawContent = true
			if current == "" {
				break
			}
			key, value, ok := strings.Cut(trimmed, "=")
			if !ok {
				break
			}
			l.kind = lineEntry
			l.section = current
			l.rawKey = strings.TrimSpace(key)
			l.key = types.NormalizeMimeType(key)
			l.value = strings.TrimSpace(value)
		}

		doc.lines = append(doc.lines, l)
	}

	if sawContent && !sawHeader {
		return nil, errors.New(errors.ErrParse, "no group header found")
	}
	return doc, nil
}

func headerName(trimmed string) (string, bool) {
	if len(trimmed) < 3 || !strings.HasSuffix(trimmed, "]") {
		return "", false
	}
	name := trimmed[1 : len(trimmed)-1]
	if strings.ContainsAny(name, "[]") {
		return "", false
	}
	return name, true
}

// Bytes serializes the document. A document that was parsed and not edited
// serializes to exactly its input.
func (d *Document) Bytes() []byte {
	if len(d.lines) == 0 {
		return nil
	}
	var b strings.Builder
	for i, l := range d.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.raw)
	}
	if d.finalNewline {
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// find returns the index of the first entry for mime in section, or -1
func (d *Document) find(section Section, mime types.MimeType) int {
	for i, l := range d.lines {
		if l.kind == lineEntry && l.section == string(section) && l.key == mime {
			return i
		}
	}
	return -1
}

// Get returns the ids listed for mime in section: the first matching line
// only, with duplicates and invalid ids removed.
func (d *Document) Get(section Section, mime types.MimeType) []types.ApplicationID {
	i := d.find(section, mime)
	if i < 0 {
		return nil
	}
	return parseIDs(d.lines[i].value)
}

// Set replaces the ids for mime in section. An empty list deletes the key.
// New keys go after the last entry of the first matching group; a missing
// group is appended at the end of the file.
func (d *Document) Set(section Section, mime types.MimeType, ids []types.ApplicationID) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		d.Delete(section, mime)
		return
	}

	entry := newEntry(section, mime, ids)
	if i := d.find(section, mime); i >= 0 {
		d.lines[i] = entry
		return
	}

	if at, ok := d.insertionPoint(section); ok {
		d.insert(at, entry)
		return
	}

	if n := len(d.lines); n > 0 && strings.TrimSpace(d.lines[n-1].raw) != "" {
		d.lines = append(d.lines, line{raw: ""})
	}
	d.lines = append(d.lines,
		line{raw: "[" + string(section) + "]", kind: lineHeader, section: string(section)},
		entry,
	)
	d.finalNewline = true
}

// Delete removes every entry for mime in section. Reports whether anything
// was removed.
func (d *Document) Delete(section Section, mime types.MimeType) bool {
	kept := d.lines[:0]
	removed := false
	for _, l := range d.lines {
		if l.kind == lineEntry && l.section == string(section) && l.key == mime {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	d.lines = kept
	return removed
}

// Keys returns the distinct MIME keys of section in file order, including
// invalid ones.
func (d *Document) Keys(section Section) []types.MimeType {
	var out []types.MimeType
	seen := make(map[types.MimeType]bool)
	for _, l := range d.lines {
		if l.kind == lineEntry && l.section == string(section) && !seen[l.key] {
			seen[l.key] = true
			out = append(out, l.key)
		}
	}
	return out
}

// insertionPoint returns the index after the last non-blank line of the
// first group named section.
func (d *Document) insertionPoint(section Section) (int, bool) {
	start := -1
	for i, l := range d.lines {
		if l.kind == lineHeader && l.section == string(section) {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	last := start
	for i := start + 1; i < len(d.lines); i++ {
		l := d.lines[i]
		if l.kind == lineHeader {
			break
		}
		if strings.TrimSpace(l.raw) != "" {
			last = i
		}
	}
	return last + 1, true
}

func (d *Document) insert(at int, l line) {
	if at == len(d.lines) {
		d.finalNewline = true
	}
	d.lines = append(d.lines, line{})
	copy(d.lines[at+1:], d.lines[at:])
	d.lines[at] = l
}

func newEntry(section Section, mime types.MimeType, ids []types.ApplicationID) line {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = string(id)
	}
	value := strings.Join(strs, ";") + ";"
	return line{
		raw:     string(mime) + "=" + value,
		kind:    lineEntry,
		section: string(section),
		key:     mime,
		rawKey:  string(mime),
		value:   value,
	}
}

func parseIDs(value string) []types.ApplicationID {
	var out []types.ApplicationID
	for _, raw := range desktop.SplitList(value) {
		id, err := types.ParseListedApplicationID(raw)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return dedupeIDs(out)
}

func dedupeIDs(ids []types.ApplicationID) []types.ApplicationID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[types.ApplicationID]bool, len(ids))
	out := make([]types.ApplicationID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
