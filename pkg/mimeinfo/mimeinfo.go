package mimeinfo

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/mimer/pkg/desktop"
	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/logging"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/beevik/etree"
	"golang.org/x/sync/errgroup"
)

// PackagesDir is the subdirectory of <datadir>/mime holding source XML
const PackagesDir = "packages"

// Type describes one MIME type
type Type struct {
	Mime    types.MimeType   `json:"mime" yaml:"mime"`
	Comment string           `json:"comment,omitempty" yaml:"comment,omitempty"`
	Acronym string           `json:"acronym,omitempty" yaml:"acronym,omitempty"`
	Icon    string           `json:"icon,omitempty" yaml:"icon,omitempty"`
	Aliases []types.MimeType `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Parents []types.MimeType `json:"parents,omitempty" yaml:"parents,omitempty"`
	Globs   []string         `json:"globs,omitempty" yaml:"globs,omitempty"`
}

// Database is the merged view of every packages directory
type Database struct {
	types   map[types.MimeType]*Type
	aliases map[types.MimeType]types.MimeType
}

// NewDatabase returns an empty database. Lookups on it find nothing and
// Canonical is the identity.
func NewDatabase() *Database {
	return &Database{
		types:   make(map[types.MimeType]*Type),
		aliases: make(map[types.MimeType]types.MimeType),
	}
}

// Parse reads one package XML file. Comments are resolved for loc.
func Parse(data []byte, loc desktop.Locale) ([]*Type, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrParse, "invalid mime package XML")
	}
	root := doc.Root()
	if root == nil || root.Tag != "mime-info" {
		return nil, errors.New(errors.ErrParse, "missing <mime-info> root element")
	}

	var out []*Type
	for _, el := range root.SelectElements("mime-type") {
		mime, err := types.ParseMimeType(el.SelectAttrValue("type", ""))
		if err != nil {
			continue
		}
		t := &Type{
			Mime:    mime,
			Comment: localizedText(el, "comment", loc),
			Acronym: localizedText(el, "acronym", loc),
		}
		if icon := el.SelectElement("generic-icon"); icon != nil {
			t.Icon = icon.SelectAttrValue("name", "")
		}
		if icon := el.SelectElement("icon"); icon != nil {
			t.Icon = icon.SelectAttrValue("name", "")
		}
		t.Aliases = typeRefs(el, "alias")
		t.Parents = typeRefs(el, "sub-class-of")
		for _, g := range el.SelectElements("glob") {
			if p := g.SelectAttrValue("pattern", ""); p != "" {
				t.Globs = append(t.Globs, p)
			}
		}
		out = append(out, t)
	}
	return out, nil
}

// localizedText picks the child text best matching loc, falling back to
// the untranslated element.
func localizedText(el *etree.Element, tag string, loc desktop.Locale) string {
	byLang := make(map[string]string)
	for _, c := range el.SelectElements(tag) {
		lang := c.SelectAttrValue("xml:lang", "")
		if _, dup := byLang[lang]; !dup {
			byLang[lang] = strings.TrimSpace(c.Text())
		}
	}
	for _, cand := range loc.Candidates() {
		if v, ok := byLang[cand]; ok {
			return v
		}
	}
	return byLang[""]
}

func typeRefs(el *etree.Element, tag string) []types.MimeType {
	var out []types.MimeType
	for _, c := range el.SelectElements(tag) {
		if m, err := types.ParseMimeType(c.SelectAttrValue("type", "")); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// Load reads <dir>/packages/*.xml for every mime dir (highest precedence
// first). Files are parsed in parallel; the first directory to describe a
// type wins, aliases and parents from later files are merged in. Invalid
// files become diagnostics; Load only fails when ctx is cancelled.
func Load(ctx context.Context, fsys types.FS, mimeDirs []string, loc desktop.Locale) (*Database, []types.Diagnostic, error) {
	logger := logging.GetLogger("mimeinfo")

	var files []string
	for _, dir := range mimeDirs {
		pkgDir := filepath.Join(dir, PackagesDir)
		entries, err := fsys.ReadDir(pkgDir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".xml") {
				files = append(files, filepath.Join(pkgDir, e.Name()))
			}
		}
	}

	parsed := make([][]*Type, len(files))
	diags := make([]*types.Diagnostic, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := fsys.ReadFile(path)
			if err != nil {
				diags[i] = &types.Diagnostic{Severity: types.SeverityWarning, Code: types.DiagReadError,
					Message: "cannot read mime package", Path: path, Cause: err}
				return nil
			}
			ts, err := Parse(data, loc)
			if err != nil {
				diags[i] = &types.Diagnostic{Severity: types.SeverityWarning, Code: types.DiagParseError,
					Message: "invalid mime package skipped", Path: path, Cause: err}
				return nil
			}
			parsed[i] = ts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	db := NewDatabase()
	var out []types.Diagnostic
	for i := range files {
		if diags[i] != nil {
			out = append(out, *diags[i])
		}
		for _, t := range parsed[i] {
			db.add(t)
		}
	}

	logger.Debug().Int("files", len(files)).Int("types", len(db.types)).Msg("mime database loaded")
	return db, out, nil
}

func (db *Database) add(t *Type) {
	existing, ok := db.types[t.Mime]
	if !ok {
		copied := *t
		db.types[t.Mime] = &copied
		existing = &copied
		existing.Aliases, existing.Parents = nil, nil
	}
	existing.Aliases = mergeUnique(existing.Aliases, t.Aliases)
	existing.Parents = mergeUnique(existing.Parents, t.Parents)
	for _, a := range t.Aliases {
		if _, taken := db.aliases[a]; !taken && a != t.Mime {
			db.aliases[a] = t.Mime
		}
	}
}

func mergeUnique(dst, src []types.MimeType) []types.MimeType {
	for _, m := range src {
		found := false
		for _, d := range dst {
			if d == m {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, m)
		}
	}
	return dst
}

// Lookup returns the description of mime, following aliases
func (db *Database) Lookup(mime types.MimeType) (*Type, bool) {
	t, ok := db.types[db.Canonical(mime)]
	return t, ok
}

// Canonical maps an alias to its canonical type. Unknown types map to
// themselves.
func (db *Database) Canonical(mime types.MimeType) types.MimeType {
	if c, ok := db.aliases[mime]; ok {
		return c
	}
	return mime
}

// Aliases returns the other names of mime's canonical type
func (db *Database) Aliases(mime types.MimeType) []types.MimeType {
	if t, ok := db.Lookup(mime); ok {
		return append([]types.MimeType(nil), t.Aliases...)
	}
	return nil
}

// Ancestors returns every parent type of mime, breadth first, without
// duplicates. Cycles in broken databases are tolerated.
func (db *Database) Ancestors(mime types.MimeType) []types.MimeType {
	start := db.Canonical(mime)
	seen := map[types.MimeType]bool{start: true}
	queue := []types.MimeType{start}
	var out []types.MimeType
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		t, ok := db.types[cur]
		if !ok {
			continue
		}
		for _, p := range t.Parents {
			p = db.Canonical(p)
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
			queue = append(queue, p)
		}
	}
	return out
}

// Len returns the number of described types
func (db *Database) Len() int {
	return len(db.types)
}

// MimeTypes returns every described type, sorted
func (db *Database) MimeTypes() []types.MimeType {
	out := make([]types.MimeType, 0, len(db.types))
	for m := range db.types {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
