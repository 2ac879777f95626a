package display

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/mimer/pkg/catalog"
	"github.com/arthur-debert/mimer/pkg/core"
	"github.com/arthur-debert/mimer/pkg/paths"
	"github.com/arthur-debert/mimer/pkg/resolve"
	"github.com/arthur-debert/mimer/pkg/types"
)

// MimeReport is what `mimer show` prints: the description of a type and
// its resolved associations
type MimeReport struct {
	Info      core.MimeInfo     `json:"info" yaml:"info"`
	Effective resolve.Effective `json:"effective" yaml:"effective"`

	// Names maps candidate ids to display names
	Names map[types.ApplicationID]string `json:"-" yaml:"-"`
}

// Listing is what `mimer list` prints
type Listing struct {
	Filter  string              `json:"filter,omitempty" yaml:"filter,omitempty"`
	Entries []resolve.Effective `json:"entries" yaml:"entries"`
}

// PathsReport is what `mimer paths` prints
type PathsReport struct {
	LayerPath       paths.LayerPath `json:"layer_path" yaml:"layer_path"`
	Target          string          `json:"target" yaml:"target"`
	ApplicationDirs []string        `json:"application_dirs" yaml:"application_dirs"`
	MimeDirs        []string        `json:"mime_dirs" yaml:"mime_dirs"`
	ConfigFile      string          `json:"config_file" yaml:"config_file"`
	LogFile         string          `json:"log_file" yaml:"log_file"`
}

// Convert builds the document for a result. Unknown types render through
// their fmt representation.
func Convert(result interface{}) Document {
	switch v := result.(type) {
	case Document:
		return v
	case Message:
		return Document{Sections: []Section{{Rows: []Row{{Value: v.Text, Kind: v.Kind}}}}}
	case MimeReport:
		return mimeReport(v)
	case Listing:
		return listing(v)
	case core.AppInfo:
		return appInfo(v)
	case []types.Diagnostic:
		return diagnostics(v)
	case PathsReport:
		return pathsReport(v)
	default:
		return Document{Sections: []Section{{Rows: []Row{{Value: fmt.Sprintf("%+v", v)}}}}}
	}
}

func mimeReport(r MimeReport) Document {
	about := Section{Title: string(r.Effective.Mime)}
	if r.Info.Comment != "" {
		about.Rows = append(about.Rows, Row{Key: "description", Value: r.Info.Comment})
	}
	if len(r.Info.Aliases) > 0 {
		about.Rows = append(about.Rows, Row{Key: "aliases", Value: joinMimes(r.Info.Aliases)})
	}
	if len(r.Info.Ancestors) > 0 {
		about.Rows = append(about.Rows, Row{Key: "parents", Value: joinMimes(r.Info.Ancestors)})
	}
	if len(r.Info.Globs) > 0 {
		about.Rows = append(about.Rows, Row{Key: "patterns", Value: strings.Join(r.Info.Globs, " ")})
	}

	def := Row{Key: "default", Value: "none", Kind: KindMuted}
	if r.Effective.HasDefault() {
		def = Row{Key: "default", Value: appLabel(r.Effective.Default, r.Names), Kind: KindDefault}
	}
	about.Rows = append(about.Rows, def)
	if r.Effective.DefaultFrom != "" {
		about.Rows = append(about.Rows, Row{Key: "set in", Value: r.Effective.DefaultFrom, Kind: KindMuted})
	}

	candidates := Section{Title: "Applications"}
	if len(r.Effective.Candidates) == 0 {
		candidates.Rows = append(candidates.Rows, Row{Value: "no application handles this type", Kind: KindMuted})
	}
	for i, id := range r.Effective.Candidates {
		kind := KindCandidate
		if id == r.Effective.Default {
			kind = KindDefault
		}
		candidates.Rows = append(candidates.Rows, Row{
			Key:   fmt.Sprintf("%d.", i+1),
			Value: appLabel(id, r.Names),
			Kind:  kind,
		})
	}
	return Document{Sections: []Section{about, candidates}}
}

func listing(l Listing) Document {
	sec := Section{}
	if len(l.Entries) == 0 {
		msg := "no MIME types found"
		if l.Filter != "" {
			msg = fmt.Sprintf("no MIME types match %q", l.Filter)
		}
		sec.Rows = append(sec.Rows, Row{Value: msg, Kind: KindMuted})
	}
	for _, eff := range l.Entries {
		row := Row{Key: string(eff.Mime), Value: "(no default)", Kind: KindMuted}
		if eff.HasDefault() {
			row.Value = string(eff.Default)
			row.Kind = KindDefault
		}
		if n := len(eff.Candidates); n > 1 {
			row.Value += fmt.Sprintf("  +%d", n-1)
		}
		sec.Rows = append(sec.Rows, row)
	}
	return Document{Sections: []Section{sec}}
}

func appInfo(a core.AppInfo) Document {
	sec := Section{Title: a.Name}
	add := func(key, value string) {
		if value != "" {
			sec.Rows = append(sec.Rows, Row{Key: key, Value: value})
		}
	}
	add("id", string(a.ID))
	add("generic name", a.GenericName)
	add("comment", a.Comment)
	add("exec", a.Exec)
	add("icon", a.Icon)
	add("file", a.Path)

	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{{a.Hidden, "hidden"}, {a.NoDisplay, "no-display"}, {a.Terminal, "terminal"}, {a.DBusActivatable, "dbus"}} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	if len(flags) > 0 {
		sec.Rows = append(sec.Rows, Row{Key: "flags", Value: strings.Join(flags, ", "), Kind: KindMuted})
	}

	doc := Document{Sections: []Section{sec}}
	doc.Sections = append(doc.Sections, mimeList("Default for", a.DefaultFor, KindDefault))
	doc.Sections = append(doc.Sections, mimeList("Declared types", a.MimeTypes, KindCandidate))
	return doc
}

func mimeList(title string, mimes []types.MimeType, kind Kind) Section {
	sec := Section{Title: title}
	if len(mimes) == 0 {
		sec.Rows = append(sec.Rows, Row{Value: "none", Kind: KindMuted})
	}
	for _, m := range mimes {
		sec.Rows = append(sec.Rows, Row{Value: string(m), Kind: kind})
	}
	return sec
}

func diagnostics(diags []types.Diagnostic) Document {
	sec := Section{Title: "Diagnostics"}
	if len(diags) == 0 {
		sec.Rows = append(sec.Rows, Row{Value: "no problems found", Kind: KindSuccess})
	}
	for _, d := range diags {
		kind := KindWarning
		if d.Severity == types.SeverityError {
			kind = KindError
		}
		msg := d.Message
		if d.Cause != nil {
			msg += ": " + d.Cause.Error()
		}
		sec.Rows = append(sec.Rows, Row{Key: string(d.Severity), Value: msg, Kind: kind})
		if d.Path != "" {
			sec.Rows = append(sec.Rows, Row{Value: d.Path, Kind: KindMuted})
		}
	}
	return Document{Sections: []Section{sec}}
}

func pathsReport(p PathsReport) Document {
	layers := Section{Title: "Association files (highest precedence first)"}
	for i, path := range p.LayerPath {
		kind := KindPlain
		if path == p.Target {
			kind = KindDefault
		}
		layers.Rows = append(layers.Rows, Row{Key: fmt.Sprintf("%d.", i+1), Value: path, Kind: kind})
	}
	dirs := Section{Title: "Directories"}
	for _, d := range p.ApplicationDirs {
		dirs.Rows = append(dirs.Rows, Row{Key: "applications", Value: d})
	}
	for _, d := range p.MimeDirs {
		dirs.Rows = append(dirs.Rows, Row{Key: "mime", Value: d})
	}
	own := Section{Title: "mimer", Rows: []Row{
		{Key: "config", Value: p.ConfigFile},
		{Key: "log", Value: p.LogFile},
	}}
	return Document{Sections: []Section{layers, dirs, own}}
}

func appLabel(id types.ApplicationID, names map[types.ApplicationID]string) string {
	if name, ok := names[id]; ok && name != "" {
		return fmt.Sprintf("%s (%s)", name, id)
	}
	return string(id)
}

func joinMimes(mimes []types.MimeType) string {
	parts := make([]string, len(mimes))
	for i, m := range mimes {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}

// Names collects display names for ids from reg
func Names(reg *catalog.Registry, ids []types.ApplicationID) map[types.ApplicationID]string {
	names := make(map[types.ApplicationID]string, len(ids))
	for _, id := range ids {
		if e, ok := reg.Lookup(id); ok {
			names[id] = e.Name
		}
	}
	return names
}
