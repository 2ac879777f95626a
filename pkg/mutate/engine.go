package mutate

import (
	"io/fs"
	"os"
	"sync"

	"github.com/arthur-debert/mimer/pkg/filesystem"
	"github.com/arthur-debert/mimer/pkg/logging"
	"github.com/arthur-debert/mimer/pkg/mimeapps"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultPerm is used when the target file does not exist yet
const DefaultPerm fs.FileMode = 0644

// Op names a mutation, for logging and reporting
type Op string

const (
	OpSetDefault        Op = "set-default"
	OpAddAssociation    Op = "add"
	OpRemoveAssociation Op = "remove"
	OpResetDefault      Op = "reset"
	OpRewrite           Op = "rewrite"
)

// Engine applies mutations to one mimeapps.list file
type Engine struct {
	mu     sync.Mutex
	fs     types.FS
	store  *mimeapps.Store
	target string
	logger zerolog.Logger
}

// NewEngine creates an Engine writing target, normally LayerPath().Top()
func NewEngine(fsys types.FS, target string) *Engine {
	return &Engine{
		fs:     fsys,
		store:  mimeapps.NewStore(fsys, 1),
		target: target,
		logger: logging.GetLogger("mutate"),
	}
}

// Target returns the file this engine writes
func (e *Engine) Target() string {
	return e.target
}

// SetDefault makes app the default for mime. The app is also listed under
// Added Associations and any local removal of it is lifted, so the new
// default is guaranteed to be a candidate. aliases name other keys of the
// same type; removals under them are lifted too and new entries are always
// written under mime.
func (e *Engine) SetDefault(mime types.MimeType, app types.ApplicationID, aliases ...types.MimeType) error {
	mime, app, err := validate(mime, app)
	if err != nil {
		return err
	}
	return e.apply(OpSetDefault, func(doc *mimeapps.Document) {
		doc.Set(mimeapps.SectionAdded, mime, appendID(doc.Get(mimeapps.SectionAdded, mime), app))
		for _, k := range keys(mime, aliases) {
			dropID(doc, mimeapps.SectionRemoved, k, app)
		}
		doc.Set(mimeapps.SectionDefaults, mime, []types.ApplicationID{app})
	})
}

// AddAssociation lists app as able to open mime and lifts any local
// removal of it under mime or its aliases.
func (e *Engine) AddAssociation(mime types.MimeType, app types.ApplicationID, aliases ...types.MimeType) error {
	mime, app, err := validate(mime, app)
	if err != nil {
		return err
	}
	return e.apply(OpAddAssociation, func(doc *mimeapps.Document) {
		doc.Set(mimeapps.SectionAdded, mime, appendID(doc.Get(mimeapps.SectionAdded, mime), app))
		for _, k := range keys(mime, aliases) {
			dropID(doc, mimeapps.SectionRemoved, k, app)
		}
	})
}

// RemoveAssociation vetoes app for mime at the top layer, which hides it
// whatever lower layers or the catalog say. The app is also dropped from
// the local Added and Default lists of mime and its aliases; other apps in
// those lists stay.
func (e *Engine) RemoveAssociation(mime types.MimeType, app types.ApplicationID, aliases ...types.MimeType) error {
	mime, app, err := validate(mime, app)
	if err != nil {
		return err
	}
	return e.apply(OpRemoveAssociation, func(doc *mimeapps.Document) {
		doc.Set(mimeapps.SectionRemoved, mime, appendID(doc.Get(mimeapps.SectionRemoved, mime), app))
		for _, k := range keys(mime, aliases) {
			dropID(doc, mimeapps.SectionAdded, k, app)
			dropID(doc, mimeapps.SectionDefaults, k, app)
		}
	})
}

// ResetDefault drops the local default for mime and its aliases; lower
// layers then decide.
func (e *Engine) ResetDefault(mime types.MimeType, aliases ...types.MimeType) error {
	m, err := types.ParseMimeType(string(mime))
	if err != nil {
		return err
	}
	return e.apply(OpResetDefault, func(doc *mimeapps.Document) {
		for _, k := range keys(m, aliases) {
			doc.Delete(mimeapps.SectionDefaults, k)
		}
	})
}

// Rewrite reads the target and writes it back unchanged
func (e *Engine) Rewrite() error {
	return e.apply(OpRewrite, func(*mimeapps.Document) {})
}

// apply runs one read-edit-write cycle under the lock
func (e *Engine) apply(op Op, edit func(*mimeapps.Document)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logger := e.logger.With().Str("op", string(op)).Str("path", e.target).Logger()
	done := logging.LogOperationStart(logger, string(op))
	defer done()

	doc, err := e.store.ReadDocument(e.target)
	if err != nil {
		logger.Debug().Err(err).Msg("refusing to edit unreadable file")
		return err
	}

	edit(doc)

	if err := filesystem.WriteFileAtomic(e.fs, e.target, doc.Bytes(), e.perm()); err != nil {
		logger.Debug().Err(err).Msg("write failed")
		return err
	}
	return nil
}

// perm keeps the permissions of an existing target
func (e *Engine) perm() fs.FileMode {
	info, err := e.fs.Stat(e.target)
	if err != nil {
		if !os.IsNotExist(err) {
			e.logger.Trace().Err(err).Msg("cannot stat target, using default permissions")
		}
		return DefaultPerm
	}
	return info.Mode().Perm()
}

func validate(mime types.MimeType, app types.ApplicationID) (types.MimeType, types.ApplicationID, error) {
	m, err := types.ParseMimeType(string(mime))
	if err != nil {
		return "", "", err
	}
	id, err := types.ParseApplicationID(string(app))
	if err != nil {
		return "", "", err
	}
	return m, id, nil
}

// keys returns mime followed by its valid, distinct aliases
func keys(mime types.MimeType, aliases []types.MimeType) []types.MimeType {
	out := []types.MimeType{mime}
	for _, a := range aliases {
		m, err := types.ParseMimeType(string(a))
		if err != nil {
			continue
		}
		dup := false
		for _, k := range out {
			if k == m {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, m)
		}
	}
	return out
}

func appendID(ids []types.ApplicationID, id types.ApplicationID) []types.ApplicationID {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

// dropID removes id from the entry for mime in section, leaving entries
// that do not list it untouched
func dropID(doc *mimeapps.Document, section mimeapps.Section, mime types.MimeType, id types.ApplicationID) {
	ids := doc.Get(section, mime)
	for _, v := range ids {
		if v == id {
			doc.Set(section, mime, withoutID(ids, id))
			return
		}
	}
}

func withoutID(ids []types.ApplicationID, id types.ApplicationID) []types.ApplicationID {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
