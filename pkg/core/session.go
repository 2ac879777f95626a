package core

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/mimer/pkg/catalog"
	"github.com/arthur-debert/mimer/pkg/desktop"
	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/logging"
	"github.com/arthur-debert/mimer/pkg/mimeapps"
	"github.com/arthur-debert/mimer/pkg/mimeinfo"
	"github.com/arthur-debert/mimer/pkg/mutate"
	"github.com/arthur-debert/mimer/pkg/paths"
	"github.com/arthur-debert/mimer/pkg/resolve"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Options configures a Session
type Options struct {
	FS        types.FS
	Paths     paths.Paths
	Locale    desktop.Locale
	Workers   int
	CacheSize int
}

// snapshot is one consistent view of the system. It is never modified
// after construction; Reload replaces it whole.
type snapshot struct {
	registry    *catalog.Registry
	layers      []mimeapps.Layer
	mimedb      *mimeinfo.Database
	diagnostics []types.Diagnostic
	loadedAt    time.Time
}

// Session is the front-end interface: it owns a snapshot of the catalog,
// the association layers and the MIME database, answers queries from it
// and routes edits through the mutation engine.
type Session struct {
	opts      Options
	layerPath paths.LayerPath
	scanner   *catalog.Scanner
	store     *mimeapps.Store
	engine    *mutate.Engine
	logger    zerolog.Logger

	mu   sync.RWMutex
	snap *snapshot
}

// NewSession wires a Session without loading anything. The layer path is
// fixed here and reused by every reload. Queries on a session that was
// never reloaded see empty state.
func NewSession(opts Options) (*Session, error) {
	if opts.FS == nil || opts.Paths == nil {
		return nil, errors.New(errors.ErrInvalidInput, "session needs a filesystem and paths")
	}

	scanner, err := catalog.NewScanner(opts.FS, catalog.Options{
		Locale:    opts.Locale,
		Workers:   opts.Workers,
		CacheSize: opts.CacheSize,
	})
	if err != nil {
		return nil, err
	}

	layerPath := opts.Paths.LayerPath()
	return &Session{
		opts:      opts,
		layerPath: layerPath,
		scanner:   scanner,
		store:     mimeapps.NewStore(opts.FS, opts.Workers),
		engine:    mutate.NewEngine(opts.FS, layerPath.Top()),
		logger:    logging.GetLogger("core"),
		snap: &snapshot{
			registry: catalog.NewRegistry(),
			layers:   emptyLayers(layerPath),
			mimedb:   mimeinfo.NewDatabase(),
		},
	}, nil
}

// Open creates a Session and loads it
func Open(ctx context.Context, opts Options) (*Session, error) {
	s, err := NewSession(opts)
	if err != nil {
		return nil, err
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func emptyLayers(layerPath paths.LayerPath) []mimeapps.Layer {
	layers := make([]mimeapps.Layer, len(layerPath))
	for i, p := range layerPath {
		layers[i] = mimeapps.EmptyLayer(p)
	}
	return layers
}

// Reload rescans the catalog, reloads every layer and the MIME database
// concurrently, then swaps in the new snapshot. Problems with individual
// files become diagnostics; only cancellation fails a reload, and then
// the previous snapshot stays in place.
func (s *Session) Reload(ctx context.Context) error {
	done := logging.LogOperationStart(s.logger, "reload")
	defer done()

	next := &snapshot{}
	var catalogDiags, layerDiags, mimeDiags []types.Diagnostic

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		next.registry, catalogDiags, err = s.scanner.Scan(gctx, s.opts.Paths.ApplicationDirs())
		return err
	})
	g.Go(func() error {
		var err error
		next.layers, layerDiags, err = s.store.Load(gctx, s.layerPath)
		return err
	})
	g.Go(func() error {
		var err error
		next.mimedb, mimeDiags, err = mimeinfo.Load(gctx, s.opts.FS, s.opts.Paths.MimeDirs(), s.opts.Locale)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	next.diagnostics = append(append(append(next.diagnostics, catalogDiags...), layerDiags...), mimeDiags...)
	next.loadedAt = time.Now()

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	s.logger.Debug().
		Int("apps", next.registry.Len()).
		Int("layers", len(next.layers)).
		Int("mimeTypes", next.mimedb.Len()).
		Int("diagnostics", len(next.diagnostics)).
		Msg("Snapshot loaded")
	return nil
}

func (s *Session) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// LayerPath returns the override files in precedence order
func (s *Session) LayerPath() paths.LayerPath {
	return append(paths.LayerPath(nil), s.layerPath...)
}

// Target returns the file mutations write
func (s *Session) Target() string {
	return s.engine.Target()
}

// LoadedAt returns when the current snapshot was built
func (s *Session) LoadedAt() time.Time {
	return s.current().loadedAt
}

// Diagnostics returns the problems found by the last reload
func (s *Session) Diagnostics() []types.Diagnostic {
	return append([]types.Diagnostic(nil), s.current().diagnostics...)
}

// Registry exposes the current catalog
func (s *Session) Registry() *catalog.Registry {
	return s.current().registry
}

// Layers exposes the current association layers, highest precedence first
func (s *Session) Layers() []mimeapps.Layer {
	return append([]mimeapps.Layer(nil), s.current().layers...)
}

// effective resolves mime under its canonical name, merging entries keyed
// by any alias the MIME database knows
func (snap *snapshot) effective(mime types.MimeType) resolve.Effective {
	canonical := snap.mimedb.Canonical(mime)
	return resolve.Compute(canonical, snap.registry, snap.layers, snap.mimedb.Aliases(canonical)...)
}

// mimeTypes lists every type with a candidate, aliases folded into their
// canonical type
func (snap *snapshot) mimeTypes() []types.MimeType {
	seen := make(map[types.MimeType]bool)
	var out []types.MimeType
	for _, m := range resolve.MimeTypes(snap.registry, snap.layers) {
		c := snap.mimedb.Canonical(m)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sortMimeTypes(out)
	return out
}

func (snap *snapshot) all() []resolve.Effective {
	mimes := snap.mimeTypes()
	out := make([]resolve.Effective, 0, len(mimes))
	for _, m := range mimes {
		out = append(out, snap.effective(m))
	}
	return out
}

// MimeTypes returns every MIME type with at least one candidate, sorted.
// Aliases are listed under their canonical type. A non-empty filter keeps
// only types containing it, ignoring case.
func (s *Session) MimeTypes(filter string) []types.MimeType {
	all := s.current().mimeTypes()
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return all
	}
	out := make([]types.MimeType, 0, len(all))
	for _, m := range all {
		if strings.Contains(string(m), filter) {
			out = append(out, m)
		}
	}
	return out
}

// Effective resolves mime against the current snapshot. Aliases known to
// the MIME database resolve as their canonical type.
func (s *Session) Effective(mime types.MimeType) (resolve.Effective, error) {
	m, err := types.ParseMimeType(string(mime))
	if err != nil {
		return resolve.Effective{}, err
	}
	return s.current().effective(m), nil
}

// All resolves every MIME type MimeTypes lists
func (s *Session) All() []resolve.Effective {
	return s.current().all()
}

// AppInfo is the display view of one application
type AppInfo struct {
	desktop.Entry `yaml:",inline"`

	// DefaultFor lists the types this app is currently the default for
	DefaultFor []types.MimeType `json:"default_for,omitempty" yaml:"default_for,omitempty"`
	// CandidateFor lists the types this app is currently offered for
	CandidateFor []types.MimeType `json:"candidate_for,omitempty" yaml:"candidate_for,omitempty"`
}

// App returns the catalog entry for id and its current role in the
// resolution. Unknown ids are a NOT_FOUND error.
func (s *Session) App(id types.ApplicationID) (AppInfo, error) {
	app, err := types.ParseApplicationID(string(id))
	if err != nil {
		return AppInfo{}, err
	}
	snap := s.current()
	entry, ok := snap.registry.Lookup(app)
	if !ok {
		return AppInfo{}, errors.Newf(errors.ErrNotFound, "application %s not found", app).
			WithDetail("app", string(app))
	}

	info := AppInfo{Entry: *entry}
	for _, eff := range snap.all() {
		if eff.Default == app {
			info.DefaultFor = append(info.DefaultFor, eff.Mime)
		}
		for _, c := range eff.Candidates {
			if c == app {
				info.CandidateFor = append(info.CandidateFor, eff.Mime)
				break
			}
		}
	}
	return info, nil
}

// MimeInfo describes a MIME type for display
type MimeInfo struct {
	mimeinfo.Type `yaml:",inline"`

	// Known reports whether the MIME database describes the type
	Known     bool             `json:"known" yaml:"known"`
	Ancestors []types.MimeType `json:"ancestors,omitempty" yaml:"ancestors,omitempty"`
}

// Describe returns what the shared-mime-info database says about mime. An
// undescribed type yields just its name.
func (s *Session) Describe(mime types.MimeType) MimeInfo {
	snap := s.current()
	m := types.NormalizeMimeType(string(mime))
	t, ok := snap.mimedb.Lookup(m)
	if !ok {
		return MimeInfo{Type: mimeinfo.Type{Mime: m}}
	}
	return MimeInfo{
		Type:      *t,
		Known:     true,
		Ancestors: snap.mimedb.Ancestors(m),
	}
}

// SetDefault makes app the default for mime in the user's file. The app
// must be installed. Edits are written under the canonical type, so an
// alias and its canonical name always resolve alike.
func (s *Session) SetDefault(ctx context.Context, mime types.MimeType, app types.ApplicationID) error {
	canonical, aliases, err := s.canonical(mime)
	if err != nil {
		return err
	}
	if err := s.requireApp(app); err != nil {
		return err
	}
	return s.mutated(ctx, s.engine.SetDefault(canonical, app, aliases...))
}

// AddAssociation offers app for mime. The app must be installed.
func (s *Session) AddAssociation(ctx context.Context, mime types.MimeType, app types.ApplicationID) error {
	canonical, aliases, err := s.canonical(mime)
	if err != nil {
		return err
	}
	if err := s.requireApp(app); err != nil {
		return err
	}
	return s.mutated(ctx, s.engine.AddAssociation(canonical, app, aliases...))
}

// RemoveAssociation vetoes app for mime. Uninstalled apps may be removed
// so stale references can be cleaned up.
func (s *Session) RemoveAssociation(ctx context.Context, mime types.MimeType, app types.ApplicationID) error {
	canonical, aliases, err := s.canonical(mime)
	if err != nil {
		return err
	}
	return s.mutated(ctx, s.engine.RemoveAssociation(canonical, app, aliases...))
}

// ResetDefault drops the user's default for mime, under any of its names;
// lower layers apply again
func (s *Session) ResetDefault(ctx context.Context, mime types.MimeType) error {
	canonical, aliases, err := s.canonical(mime)
	if err != nil {
		return err
	}
	return s.mutated(ctx, s.engine.ResetDefault(canonical, aliases...))
}

// canonical validates mime and returns its canonical name with the other
// names it is known by
func (s *Session) canonical(mime types.MimeType) (types.MimeType, []types.MimeType, error) {
	m, err := types.ParseMimeType(string(mime))
	if err != nil {
		return "", nil, err
	}
	db := s.current().mimedb
	c := db.Canonical(m)
	return c, db.Aliases(c), nil
}

func (s *Session) requireApp(app types.ApplicationID) error {
	id, err := types.ParseApplicationID(string(app))
	if err != nil {
		return err
	}
	if !s.current().registry.Has(id) {
		return errors.Newf(errors.ErrNotFound, "application %s is not installed", id).
			WithDetail("app", string(id))
	}
	return nil
}

// mutated reloads after a successful edit so the next query reflects it
func (s *Session) mutated(ctx context.Context, err error) error {
	if err != nil {
		return err
	}
	return s.Reload(ctx)
}

// sortDiagnostics orders diagnostics by severity then path for display
func sortDiagnostics(diags []types.Diagnostic) {
	rank := map[types.Severity]int{types.SeverityError: 0, types.SeverityWarning: 1}
	sort.SliceStable(diags, func(i, j int) bool {
		if rank[diags[i].Severity] != rank[diags[j].Severity] {
			return rank[diags[i].Severity] < rank[diags[j].Severity]
		}
		return diags[i].Path < diags[j].Path
	})
}

func sortMimeTypes(mimes []types.MimeType) {
	sort.Slice(mimes, func(i, j int) bool { return mimes[i] < mimes[j] })
}
