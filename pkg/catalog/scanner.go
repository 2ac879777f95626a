package catalog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/mimer/pkg/desktop"
	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/logging"
	"github.com/arthur-debert/mimer/pkg/types"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWorkers bounds concurrent directory walks
	DefaultWorkers = 4

	// DefaultCacheSize is the number of parsed entries kept between scans
	DefaultCacheSize = 1024
)

// Options configures a Scanner
type Options struct {
	Locale    desktop.Locale
	Workers   int
	CacheSize int
}

// cached is a parse result remembered for one file. Failed parses are
// cached too so broken files are not re-read on every scan.
type cached struct {
	size    int64
	modTime time.Time
	entry   *desktop.Entry
	err     error
}

func (c cached) fresh(id types.ApplicationID, info fs.FileInfo) bool {
	if c.size != info.Size() || !c.modTime.Equal(info.ModTime()) {
		return false
	}
	return c.entry == nil || c.entry.ID == id
}

// Scanner builds Registries from applications directories. A Scanner is
// safe for concurrent use.
type Scanner struct {
	fs      types.FS
	locale  desktop.Locale
	workers int
	cache   *lru.Cache[string, cached]
	logger  zerolog.Logger
}

// NewScanner creates a Scanner reading through fsys
func NewScanner(fsys types.FS, opts Options) (*Scanner, error) {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, cached](opts.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create entry cache")
	}

	return &Scanner{
		fs:      fsys,
		locale:  opts.Locale,
		workers: opts.Workers,
		cache:   cache,
		logger:  logging.GetLogger("catalog"),
	}, nil
}

// dirResult is what one directory walk produces
type dirResult struct {
	entries     []*desktop.Entry
	diagnostics []types.Diagnostic
}

// Scan walks appDirs (highest precedence first) and merges them into a
// Registry. Unreadable or invalid files become diagnostics; Scan only fails
// when ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, appDirs []string) (*Registry, []types.Diagnostic, error) {
	done := logging.LogOperationStart(s.logger, "scan")
	defer done()

	results := make([]dirResult, len(appDirs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, dir := range appDirs {
		g.Go(func() error {
			res, err := s.walk(gctx, dir)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	reg := NewRegistry()
	var diags []types.Diagnostic
	for i, res := range results {
		diags = append(diags, res.diagnostics...)
		for _, e := range res.entries {
			if !reg.add(e) {
				s.logger.Trace().
					Str("id", e.ID.String()).
					Str("path", e.Path).
					Str("dir", appDirs[i]).
					Msg("entry shadowed by higher directory")
			}
		}
	}

	s.logger.Debug().
		Int("dirs", len(appDirs)).
		Int("entries", reg.Len()).
		Int("mime_types", len(reg.ByMime)).
		Int("diagnostics", len(diags)).
		Msg("catalog scanned")

	return reg, diags, nil
}

// walk collects the entries of one applications directory, including its
// subdirectories, sorted by id.
func (s *Scanner) walk(ctx context.Context, root string) (dirResult, error) {
	var res dirResult
	seen := make(map[types.ApplicationID]string)

	var visit func(dir, prefix string) error
	visit = func(dir, prefix string) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		items, err := s.fs.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				res.diagnostics = append(res.diagnostics, types.Diagnostic{
					Severity: types.SeverityWarning,
					Code:     types.DiagReadError,
					Message:  "cannot list applications directory",
					Path:     dir,
					Cause:    err,
				})
			}
			return nil
		}

		for _, item := range items {
			name := item.Name()
			path := filepath.Join(dir, name)
			if item.IsDir() {
				if err := visit(path, prefix+name+"-"); err != nil {
					return err
				}
				continue
			}
			if !strings.HasSuffix(name, desktop.Extension) {
				continue
			}

			id := types.ApplicationID(prefix + name)
			if first, dup := seen[id]; dup {
				res.diagnostics = append(res.diagnostics, types.Diagnostic{
					Severity: types.SeverityWarning,
					Code:     types.DiagShadowed,
					Message:  "application id " + id.String() + " already defined by " + first,
					Path:     path,
				})
				continue
			}
			seen[id] = path

			entry, diag := s.load(id, path)
			if diag != nil {
				res.diagnostics = append(res.diagnostics, *diag)
				continue
			}
			res.entries = append(res.entries, entry)
		}
		return nil
	}

	if err := visit(root, ""); err != nil {
		return dirResult{}, err
	}

	sort.SliceStable(res.entries, func(i, j int) bool {
		return res.entries[i].ID < res.entries[j].ID
	})
	return res, nil
}

// load parses one file, going through the cache
func (s *Scanner) load(id types.ApplicationID, path string) (*desktop.Entry, *types.Diagnostic) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return nil, readDiagnostic(path, err)
	}

	if c, ok := s.cache.Get(path); ok && c.fresh(id, info) {
		return c.entry, parseDiagnostic(path, c.err)
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, readDiagnostic(path, err)
	}

	entry, err := desktop.Parse(id, path, data, s.locale)
	s.cache.Add(path, cached{
		size:    info.Size(),
		modTime: info.ModTime(),
		entry:   entry,
		err:     err,
	})
	return entry, parseDiagnostic(path, err)
}

func readDiagnostic(path string, err error) *types.Diagnostic {
	return &types.Diagnostic{
		Severity: types.SeverityWarning,
		Code:     types.DiagReadError,
		Message:  "cannot read desktop entry",
		Path:     path,
		Cause:    err,
	}
}

func parseDiagnostic(path string, err error) *types.Diagnostic {
	if err == nil {
		return nil
	}
	d := &types.Diagnostic{
		Severity: types.SeverityWarning,
		Code:     types.DiagParseError,
		Message:  "invalid desktop entry skipped",
		Path:     path,
		Cause:    err,
	}
	if errors.GetErrorDetails(err)["reason"] == desktop.ReasonNotApplication {
		d.Code = types.DiagNotApplication
		d.Message = "desktop entry is not an application"
	}
	return d
}
