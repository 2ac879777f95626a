package catalog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/mimer/pkg/desktop"
	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/paths"
	"github.com/arthur-debert/mimer/pkg/types"
)

const mimeCacheGroup = "MIME Cache"

// MimeInfoCache maps MIME types to application ids as listed in one
// mimeinfo.cache file.
type MimeInfoCache map[types.MimeType][]types.ApplicationID

// ParseMimeInfoCache reads the [MIME Cache] group of a mimeinfo.cache file.
// Other groups are ignored; invalid MIME keys are skipped.
func ParseMimeInfoCache(data []byte) (MimeInfoCache, error) {
	out := make(MimeInfoCache)
	inGroup := false
	sawGroup := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inGroup = line[1:len(line)-1] == mimeCacheGroup
			sawGroup = sawGroup || inGroup
			continue
		}
		if !inGroup {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		mime, err := types.ParseMimeType(key)
		if err != nil {
			continue
		}
		if _, dup := out[mime]; dup {
			continue
		}
		for _, id := range desktop.SplitList(value) {
			out[mime] = append(out[mime], types.ApplicationID(id))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrParse, "failed to read mimeinfo.cache")
	}
	if !sawGroup && len(bytes.TrimSpace(data)) > 0 {
		return nil, errors.New(errors.ErrParse, "missing [MIME Cache] group")
	}
	return out, nil
}

// CheckCache compares the mimeinfo.cache of every applications directory
// with the entries reg took from that directory. Each directory whose cache
// disagrees yields one stale_cache diagnostic. Directories without a cache
// are fine: the cache is an optimisation mimer never relies on.
func (s *Scanner) CheckCache(ctx context.Context, appDirs []string, reg *Registry) []types.Diagnostic {
	var diags []types.Diagnostic
	for _, dir := range appDirs {
		if ctx.Err() != nil {
			break
		}

		path := filepath.Join(dir, paths.MimeInfoCache)
		data, err := s.fs.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				diags = append(diags, *readDiagnostic(path, err))
			}
			continue
		}

		cache, err := ParseMimeInfoCache(data)
		if err != nil {
			diags = append(diags, types.Diagnostic{
				Severity: types.SeverityWarning,
				Code:     types.DiagParseError,
				Message:  "invalid mimeinfo.cache",
				Path:     path,
				Cause:    err,
			})
			continue
		}

		if d, ok := compareCache(dir, path, cache, reg); ok {
			diags = append(diags, d)
		}
	}
	return diags
}

// compareCache reports the differences between one directory's cache and
// the registry entries defined in that directory. Ids shadowed by a higher
// directory are not held against the cache.
func compareCache(dir, path string, cache MimeInfoCache, reg *Registry) (types.Diagnostic, bool) {
	prefix := filepath.Clean(dir) + string(filepath.Separator)
	local := make(map[types.ApplicationID]*desktop.Entry)
	for id, e := range reg.ByID {
		if strings.HasPrefix(e.Path, prefix) {
			local[id] = e
		}
	}

	var problems []string

	for mime, ids := range cache {
		for _, id := range ids {
			e, ok := reg.ByID[id]
			switch {
			case !ok:
				problems = append(problems, fmt.Sprintf("%s lists missing application %s", mime, id))
			case local[id] == nil:
				// defined in another directory
			case !e.Hidden && !e.Supports(mime):
				problems = append(problems, fmt.Sprintf("%s lists %s, which no longer declares it", mime, id))
			}
		}
	}

	for id, e := range local {
		if e.Hidden {
			continue
		}
		for _, mime := range e.MimeTypes {
			if !containsID(cache[mime], id) {
				problems = append(problems, fmt.Sprintf("%s is missing %s", mime, id))
			}
		}
	}

	if len(problems) == 0 {
		return types.Diagnostic{}, false
	}

	sort.Strings(problems)
	return types.Diagnostic{
		Severity: types.SeverityWarning,
		Code:     types.DiagStaleCache,
		Message: fmt.Sprintf("mimeinfo.cache is out of date (%d differences, first: %s); run update-desktop-database %s",
			len(problems), problems[0], dir),
		Path: path,
	}, true
}

func containsID(ids []types.ApplicationID, id types.ApplicationID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
