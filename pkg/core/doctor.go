package core

import (
	"context"
	"fmt"

	"github.com/arthur-debert/mimer/pkg/mimeapps"
	"github.com/arthur-debert/mimer/pkg/types"
)

// Doctor returns everything worth telling the user about the current
// state: the diagnostics of the last reload, stale mimeinfo.cache files,
// and override entries naming applications that are not installed.
// Errors sort first.
func (s *Session) Doctor(ctx context.Context) []types.Diagnostic {
	snap := s.current()

	out := append([]types.Diagnostic(nil), snap.diagnostics...)
	out = append(out, s.scanner.CheckCache(ctx, s.opts.Paths.ApplicationDirs(), snap.registry)...)
	for _, layer := range snap.layers {
		out = append(out, staleReferences(layer, snap)...)
	}

	sortDiagnostics(out)
	return out
}

// staleReferences reports ids in Added and Defaults that the catalog does
// not know. Hidden entries are known. Removed entries are not reported:
// vetoing an app that is gone is harmless.
func staleReferences(layer mimeapps.Layer, snap *snapshot) []types.Diagnostic {
	var out []types.Diagnostic
	report := func(section mimeapps.Section, byMime map[types.MimeType][]types.ApplicationID) {
		for _, mime := range sortedKeys(byMime) {
			for _, id := range byMime[mime] {
				if snap.registry.Has(id) {
					continue
				}
				out = append(out, types.Diagnostic{
					Severity: types.SeverityWarning,
					Code:     types.DiagStaleReference,
					Message:  fmt.Sprintf("[%s] %s names %s, which is not installed", section, mime, id),
					Path:     layer.Path,
				})
			}
		}
	}
	report(mimeapps.SectionDefaults, layer.Defaults)
	report(mimeapps.SectionAdded, layer.Added)
	return out
}

func sortedKeys(m map[types.MimeType][]types.ApplicationID) []types.MimeType {
	keys := make([]types.MimeType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortMimeTypes(keys)
	return keys
}
