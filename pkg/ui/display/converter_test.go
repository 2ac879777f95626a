// pkg/ui/display/converter_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test conversion of results into display documents

package display_test

import (
	"errors"
	"testing"

	"github.com/arthur-debert/mimer/pkg/catalog"
	"github.com/arthur-debert/mimer/pkg/core"
	"github.com/arthur-debert/mimer/pkg/desktop"
	"github.com/arthur-debert/mimer/pkg/mimeinfo"
	"github.com/arthur-debert/mimer/pkg/resolve"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/arthur-debert/mimer/pkg/ui/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(sec display.Section) []string {
	out := make([]string, len(sec.Rows))
	for i, r := range sec.Rows {
		out[i] = r.Value
	}
	return out
}

func TestConvert_MimeReport(t *testing.T) {
	doc := display.Convert(display.MimeReport{
		Info: core.MimeInfo{Type: mimeinfo.Type{
			Mime:    "application/pdf",
			Comment: "PDF document",
			Aliases: []types.MimeType{"application/x-pdf"},
		}, Known: true},
		Effective: resolve.Effective{
			Mime:        "application/pdf",
			Candidates:  []types.ApplicationID{"okular.desktop", "evince.desktop"},
			Default:     "evince.desktop",
			DefaultFrom: "/home/u/.config/mimeapps.list",
		},
		Names: map[types.ApplicationID]string{"evince.desktop": "Evince"},
	})

	require.Len(t, doc.Sections, 2)
	about := doc.Sections[0]
	assert.Equal(t, "application/pdf", about.Title)
	assert.Equal(t, []string{"PDF document", "application/x-pdf", "Evince (evince.desktop)", "/home/u/.config/mimeapps.list"}, values(about))

	apps := doc.Sections[1]
	require.Len(t, apps.Rows, 2)
	assert.Equal(t, display.Row{Key: "1.", Value: "okular.desktop", Kind: display.KindCandidate}, apps.Rows[0])
	assert.Equal(t, display.KindDefault, apps.Rows[1].Kind)
}

func TestConvert_MimeReportWithoutCandidates(t *testing.T) {
	doc := display.Convert(display.MimeReport{Effective: resolve.Effective{Mime: "video/x-nothing"}})
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, display.Row{Key: "default", Value: "none", Kind: display.KindMuted}, doc.Sections[0].Rows[0])
	assert.Equal(t, display.KindMuted, doc.Sections[1].Rows[0].Kind)
}

func TestConvert_Listing(t *testing.T) {
	doc := display.Convert(display.Listing{Entries: []resolve.Effective{
		{Mime: "application/pdf", Candidates: []types.ApplicationID{"a.desktop", "b.desktop", "c.desktop"}, Default: "a.desktop"},
		{Mime: "text/plain", Candidates: []types.ApplicationID{"gedit.desktop"}},
	}})

	rows := doc.Sections[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, display.Row{Key: "application/pdf", Value: "a.desktop  +2", Kind: display.KindDefault}, rows[0])
	assert.Equal(t, display.Row{Key: "text/plain", Value: "(no default)", Kind: display.KindMuted}, rows[1])

	empty := display.Convert(display.Listing{Filter: "zip"})
	assert.Equal(t, `no MIME types match "zip"`, empty.Sections[0].Rows[0].Value)
}

func TestConvert_AppInfo(t *testing.T) {
	doc := display.Convert(core.AppInfo{
		Entry: desktop.Entry{
			ID:        "vim.desktop",
			Name:      "Vim",
			Exec:      "vim %F",
			Terminal:  true,
			MimeTypes: []types.MimeType{"text/plain"},
		},
		DefaultFor: []types.MimeType{"text/plain"},
	})

	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "Vim", doc.Sections[0].Title)
	assert.Equal(t, []string{"vim.desktop", "vim %F", "terminal"}, values(doc.Sections[0]))
	assert.Equal(t, []string{"text/plain"}, values(doc.Sections[1]))
	assert.Equal(t, []string{"text/plain"}, values(doc.Sections[2]))
}

func TestConvert_Diagnostics(t *testing.T) {
	doc := display.Convert([]types.Diagnostic{
		{Severity: types.SeverityError, Message: "cannot read", Path: "/x/mimeapps.list", Cause: errors.New("denied")},
		{Severity: types.SeverityWarning, Message: "stale"},
	})
	rows := doc.Sections[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, display.Row{Key: "error", Value: "cannot read: denied", Kind: display.KindError}, rows[0])
	assert.Equal(t, display.Row{Value: "/x/mimeapps.list", Kind: display.KindMuted}, rows[1])
	assert.Equal(t, display.KindWarning, rows[2].Kind)

	clean := display.Convert([]types.Diagnostic(nil))
	assert.Equal(t, display.KindSuccess, clean.Sections[0].Rows[0].Kind)
}

func TestConvert_PathsReport(t *testing.T) {
	doc := display.Convert(display.PathsReport{
		LayerPath:       []string{"/home/u/.config/mimeapps.list", "/etc/xdg/mimeapps.list"},
		Target:          "/home/u/.config/mimeapps.list",
		ApplicationDirs: []string{"/usr/share/applications"},
	})
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, display.KindDefault, doc.Sections[0].Rows[0].Kind)
	assert.Equal(t, display.KindPlain, doc.Sections[0].Rows[1].Kind)
}

func TestConvert_Fallbacks(t *testing.T) {
	msg := display.Convert(display.Message{Text: "done", Kind: display.KindSuccess})
	assert.Equal(t, []string{"done"}, values(msg.Sections[0]))

	other := display.Convert(42)
	assert.Equal(t, []string{"42"}, values(other.Sections[0]))
}

func TestNames(t *testing.T) {
	reg := catalog.Build(&desktop.Entry{ID: "a.desktop", Name: "Alpha"})
	names := display.Names(reg, []types.ApplicationID{"a.desktop", "gone.desktop"})
	assert.Equal(t, map[types.ApplicationID]string{"a.desktop": "Alpha"}, names)
}

func TestSectionKeyWidth(t *testing.T) {
	sec := display.Section{Rows: []display.Row{{Key: "ab"}, {Key: "abcd"}, {}}}
	assert.Equal(t, 4, sec.KeyWidth())
	assert.Equal(t, "Default", display.KindDefault.Style())
	assert.Equal(t, "Value", display.KindPlain.Style())
}
