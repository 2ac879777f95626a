// pkg/core/session_test.go
// TEST TYPE: Integration Tests
// DEPENDENCIES: Memory filesystem
// PURPOSE: Test the Session front end from scan through mutation and reload

package core_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/arthur-debert/mimer/pkg/core"
	"github.com/arthur-debert/mimer/pkg/desktop"
	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/testutil"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pdfPackage = `<?xml version="1.0" encoding="UTF-8"?>
<mime-info xmlns="http://www.freedesktop.org/standards/shared-mime-info">
  <mime-type type="application/pdf">
    <comment>PDF document</comment>
    <comment xml:lang="de">PDF-Dokument</comment>
    <alias type="application/x-pdf"/>
    <sub-class-of type="text/plain"/>
    <glob pattern="*.pdf"/>
  </mime-type>
</mime-info>
`

func newEnv(t *testing.T) *testutil.TestEnvironment {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.AddApp(env.SystemApps(), "evince.desktop", testutil.App("Evince", "application/pdf"))
	env.AddApp(env.SystemApps(), "okular.desktop", testutil.App("Okular", "application/pdf", "image/png"))
	env.AddApp(env.SystemApps(), "gedit.desktop", testutil.App("Gedit", "text/plain"))
	env.WriteFile(filepath.Join(env.MimePackages(), "freedesktop.org.xml"), pdfPackage)
	return env
}

func openSession(t *testing.T, env *testutil.TestEnvironment) *core.Session {
	t.Helper()
	s, err := core.Open(context.Background(), core.Options{
		FS:     env.FS,
		Paths:  env.Paths,
		Locale: desktop.ParseLocale("de_DE.UTF-8"),
	})
	require.NoError(t, err)
	return s
}

func TestNewSession_RequiresFSAndPaths(t *testing.T) {
	_, err := core.NewSession(core.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestNewSession_EmptyBeforeReload(t *testing.T) {
	env := newEnv(t)
	s, err := core.NewSession(core.Options{FS: env.FS, Paths: env.Paths})
	require.NoError(t, err)

	assert.Empty(t, s.MimeTypes(""))
	assert.True(t, s.LoadedAt().IsZero())
	assert.Equal(t, env.UserMimeapps(), s.Target())
	assert.Equal(t, env.Paths.LayerPath(), s.LayerPath())
}

func TestSession_MimeTypes(t *testing.T) {
	env := newEnv(t)
	s := openSession(t, env)

	assert.Equal(t, []types.MimeType{"application/pdf", "image/png", "text/plain"}, s.MimeTypes(""))
	assert.Equal(t, []types.MimeType{"application/pdf"}, s.MimeTypes("PDF"))
	assert.Empty(t, s.MimeTypes("video"))
	assert.False(t, s.LoadedAt().IsZero())
}

func TestSession_Effective(t *testing.T) {
	env := newEnv(t)
	env.WriteFile(env.SystemMimeapps(), testutil.NewMimeapps().
		Default("application/pdf", "okular.desktop").String())
	s := openSession(t, env)

	eff, err := s.Effective("application/pdf")
	require.NoError(t, err)
	assert.Equal(t, []types.ApplicationID{"okular.desktop", "evince.desktop"}, eff.Candidates)
	assert.Equal(t, types.ApplicationID("okular.desktop"), eff.Default)
	assert.Equal(t, env.SystemMimeapps(), eff.DefaultFrom)

	t.Run("alias resolves to canonical type", func(t *testing.T) {
		eff, err := s.Effective("application/x-pdf")
		require.NoError(t, err)
		assert.Equal(t, types.MimeType("application/pdf"), eff.Mime)
		assert.Equal(t, types.ApplicationID("okular.desktop"), eff.Default)
	})

	t.Run("unknown type has no candidates", func(t *testing.T) {
		eff, err := s.Effective("video/mp4")
		require.NoError(t, err)
		assert.Empty(t, eff.Candidates)
		assert.False(t, eff.HasDefault())
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := s.Effective("not-a-mime")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestSession_App(t *testing.T) {
	env := newEnv(t)
	env.WriteFile(env.UserMimeapps(), testutil.NewMimeapps().
		Default("application/pdf", "okular.desktop").String())
	s := openSession(t, env)

	info, err := s.App("okular.desktop")
	require.NoError(t, err)
	assert.Equal(t, "Okular", info.Name)
	assert.Equal(t, []types.MimeType{"application/pdf"}, info.DefaultFor)
	assert.Equal(t, []types.MimeType{"application/pdf", "image/png"}, info.CandidateFor)

	_, err = s.App("missing.desktop")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	_, err = s.App("no-suffix")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestSession_Describe(t *testing.T) {
	env := newEnv(t)
	s := openSession(t, env)

	info := s.Describe("application/x-pdf")
	assert.True(t, info.Known)
	assert.Equal(t, types.MimeType("application/pdf"), info.Mime)
	assert.Equal(t, "PDF-Dokument", info.Comment)
	assert.Equal(t, []types.MimeType{"application/x-pdf"}, info.Aliases)
	assert.Equal(t, []types.MimeType{"text/plain"}, info.Ancestors)
	assert.Equal(t, []string{"*.pdf"}, info.Globs)

	unknown := s.Describe("Video/MP4")
	assert.False(t, unknown.Known)
	assert.Equal(t, types.MimeType("video/mp4"), unknown.Mime)
}

func TestSession_SetDefaultReloads(t *testing.T) {
	env := newEnv(t)
	s := openSession(t, env)

	eff, err := s.Effective("application/pdf")
	require.NoError(t, err)
	assert.False(t, eff.HasDefault())

	require.NoError(t, s.SetDefault(context.Background(), "application/pdf", "evince.desktop"))

	eff, err = s.Effective("application/pdf")
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationID("evince.desktop"), eff.Default)
	assert.Equal(t, env.UserMimeapps(), eff.DefaultFrom)
	assert.Contains(t, env.ReadFile(env.UserMimeapps()), "application/pdf=evince.desktop;")
}

func TestSession_MutationsThroughAlias(t *testing.T) {
	env := newEnv(t)
	s := openSession(t, env)
	ctx := context.Background()

	require.NoError(t, s.SetDefault(ctx, "application/x-pdf", "okular.desktop"))

	content := env.ReadFile(env.UserMimeapps())
	assert.Contains(t, content, "application/pdf=okular.desktop;")
	assert.NotContains(t, content, "application/x-pdf")

	for _, name := range []types.MimeType{"application/x-pdf", "application/pdf"} {
		eff, err := s.Effective(name)
		require.NoError(t, err)
		assert.Equal(t, types.ApplicationID("okular.desktop"), eff.Default, "default seen through %s", name)
	}

	require.NoError(t, s.ResetDefault(ctx, "application/x-pdf"))
	eff, err := s.Effective("application/pdf")
	require.NoError(t, err)
	assert.False(t, eff.HasDefault())
}

func TestSession_AliasKeyedLayerEntries(t *testing.T) {
	env := newEnv(t)
	env.WriteFile(env.SystemMimeapps(), testutil.NewMimeapps().
		Added("application/x-pdf", "gedit.desktop").
		Default("application/x-pdf", "okular.desktop").String())
	env.WriteFile(env.UserMimeapps(), testutil.NewMimeapps().
		Removed("application/x-pdf", "evince.desktop").String())
	s := openSession(t, env)

	eff, err := s.Effective("application/pdf")
	require.NoError(t, err)
	assert.Equal(t, types.MimeType("application/pdf"), eff.Mime)
	assert.Equal(t, []types.ApplicationID{"gedit.desktop", "okular.desktop"}, eff.Candidates)
	assert.Equal(t, types.ApplicationID("okular.desktop"), eff.Default)
	assert.Equal(t, env.SystemMimeapps(), eff.DefaultFrom)

	assert.Equal(t, []types.MimeType{"application/pdf"}, s.MimeTypes("pdf"), "aliases are listed under the canonical type")

	// Adding through the canonical name lifts the removal made under the alias
	require.NoError(t, s.AddAssociation(context.Background(), "application/pdf", "evince.desktop"))
	eff, err = s.Effective("application/pdf")
	require.NoError(t, err)
	assert.Contains(t, eff.Candidates, types.ApplicationID("evince.desktop"))
}

func TestSession_HiddenAppsNamedByLayers(t *testing.T) {
	env := newEnv(t)
	env.AddApp(env.SystemApps(), "secret.desktop", testutil.DesktopFile{
		Name: "Secret", MimeTypes: []string{"text/plain"}, Hidden: true,
	})
	s := openSession(t, env)
	ctx := context.Background()

	eff, err := s.Effective("text/plain")
	require.NoError(t, err)
	assert.Equal(t, []types.ApplicationID{"gedit.desktop"}, eff.Candidates, "hidden entries declare nothing")

	require.NoError(t, s.AddAssociation(ctx, "text/plain", "secret.desktop"))
	eff, err = s.Effective("text/plain")
	require.NoError(t, err)
	assert.Equal(t, []types.ApplicationID{"secret.desktop", "gedit.desktop"}, eff.Candidates)

	require.NoError(t, s.SetDefault(ctx, "text/plain", "secret.desktop"))
	eff, err = s.Effective("text/plain")
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationID("secret.desktop"), eff.Default)

	for _, d := range s.Doctor(ctx) {
		assert.NotEqual(t, types.DiagStaleReference, d.Code, "hidden entries are not stale: %s", d)
	}
}

func TestSession_MutationsRequireInstalledApp(t *testing.T) {
	env := newEnv(t)
	s := openSession(t, env)
	ctx := context.Background()

	err := s.SetDefault(ctx, "application/pdf", "missing.desktop")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Equal(t, "missing.desktop", errors.GetErrorDetails(err)["app"])

	err = s.AddAssociation(ctx, "application/pdf", "missing.desktop")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	testutil.AssertFSNoFile(t, env.FS, env.UserMimeapps())

	// Vetoing an uninstalled app is allowed
	require.NoError(t, s.RemoveAssociation(ctx, "application/pdf", "missing.desktop"))
	assert.Contains(t, env.ReadFile(env.UserMimeapps()), "[Removed Associations]")
}

func TestSession_AddRemoveReset(t *testing.T) {
	env := newEnv(t)
	env.WriteFile(env.SystemMimeapps(), testutil.NewMimeapps().
		Default("text/plain", "gedit.desktop").String())
	s := openSession(t, env)
	ctx := context.Background()

	require.NoError(t, s.AddAssociation(ctx, "text/plain", "okular.desktop"))
	eff, err := s.Effective("text/plain")
	require.NoError(t, err)
	assert.Equal(t, []types.ApplicationID{"okular.desktop", "gedit.desktop"}, eff.Candidates)

	require.NoError(t, s.RemoveAssociation(ctx, "text/plain", "gedit.desktop"))
	eff, err = s.Effective("text/plain")
	require.NoError(t, err)
	assert.Equal(t, []types.ApplicationID{"okular.desktop"}, eff.Candidates)
	assert.False(t, eff.HasDefault(), "removed system default must not apply")

	require.NoError(t, s.SetDefault(ctx, "text/plain", "okular.desktop"))
	require.NoError(t, s.ResetDefault(ctx, "text/plain"))
	eff, err = s.Effective("text/plain")
	require.NoError(t, err)
	assert.False(t, eff.HasDefault())
}

func TestSession_MutationInvalidInput(t *testing.T) {
	env := newEnv(t)
	s := openSession(t, env)

	err := s.ResetDefault(context.Background(), "bogus")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	testutil.AssertFSNoFile(t, env.FS, env.UserMimeapps())
}

func TestSession_DiagnosticsAndDoctor(t *testing.T) {
	env := newEnv(t)
	env.WriteFile(filepath.Join(env.SystemApps(), "broken.desktop"), "no header here\n")
	env.WriteFile(env.UserMimeapps(), testutil.NewMimeapps().
		Default("application/pdf", "gone.desktop").
		Removed("application/pdf", "also-gone.desktop").String())
	env.WriteFile(filepath.Join(env.SystemApps(), "mimeinfo.cache"),
		"[MIME Cache]\napplication/pdf=evince.desktop;\n")
	s := openSession(t, env)

	diags := s.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, types.DiagParseError, diags[0].Code)

	report := s.Doctor(context.Background())
	codes := make(map[string]int)
	for _, d := range report {
		codes[d.Code]++
	}
	assert.Equal(t, 1, codes[types.DiagParseError])
	assert.Equal(t, 1, codes[types.DiagStaleReference], "removed entries are not stale references")
	assert.Equal(t, 1, codes[types.DiagStaleCache])
}

func TestSession_ConcurrentQueriesDuringReload(t *testing.T) {
	env := newEnv(t)
	s := openSession(t, env)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Reload(ctx))
		}()
		go func() {
			defer wg.Done()
			eff, err := s.Effective("application/pdf")
			assert.NoError(t, err)
			assert.Len(t, eff.Candidates, 2)
		}()
	}
	wg.Wait()
}

func TestSession_CancelledReloadKeepsSnapshot(t *testing.T) {
	env := newEnv(t)
	s := openSession(t, env)
	loaded := s.LoadedAt()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, s.Reload(ctx))
	assert.Equal(t, loaded, s.LoadedAt())
	assert.Len(t, s.MimeTypes(""), 3)
}
