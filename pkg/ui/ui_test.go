// pkg/ui/ui_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test renderer selection and the output of each format

package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/resolve"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/arthur-debert/mimer/pkg/ui"
	"github.com/arthur-debert/mimer/pkg/ui/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var listing = display.Listing{Entries: []resolve.Effective{
	{Mime: "text/plain", Candidates: []types.ApplicationID{"gedit.desktop"}, Default: "gedit.desktop"},
}}

func render(t *testing.T, format ui.Format, fn func(ui.Renderer) error) string {
	t.Helper()
	var buf bytes.Buffer
	r, err := ui.NewRenderer(format, &buf)
	require.NoError(t, err)
	require.NoError(t, fn(r))
	return buf.String()
}

func TestNewRenderer_UnknownFormat(t *testing.T) {
	_, err := ui.NewRenderer(ui.Format(99), &bytes.Buffer{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRenderer_AutoOnBufferIsText(t *testing.T) {
	out := render(t, ui.FormatAuto, func(r ui.Renderer) error { return r.RenderResult(listing) })
	assert.Equal(t, "text/plain  gedit.desktop\n", out)
}

func TestRenderer_Text(t *testing.T) {
	out := render(t, ui.FormatText, func(r ui.Renderer) error {
		return r.RenderError(errors.New(errors.ErrNotFound, "application x.desktop not found"))
	})
	assert.Equal(t, "Error: [NOT_FOUND] application x.desktop not found\n", out)
}

func TestRenderer_Terminal(t *testing.T) {
	out := render(t, ui.FormatTerminal, func(r ui.Renderer) error { return r.RenderResult(listing) })
	assert.Contains(t, out, "text/plain")
	assert.Contains(t, out, "gedit.desktop")

	out = render(t, ui.FormatTerminal, func(r ui.Renderer) error {
		return r.RenderError(errors.New(errors.ErrInvalidInput, "bad mime"))
	})
	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, "bad mime")
	assert.NotContains(t, out, "INVALID_INPUT")
}

func TestRenderer_JSON(t *testing.T) {
	out := render(t, ui.FormatJSON, func(r ui.Renderer) error { return r.RenderResult(listing) })

	var decoded struct {
		Entries []resolve.Effective `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, listing.Entries, decoded.Entries)

	out = render(t, ui.FormatJSON, func(r ui.Renderer) error {
		return r.RenderError(errors.New(errors.ErrIO, "cannot write").WithDetail("path", "/x"))
	})
	var desc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &desc))
	assert.Equal(t, "IO_ERROR", desc["code"])
	assert.Equal(t, map[string]interface{}{"path": "/x"}, desc["details"])
}

func TestRenderer_YAML(t *testing.T) {
	out := render(t, ui.FormatYAML, func(r ui.Renderer) error { return r.RenderResult(listing) })

	var decoded struct {
		Entries []resolve.Effective `yaml:"entries"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, listing.Entries, decoded.Entries)

	out = render(t, ui.FormatYAML, func(r ui.Renderer) error { return r.RenderMessage("done") })
	assert.Equal(t, "message: done\n", out)
}
