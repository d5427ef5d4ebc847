package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto tty", ModeAuto, true, ModeText},
		{"auto pipe", ModeAuto, false, ModeMarkdown},
		{"empty pipe", "", false, ModeMarkdown},
		{"explicit text", ModeText, false, ModeText},
		{"explicit json", ModeJSON, true, ModeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_Markdown(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeMarkdown)

	r.Header(2, "Plan")
	r.Success("done")
	r.StatusLine("Makefile", "success", "written")

	assert.Equal(t, "## Plan\n\n**done**\n- Makefile: success (written)\n", out.String())
}

func TestRenderer_Text(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false, ModeText)

	r.Success("done")
	r.StatusLine("Makefile", "failed", "")
	r.Warning("careful")
	r.Error("broken")

	assert.Contains(t, out.String(), "✓ done")
	assert.Contains(t, out.String(), "✗ Makefile")
	assert.Contains(t, errOut.String(), "warning: careful")
	assert.Contains(t, errOut.String(), "error: broken")
}

func TestRenderer_JSON(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.JSON(LibraryInfo{Name: "xcl2", Fragment: "x.mk"}))

	var got LibraryInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "xcl2", got.Name)
}

func TestRenderer_Table(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeMarkdown)
	r.Table([]string{"Name", "Bucket"}, [][]string{{"c1", "BINARY_CONTAINER_c1_OBJS"}})
	assert.Contains(t, out.String(), "| c1 | BINARY_CONTAINER_c1_OBJS |")

	out.Reset()
	r = NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeText)
	r.Table([]string{"Name"}, [][]string{{"c1"}})
	assert.Contains(t, out.String(), "c1")
	assert.Contains(t, out.String(), "NAME")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "- **Mode:** containers", FormatKeyValue("Mode", "containers"))
	assert.Equal(t, "```make\nall:\n```", FormatCodeBlock("make", "all:"))
	assert.Equal(t, "- a\n- b\n", FormatList([]string{"a", "b"}))
}

func TestPlainStyles(t *testing.T) {
	s := NewStyles(false)
	assert.Equal(t, "text", s.Header1.Render("text"))
	assert.Equal(t, "text", s.Error.Render("text"))
}
