package views

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTemplatesComplete(t *testing.T) {
	reg := MustLoadRegistry()
	for _, name := range RequiredTemplates {
		assert.NotNil(t, reg.set.Lookup(name), name)
	}
}

func TestLoadRegistryMissingTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.html":     {Data: []byte(`{{define "layout"}}{{.Root}}{{end}}`)},
		"login-form.html": {Data: []byte(`{{define "login-form"}}<form class="login-form"></form>{{end}}`)},
	}
	_, err := LoadRegistry(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"post-list"`)
}

func TestFragmentsAreIndependent(t *testing.T) {
	reg := MustLoadRegistry()

	first, err := reg.Fragment(CommentItemTemplate, commentItemView{Author: "a", Body: "<b>hi</b>"})
	require.NoError(t, err)
	second, err := reg.Fragment(CommentItemTemplate, commentItemView{Author: "b", Body: "bye"})
	require.NoError(t, err)

	assert.Contains(t, string(first), "&lt;b&gt;hi&lt;/b&gt;")
	assert.NotContains(t, string(second), "hi")
}

func TestMountReplacesRoot(t *testing.T) {
	reg := MustLoadRegistry()
	var buf bytes.Buffer
	require.NoError(t, reg.Mount(&buf, Layout{Title: "Posts", Root: "<p class=\"marker\">x</p>"}))

	html := buf.String()
	assert.Equal(t, 1, strings.Count(html, `<main class="root">`))
	assert.Contains(t, html, `<main class="root"><p class="marker">x</p></main>`)
	assert.NotContains(t, html, "logout-form")
}
