package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/remindr/internal/model"
	"github.com/dmitrymomot/remindr/internal/render"
)

func TestResolve_Modes(t *testing.T) {
	t.Parallel()

	vars := map[string]string{"name": "<b>Ann</b>", "amount": "$9.99"}

	t.Run("html mode inserts values raw", func(t *testing.T) {
		t.Parallel()

		tpl := &model.Template{Subject: "Hi {{name}}", Content: model.HTMLContent{HTML: "<p>Hi {{name}}</p>"}}
		msg, err := render.Resolve(tpl, vars)
		require.NoError(t, err)

		assert.Equal(t, "Hi <b>Ann</b>", msg.Subject)
		assert.Equal(t, "<p>Hi <b>Ann</b></p>", msg.Body)
		assert.Equal(t, "Hi Ann", msg.Text)
		assert.Equal(t, model.ModeHTML, msg.Mode)
	})

	t.Run("block mode renders document", func(t *testing.T) {
		t.Parallel()

		tpl := &model.Template{Subject: "s", Content: model.BlockContent{Blocks: []model.Block{
			{Type: model.BlockText, Content: "Hi {{name}}"},
		}}}
		msg, err := render.Resolve(tpl, vars)
		require.NoError(t, err)

		assert.Contains(t, msg.Body, "<!DOCTYPE html")
		assert.Contains(t, msg.Body, "Hi &lt;b&gt;Ann&lt;/b&gt;")
		assert.Equal(t, "Hi <b>Ann</b>", msg.Text)
	})

	t.Run("text mode keeps body as written", func(t *testing.T) {
		t.Parallel()

		tpl := &model.Template{Subject: "s", Content: model.TextContent{Body: "Dear {{name}}, pay **{{amount}}**"}}
		msg, err := render.Resolve(tpl, vars)
		require.NoError(t, err)

		assert.Equal(t, "Dear <b>Ann</b>, pay **$9.99**", msg.Body)
		assert.Equal(t, msg.Body, msg.Text)
		assert.Equal(t, model.ModeText, msg.Mode)
	})
}

func TestResolve_Subject(t *testing.T) {
	t.Parallel()

	tpl := &model.Template{Subject: "Hi {{name}}, {{amount}} due", Content: model.TextContent{Body: "x"}}
	msg, err := render.Resolve(tpl, map[string]string{"name": "Ann", "amount": "$9.99"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ann, $9.99 due", msg.Subject)
}

func TestResolve_EmptyContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content model.Content
	}{
		{name: "empty body", content: model.TextContent{Body: "  "}},
		{name: "empty html", content: model.HTMLContent{}},
		{name: "no blocks", content: model.BlockContent{}},
		{name: "nil content", content: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := render.Resolve(&model.Template{Subject: "s", Content: tt.content}, nil)
			require.ErrorIs(t, err, render.ErrEmptyContent)
		})
	}
}

func TestResolve_NilTemplate(t *testing.T) {
	t.Parallel()

	_, err := render.Resolve(nil, nil)
	require.ErrorIs(t, err, render.ErrNilTemplate)
}

func TestResolve_AmbiguousRecordPrefersHTML(t *testing.T) {
	t.Parallel()

	rec := model.Record{
		Subject:      "s",
		Body:         "legacy",
		HTMLBody:     "<p>html</p>",
		Blocks:       []model.Block{{Type: model.BlockText, Content: "block"}},
		IsHTML:       true,
		IsBlockBased: true,
	}
	tpl := rec.Template()

	msg, err := render.Resolve(&tpl, nil)
	require.NoError(t, err)
	assert.Equal(t, "<p>html</p>", msg.Body)

	rec.IsHTML = false
	tpl = rec.Template()
	msg, err = render.Resolve(&tpl, nil)
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "block")
	assert.NotContains(t, msg.Body, "legacy")
}

func TestResolver_LegacyMarkdown(t *testing.T) {
	t.Parallel()

	r := render.NewResolver(render.WithLegacyMarkdown())

	tpl := &model.Template{Subject: "s", Content: model.TextContent{
		Body: "Hello **{{name}}**\n\n[!button|Renew](https://example.com/renew)",
	}}
	msg, err := r.Resolve(tpl, map[string]string{"name": "Ann"})
	require.NoError(t, err)

	assert.Contains(t, msg.Body, "<!DOCTYPE html")
	assert.Contains(t, msg.Body, "<strong>Ann</strong>")
	assert.Contains(t, msg.Body, `<a href="https://example.com/renew" target="_blank" class="btn"`)
	assert.Equal(t, "Hello **Ann**\n\n[!button|Renew](https://example.com/renew)", msg.Text)

	html := &model.Template{Subject: "s", Content: model.TextContent{Body: "<p>Already {{name}}</p>"}}
	msg, err = r.Resolve(html, map[string]string{"name": "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Already Ann</p>", msg.Body)

	// markup in a variable value does not switch formatting off
	msg, err = r.Resolve(tpl, map[string]string{"name": `<a href="https://example.com">Ann</a>`})
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "<!DOCTYPE html")
	assert.Contains(t, msg.Body, "<strong>")
}
