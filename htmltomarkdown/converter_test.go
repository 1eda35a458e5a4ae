package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/cabinet"
	"github.com/fwojciec/cabinet/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements cabinet.Converter at compile time.
var _ cabinet.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts paragraphs", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>First.</p><p>Second.</p>`)

		require.NoError(t, err)
		assert.Equal(t, "First.\n\nSecond.", md)
	})

	t.Run("turns non-breaking spaces into plain spaces", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("<p>Oil&nbsp;on\u00a0canvas</p>")

		require.NoError(t, err)
		assert.Equal(t, "Oil on canvas", md)
	})

	t.Run("converts emphasis and strong", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p><em>Venice</em> and <strong>Padua</strong></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "_Venice_")
		assert.Contains(t, md, "**Padua**")
	})

	t.Run("converts strong wrapping emphasis", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p><strong><em>Foo</em></strong></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "**_Foo_**")
	})

	t.Run("converts absolute links", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>See <a href="https://www.cabinet.ox.ac.uk/node/5">the sketch</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[the sketch](https://www.cabinet.ox.ac.uk/node/5)")
	})

	t.Run("converts images", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p><img src="https://www.cabinet.ox.ac.uk/sites/default/files/a.jpg" alt="Sitter"></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "![Sitter](https://www.cabinet.ox.ac.uk/sites/default/files/a.jpg)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ul><li>Oil</li><li>Canvas</li></ul><ol><li>One</li><li>Two</li></ol>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- Oil")
		assert.Contains(t, md, "- Canvas")
		assert.Contains(t, md, "1. One")
		assert.Contains(t, md, "2. Two")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table><thead><tr><th>Date</th><th>Event</th></tr></thead><tbody><tr><td>1510</td><td>Painted</td></tr></tbody></table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "| Date")
		assert.Contains(t, md, "| 1510")
	})

	t.Run("converts blockquotes", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<blockquote><p>A quoted letter.</p></blockquote>`)

		require.NoError(t, err)
		assert.Contains(t, md, "> A quoted letter.")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("  \n")

		require.Error(t, err)
		assert.Equal(t, cabinet.EINVALID, cabinet.ErrorCode(err))
	})
}
