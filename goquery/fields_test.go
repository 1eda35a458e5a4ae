package goquery_test

import (
	"strings"
	"testing"

	pq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cabinet"
	"github.com/fwojciec/cabinet/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *pq.Document {
	t.Helper()
	doc, err := pq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractFields(t *testing.T) {
	t.Parallel()

	t.Run("extracts name, label and values in document order", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body>
<div class="field field-type-text field-name-field-artist field-label-inline">
	<div class="field-label">Artist:&nbsp;</div>
	<div class="field-items"><div class="field-item even">Titian</div></div>
</div>
<div class="field field-name-field-date">
	<div class="field-label">Date</div>
	<div class="field-item">c. 1510</div>
	<div class="field-item">  revised
	 1515 </div>
</div>
</body></html>`)

		fields := goquery.ExtractFields(doc)

		assert.Equal(t, []cabinet.Field{
			{
				Name:   cabinet.String("field-name-field-artist"),
				Label:  cabinet.String("Artist"),
				Values: []string{"Titian"},
			},
			{
				Name:   cabinet.String("field-name-field-date"),
				Label:  cabinet.String("Date"),
				Values: []string{"c. 1510", "revised 1515"},
			},
		}, fields)
	})

	t.Run("drops field whose items are all empty", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body>
<div class="field field-name-field-empty">
	<div class="field-label">Empty:</div>
	<div class="field-item"> </div>
	<div class="field-item"></div>
</div>
<div class="field field-name-field-kept"><div class="field-item">x</div></div>
</body></html>`)

		fields := goquery.ExtractFields(doc)

		require.Len(t, fields, 1)
		assert.Equal(t, cabinet.String("field-name-field-kept"), fields[0].Name)
	})

	t.Run("strips exactly one trailing colon", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body><div class="field"><div class="field-label">Ratio::</div><div class="field-item">2:1</div></div></body></html>`)

		fields := goquery.ExtractFields(doc)

		require.Len(t, fields, 1)
		assert.Equal(t, cabinet.String("Ratio:"), fields[0].Label)
		assert.Equal(t, []string{"2:1"}, fields[0].Values)
	})

	t.Run("name and label absent", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body><div class="field"><div class="field-item">x</div></div></body></html>`)

		fields := goquery.ExtractFields(doc)

		require.Len(t, fields, 1)
		assert.Nil(t, fields[0].Name)
		assert.Nil(t, fields[0].Label)
	})

	t.Run("no fields", func(t *testing.T) {
		t.Parallel()

		fields := goquery.ExtractFields(parse(t, `<html><body><p>x</p></body></html>`))

		assert.NotNil(t, fields)
		assert.Empty(t, fields)
	})
}

func TestTags(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><body>
<div class="field field-name-field-source-tags">
	<div class="field-item">Portrait</div>
	<div class="field-item">portrait</div>
	<div class="field-item"> </div>
	<div class="field-item">Still Life</div>
</div>
<div class="field field-name-field-other"><div class="field-item">Ignored</div></div>
</body></html>`)

	assert.Equal(t, []string{"portrait", "still life"}, goquery.Tags(doc))
}

func TestTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"first heading", `<html><head><title>T | cabinet</title></head><body><h1>One</h1><h1>Two</h1></body></html>`, "One"},
		{"title without suffix", `<html><head><title>Shell | cabinet</title></head><body></body></html>`, "Shell"},
		{"title without suffix present", `<html><head><title>Plain</title></head><body></body></html>`, "Plain"},
		{"nothing", `<html><body></body></html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, goquery.Title(parse(t, tt.html)))
		})
	}
}
