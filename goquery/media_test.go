package goquery_test

import (
	"context"
	"testing"

	"github.com/fwojciec/cabinet"
	"github.com/fwojciec/cabinet/goquery"
	"github.com/stretchr/testify/assert"
)

func TestMediaNodeIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []int
	}{
		{"json settings", `{"media_nids":[101, 102]}`, []int{101, 102}},
		{"quoted entries", `{"media_nids":["7", '8']}`, []int{7, 8}},
		{"escaped json in attribute string", `data-settings="{\"media_nids\":[\"3\",4]}"`, []int{3, 4}},
		{"bare key", `media_nids: [5]`, []int{5}},
		{"non-numeric entries skipped", `"media_nids":[1, "x", null, 2.5, 3]`, []int{1, 3}},
		{"empty list", `"media_nids":[]`, nil},
		{"absent", `<p>nothing</p>`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, goquery.MediaNodeIDs(tt.raw))
		})
	}
}

func TestScanImagePaths(t *testing.T) {
	t.Parallel()

	raw := `<div>
<img src="/sites/default/files/styles/large/public/one.jpg?itok=a">
<a href="https://www.cabinet.ox.ac.uk/sites/default/files/two.PNG">two</a>
"url":"/sites/default/files/three.jpeg"
/sites/default/files/doc.pdf
/files/not-matched.jpg
</div>`

	assert.Equal(t, []string{
		origin + "/sites/default/files/one.jpg",
		origin + "/sites/default/files/two.PNG",
		origin + "/sites/default/files/three.jpeg",
	}, goquery.ScanImagePaths(raw, origin))
}

func TestMediaNodeURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, origin+"/node/42", goquery.MediaNodeURL(origin+"/", 42))
}

func TestResolveMediaNodes(t *testing.T) {
	t.Parallel()

	s := newSite(map[string]string{
		origin + "/node/2": `<img src="/sites/default/files/a.gif"><img src="/sites/default/files/a.gif">`,
		origin + "/node/3": `<img src="/sites/default/files/b.gif">`,
	})
	raw := `{"media_nids":[1,2,3]}`

	images := goquery.ResolveMediaNodes(context.Background(), s.fetcher(), raw, origin, cabinet.NewURLSet())

	assert.Equal(t, []cabinet.Image{
		{URL: origin + "/sites/default/files/a.gif"},
		{URL: origin + "/sites/default/files/b.gif"},
	}, images)
	assert.Equal(t, []string{origin + "/node/1", origin + "/node/2", origin + "/node/3"}, s.requested)
}
