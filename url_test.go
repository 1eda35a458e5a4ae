package cabinet_test

import (
	"testing"

	"github.com/fwojciec/cabinet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const origin = "https://www.cabinet.ox.ac.uk"

func TestOrigin(t *testing.T) {
	t.Parallel()

	t.Run("returns scheme and host", func(t *testing.T) {
		t.Parallel()

		got, err := cabinet.Origin("https://www.cabinet.ox.ac.uk/portrait-young-man?x=1#top")

		require.NoError(t, err)
		assert.Equal(t, origin, got)
	})

	t.Run("keeps port", func(t *testing.T) {
		t.Parallel()

		got, err := cabinet.Origin("http://127.0.0.1:8080/node/1")

		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:8080", got)
	})

	t.Run("rejects relative URL", func(t *testing.T) {
		t.Parallel()

		_, err := cabinet.Origin("/node/1")

		require.Error(t, err)
		assert.Equal(t, cabinet.EINVALID, cabinet.ErrorCode(err))
	})
}

func TestAbsoluteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"absolute https passes through", "https://cdn.example.com/a.jpg?x=1", "https://cdn.example.com/a.jpg?x=1"},
		{"absolute http passes through", "http://example.com/a.jpg", "http://example.com/a.jpg"},
		{"protocol relative gets https", "//cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"root relative gets origin", "/sites/default/files/a.jpg", origin + "/sites/default/files/a.jpg"},
		{"relative path joined with one slash", "sites/default/files/a.jpg", origin + "/sites/default/files/a.jpg"},
		{"dot segments are kept", "../a.jpg", origin + "/../a.jpg"},
		{"surrounding whitespace is trimmed", "  /node/5 ", origin + "/node/5"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cabinet.AbsoluteURL(tt.ref, origin))
		})
	}

	t.Run("trailing slash on origin is not doubled", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, origin+"/a", cabinet.AbsoluteURL("a", origin+"/"))
	})
}

func TestIsNonWebReference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref  string
		want bool
	}{
		{"mailto:a@b.c", true},
		{"tel:+441865", true},
		{"#fn1", true},
		{" #top", true},
		{"javascript:void(0)", true},
		{"https://www.cabinet.ox.ac.uk/item", false},
		{"http://example.com", false},
		{"//cdn.example.com/a.jpg", false},
		{"/node/5", false},
		{"item/5", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cabinet.IsNonWebReference(tt.ref))
		})
	}
}

func TestCanonicalImageURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{
			name: "strips style segment and query",
			ref:  "/sites/default/files/styles/large/public/portrait.jpg?itok=abc",
			want: origin + "/sites/default/files/portrait.jpg",
		},
		{
			name: "variants of one asset collapse",
			ref:  "https://www.cabinet.ox.ac.uk/sites/default/files/styles/thumbnail/public/portrait.jpg",
			want: origin + "/sites/default/files/portrait.jpg",
		},
		{
			name: "nested style segments are all removed",
			ref:  "/files/styles/a/public/styles/b/public/x.png",
			want: origin + "/files/x.png",
		},
		{
			name: "plain file unchanged",
			ref:  "/sites/default/files/x.gif",
			want: origin + "/sites/default/files/x.gif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cabinet.CanonicalImageURL(tt.ref, origin))
		})
	}
}

func TestCanonicalImageURL_Idempotent(t *testing.T) {
	t.Parallel()

	refs := []string{
		"/sites/default/files/styles/large/public/portrait.jpg?itok=abc",
		"//cdn.example.com/files/styles/x/public/styles/y/public/z.jpg",
		"relative/path/a.png?b=c",
		"https://example.com/plain.jpg",
		"/files/styles/a/public/styles/b/public/x.png",
	}

	for _, ref := range refs {
		once := cabinet.CanonicalImageURL(ref, origin)
		twice := cabinet.CanonicalImageURL(once, origin)
		assert.Equal(t, once, twice, "canonicalizing %q twice changed the result", ref)
	}
}

func TestAbsoluteURL_DoesNotStripVariants(t *testing.T) {
	t.Parallel()

	ref := "/sites/default/files/styles/large/public/a.jpg?itok=1"
	assert.Equal(t, origin+ref, cabinet.AbsoluteURL(ref, origin))
}
