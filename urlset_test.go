package cabinet_test

import (
	"testing"

	"github.com/fwojciec/cabinet"
	"github.com/stretchr/testify/assert"
)

func TestURLSet(t *testing.T) {
	t.Parallel()

	s := cabinet.NewURLSet()

	assert.True(t, s.Add("https://example.com/a.jpg"))
	assert.False(t, s.Add("https://example.com/a.jpg"))
	assert.True(t, s.Add("https://example.com/b.jpg"))
}

func TestNewURLSet_Fresh(t *testing.T) {
	t.Parallel()

	first := cabinet.NewURLSet()
	first.Add("https://example.com/a.jpg")

	second := cabinet.NewURLSet()
	assert.True(t, second.Add("https://example.com/a.jpg"))
}
