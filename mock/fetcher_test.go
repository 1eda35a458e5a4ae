package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/cabinet/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher(t *testing.T) {
	t.Parallel()

	t.Run("delegates fetch", func(t *testing.T) {
		t.Parallel()

		f := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) { return "<p>" + url + "</p>", nil },
		}

		html, err := f.Fetch(context.Background(), "https://www.cabinet.ox.ac.uk/item")

		require.NoError(t, err)
		assert.Equal(t, "<p>https://www.cabinet.ox.ac.uk/item</p>", html)
	})

	t.Run("close succeeds without CloseFn", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, (&mock.Fetcher{}).Close())
	})

	t.Run("close delegates to CloseFn", func(t *testing.T) {
		t.Parallel()

		closeErr := errors.New("browser gone")
		f := &mock.Fetcher{CloseFn: func() error { return closeErr }}

		assert.Equal(t, closeErr, f.Close())
	})
}
