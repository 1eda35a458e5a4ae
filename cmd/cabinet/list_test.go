package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/cabinet"
	main "github.com/fwojciec/cabinet/cmd/cabinet"
	"github.com/fwojciec/cabinet/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists records with URL, title and tags", func(t *testing.T) {
		t.Parallel()

		var filter cabinet.RecordFilter
		records := &mock.RecordService{
			FindRecordsFn: func(_ context.Context, f cabinet.RecordFilter) ([]*cabinet.Record, error) {
				filter = f
				return []*cabinet.Record{
					portrait(),
					{SourceURL: "https://www.cabinet.ox.ac.uk/untitled"},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Records: records,
		}

		err := (&main.ListCmd{Tag: "portrait", Limit: 10}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, filter.Tag)
		assert.Equal(t, "portrait", *filter.Tag)
		assert.Equal(t, 10, filter.Limit)
		assert.Equal(t,
			"https://www.cabinet.ox.ac.uk/item  Portrait of a Young Man  [portrait, still life]\n"+
				"https://www.cabinet.ox.ac.uk/untitled  (untitled)  []\n",
			stdout.String())
	})

	t.Run("omits tag filter when no tag given", func(t *testing.T) {
		t.Parallel()

		var filter cabinet.RecordFilter
		records := &mock.RecordService{
			FindRecordsFn: func(_ context.Context, f cabinet.RecordFilter) ([]*cabinet.Record, error) {
				filter = f
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Records: records,
		}

		err := (&main.ListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Nil(t, filter.Tag)
		assert.Contains(t, stdout.String(), "No records")
	})

	t.Run("returns error when FindRecords fails", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database connection failed")
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Records: &mock.RecordService{
				FindRecordsFn: func(_ context.Context, _ cabinet.RecordFilter) ([]*cabinet.Record, error) {
					return nil, dbErr
				},
			},
		}

		err := (&main.ListCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, dbErr, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
