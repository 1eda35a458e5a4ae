package mock

import (
	"context"

	"github.com/fwojciec/cabinet"
)

var _ cabinet.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of cabinet.RecordService.
type RecordService struct {
	SaveRecordFn      func(ctx context.Context, rec *cabinet.Record) (bool, error)
	FindRecordByURLFn func(ctx context.Context, url string) (*cabinet.Record, error)
	FindRecordsFn     func(ctx context.Context, filter cabinet.RecordFilter) ([]*cabinet.Record, error)
	DeleteRecordFn    func(ctx context.Context, url string) error
}

func (s *RecordService) SaveRecord(ctx context.Context, rec *cabinet.Record) (bool, error) {
	return s.SaveRecordFn(ctx, rec)
}

func (s *RecordService) FindRecordByURL(ctx context.Context, url string) (*cabinet.Record, error) {
	return s.FindRecordByURLFn(ctx, url)
}

func (s *RecordService) FindRecords(ctx context.Context, filter cabinet.RecordFilter) ([]*cabinet.Record, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *RecordService) DeleteRecord(ctx context.Context, url string) error {
	return s.DeleteRecordFn(ctx, url)
}

var _ cabinet.RecordFileStore = (*RecordFileStore)(nil)

// RecordFileStore is a mock implementation of cabinet.RecordFileStore.
type RecordFileStore struct {
	ListFn  func(ctx context.Context) ([]string, error)
	ReadFn  func(ctx context.Context, path string) ([]byte, error)
	WriteFn func(ctx context.Context, path string, data []byte) (bool, error)
}

func (s *RecordFileStore) List(ctx context.Context) ([]string, error) {
	return s.ListFn(ctx)
}

func (s *RecordFileStore) Read(ctx context.Context, path string) ([]byte, error) {
	return s.ReadFn(ctx, path)
}

func (s *RecordFileStore) Write(ctx context.Context, path string, data []byte) (bool, error) {
	return s.WriteFn(ctx, path, data)
}

var _ cabinet.RecordMerger = (*RecordMerger)(nil)

// RecordMerger is a mock implementation of cabinet.RecordMerger.
type RecordMerger struct {
	SourceURLFn func(stored []byte) (string, error)
	MergeFn     func(stored []byte, rec *cabinet.Record) ([]byte, bool, error)
}

func (m *RecordMerger) SourceURL(stored []byte) (string, error) {
	return m.SourceURLFn(stored)
}

func (m *RecordMerger) Merge(stored []byte, rec *cabinet.Record) ([]byte, bool, error) {
	return m.MergeFn(stored, rec)
}
