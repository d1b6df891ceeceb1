package mock

import (
	"context"
	"io"

	"github.com/fwojciec/linkbot"
)

// Compile-time interface verification.
var (
	_ linkbot.ProfileStore  = (*ProfileStore)(nil)
	_ linkbot.ProfileWriter = (*ProfileWriter)(nil)
	_ linkbot.TableWriter   = (*TableWriter)(nil)
)

// ProfileStore is a mock implementation of linkbot.ProfileStore.
type ProfileStore struct {
	AppendFn func(ctx context.Context, rec *linkbot.ProfileRecord) error
	PathFn   func() string
}

func (s *ProfileStore) Append(ctx context.Context, rec *linkbot.ProfileRecord) error {
	return s.AppendFn(ctx, rec)
}

func (s *ProfileStore) Path() string {
	return s.PathFn()
}

// ProfileWriter is a mock implementation of linkbot.ProfileWriter.
type ProfileWriter struct {
	WriteProfileFn func(ctx context.Context, d *linkbot.ProfileDetails) error
}

func (w *ProfileWriter) WriteProfile(ctx context.Context, d *linkbot.ProfileDetails) error {
	return w.WriteProfileFn(ctx, d)
}

// TableWriter is a mock implementation of linkbot.TableWriter.
type TableWriter struct {
	WriteTableFn func(w io.Writer, t *linkbot.Table) error
	ExtFn        func() string
}

func (tw *TableWriter) WriteTable(w io.Writer, t *linkbot.Table) error {
	return tw.WriteTableFn(w, t)
}

func (tw *TableWriter) Ext() string {
	return tw.ExtFn()
}
