package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkbot"
)

// Compile-time interface verification.
var (
	_ linkbot.ProfileStore  = (*LoggingProfileStore)(nil)
	_ linkbot.ProfileWriter = (*LoggingProfileWriter)(nil)
)

// LoggingProfileStore wraps a ProfileStore and logs every saved record.
type LoggingProfileStore struct {
	next   linkbot.ProfileStore
	logger *slog.Logger
}

// NewLoggingProfileStore creates a new LoggingProfileStore.
func NewLoggingProfileStore(next linkbot.ProfileStore, logger *slog.Logger) *LoggingProfileStore {
	return &LoggingProfileStore{next: next, logger: logger}
}

// Append delegates to the wrapped store and logs the operation.
func (s *LoggingProfileStore) Append(ctx context.Context, rec *linkbot.ProfileRecord) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("profile saved",
			"name", rec.Name,
			"url", rec.ProfileURL,
			"path", s.next.Path(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Append(ctx, rec)
}

func (s *LoggingProfileStore) Path() string {
	return s.next.Path()
}

// LoggingProfileWriter wraps a ProfileWriter and logs every written
// profile.
type LoggingProfileWriter struct {
	next   linkbot.ProfileWriter
	logger *slog.Logger
}

// NewLoggingProfileWriter creates a new LoggingProfileWriter.
func NewLoggingProfileWriter(next linkbot.ProfileWriter, logger *slog.Logger) *LoggingProfileWriter {
	return &LoggingProfileWriter{next: next, logger: logger}
}

// WriteProfile delegates to the wrapped writer and logs the operation.
func (w *LoggingProfileWriter) WriteProfile(ctx context.Context, d *linkbot.ProfileDetails) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("profile written",
			"name", d.Name,
			"url", d.ProfileURL,
			"experience", len(d.Experience),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteProfile(ctx, d)
}
