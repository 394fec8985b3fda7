package fetch

import (
	"context"
	"log/slog"
	"time"
)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   Fetcher
	logger *slog.Logger
}

var _ Fetcher = (*LoggingFetcher)(nil)

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, path string) (text string, err error) {
	defer func(begin time.Time) {
		if err != nil {
			f.logger.Warn("fetch",
				"path", path,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		f.logger.Debug("fetch",
			"path", path,
			"bytes", len(text),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Fetch(ctx, path)
}
