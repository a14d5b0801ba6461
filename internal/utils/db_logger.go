package utils

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

// FilteredGormLogger drops trace output for queries matching any of the
// configured substrings. The reminder sweeps poll the team and holiday
// tables every hour and would otherwise dominate the SQL log.
type FilteredGormLogger struct {
	logger.Interface
	ignoredQueryPatterns []string
}

// NewFilteredGormLogger wraps l, suppressing queries containing any pattern
func NewFilteredGormLogger(l logger.Interface, ignoredPatterns ...string) *FilteredGormLogger {
	return &FilteredGormLogger{
		Interface:            l,
		ignoredQueryPatterns: ignoredPatterns,
	}
}

// LogMode implements logger.Interface
func (l *FilteredGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &FilteredGormLogger{
		Interface:            l.Interface.LogMode(level),
		ignoredQueryPatterns: l.ignoredQueryPatterns,
	}
}

// Trace implements logger.Interface
func (l *FilteredGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	sql, _ := fc()
	for _, pattern := range l.ignoredQueryPatterns {
		if strings.Contains(sql, pattern) {
			return
		}
	}
	l.Interface.Trace(ctx, begin, fc, err)
}
