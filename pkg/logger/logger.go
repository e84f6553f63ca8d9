package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// Printf adapts a slog.Logger to printf-style hooks such as chromedp.WithLogf.
// A nil logger yields a no-op.
func Printf(l *slog.Logger, level slog.Level) func(format string, args ...interface{}) {
	if l == nil {
		return func(string, ...interface{}) {}
	}
	return func(format string, args ...interface{}) {
		l.Log(context.Background(), level, fmt.Sprintf(format, args...))
	}
}
