package logger

import (
	"log/slog"
	"os"
)

// New returns the root structured logger. Development gets human-readable
// text; anything else gets JSON for log shipping.
func New(env string) *slog.Logger {
	var handler slog.Handler
	if env == "development" {
		handler = slog.NewTextHandler(os.Stdout, nil)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	return slog.New(handler)
}
