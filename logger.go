package lob

import (
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger replaces the logger shared by every book, arena and manager.
// The library only logs arena growth and order rejections, so the default
// JSON logger on stdout is fine for most embedders.
func SetLogger(l *slog.Logger) {
	logger = l
}
