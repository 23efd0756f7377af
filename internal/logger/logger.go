package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level   string
	Format  string
	LogPath string
}

// Setup configures the global logrus logger. When LogPath is set, output goes to
// both stdout and a rotated file.
func Setup(opts Options) error {
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		return fmt.Errorf("unknown logging level %q: %w", opts.Level, err)
	}
	log.SetLevel(level)

	var out io.Writer = os.Stdout
	if opts.LogPath != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.LogPath,
			MaxSize:    32, // megabytes
			MaxBackups: 2,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	log.SetOutput(out)

	switch opts.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{
			PadLevelText:    true,
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: time.DateTime,
		})
	default:
		return fmt.Errorf("unknown logging format %q", opts.Format)
	}
	return nil
}
