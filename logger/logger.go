package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  *logrus.Logger
	WarnLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

// InitLoggers sets up the three package loggers. Log files rotate via
// lumberjack; everything is mirrored to stdout/stderr for container logs.
func InitLoggers() {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	InfoLogger = newLogger(logDir+"/info.log", logrus.InfoLevel, os.Stdout)
	WarnLogger = newLogger(logDir+"/warn.log", logrus.WarnLevel, os.Stdout)
	ErrorLogger = newLogger(logDir+"/error.log", logrus.ErrorLevel, os.Stderr)

	if os.Getenv("LOG_LEVEL") == "debug" {
		InfoLogger.SetLevel(logrus.DebugLevel)
	}
}

func newLogger(path string, level logrus.Level, console io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetOutput(io.MultiWriter(console, &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}))
	return l
}

func init() {
	// Packages log during their own init; make sure the loggers exist even if
	// main has not called InitLoggers yet.
	if InfoLogger == nil {
		InitLoggers()
	}
}
