package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// InfoLogger dan ErrorLogger langsung siap dipakai, InitLogger hanya
// mengatur ulang output dan formatter.
var (
	InfoLogger  = logrus.New()
	ErrorLogger = logrus.New()
)

func InitLogger() {
	configureLogger(InfoLogger, os.Stdout, logrus.InfoLevel, false)
	configureLogger(ErrorLogger, os.Stderr, logrus.ErrorLevel, false)
}

// InitLoggerWithLevel dipakai CLI ketika flag -debug aktif
func InitLoggerWithLevel(level logrus.Level, colors bool) {
	configureLogger(InfoLogger, os.Stdout, level, colors)
	configureLogger(ErrorLogger, os.Stderr, logrus.ErrorLevel, colors)
}

func configureLogger(l *logrus.Logger, out io.Writer, level logrus.Level, colors bool) {
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   colors,
	})
	l.SetLevel(level)
}
