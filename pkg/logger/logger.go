package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns the process-wide structured logger. JSON output so the
// entries are machine-parseable in aggregation.
func New() *logrus.Logger {
	log := logrus.New()

	log.Out = os.Stdout
	log.SetFormatter(&logrus.JSONFormatter{})

	level := logrus.InfoLevel
	if parsed, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		level = parsed
	}
	log.SetLevel(level)

	return log
}
