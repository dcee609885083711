package telemetry

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a JSON logrus logger tagged with the service name.
// Debug lowers the level to debug.
func NewLogger(debug bool) *logrus.Logger {
	return newLogger(os.Stderr, debug)
}

func newLogger(out io.Writer, debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// Component returns an entry scoped to one part of the console.
func Component(logger logrus.FieldLogger, name string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"service":   serviceName,
		"component": name,
	})
}
