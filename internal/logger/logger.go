package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the shared structured logger. Level comes from LOG_LEVEL and
// defaults to info.
func New() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// WithComponent tags entries with the subsystem that produced them.
func WithComponent(log *logrus.Logger, name string) *logrus.Entry {
	return log.WithField("component", name)
}
