package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is usable before InitLogger runs; InitLogger reconfigures it
var Log = logrus.New()

func InitLogger(level string) {
	// Output to stdout instead of the default stderr
	Log.Out = os.Stdout

	// Set JSON formatter for structured logging
	Log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
}

// Component returns an entry tagged with the subsystem name
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
