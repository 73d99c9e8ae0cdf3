package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the global logrus logger. JSON output everywhere except
// development, where a plain text formatter is easier to read.
func Init(env string) {
	logrus.SetOutput(os.Stdout)

	if env == "development" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.WithField("env", env).Info("logger initialized")
}
