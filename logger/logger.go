package logger

import (
	"strings"

	"github.com/Scalingo/repos-languages/config"
	"github.com/sirupsen/logrus"
)

// Setup will configure logrus logger
// verbose forces the debug level whatever the configuration says
func Setup(cfg config.Config, verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if cfg.Logs.OutputLogsAsJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}

	logrus.SetLevel(StringToLogrusLogType(cfg.Logs.Level))
}

// StringToLogrusLogType converts a configured level name, any name logrus knows is accepted
// (trace, warning, fatal ...), unknown or empty names fall back to error
func StringToLogrusLogType(logLevel string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(logLevel))
	if err != nil {
		return logrus.ErrorLevel
	}

	return level
}
