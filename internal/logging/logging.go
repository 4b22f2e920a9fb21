// Package logging configures the shared logrus logger from application
// configuration. All long-lived components receive a *logrus.Logger rather
// than reaching for a global.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/wasii25/askdb/internal/config"
)

// Setup creates a logger configured per cfg, writing to stderr so that
// answers on stdout stay clean for piping.
func Setup(cfg config.LoggingConfig) *logrus.Logger {
	return setup(cfg, os.Stderr)
}

func setup(cfg config.LoggingConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)
	logger.SetOutput(out)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
