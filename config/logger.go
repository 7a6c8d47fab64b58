package config

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger builds the process logger: colorized console output, mirrored
// into klinestore.log when the file can be opened.
func InitLogger(isDebug bool) *logrus.Logger {
	logger := logrus.New()

	consoleFormatter := &logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	}

	file, err := os.OpenFile("klinestore.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		logger.SetOutput(os.Stdout)
		logger.SetFormatter(consoleFormatter)
		logger.Warn("⚠️ Failed to open log file, logging to console only")
	} else {
		logger.SetOutput(io.MultiWriter(os.Stdout, file))
		logger.SetFormatter(consoleFormatter)
	}

	if isDebug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger
}
