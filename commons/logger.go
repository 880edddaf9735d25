// SPDX-License-Identifier: GPL-3.0-only

package commons

import (
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

var Logger = newLogger()

// InitLogger re-applies LOG_LEVEL once the env file has been loaded; the
// package-level Logger is constructed before LoadEnvFile runs.
func InitLogger() {
	Logger = newLogger()
}

func newLogger() *log.Logger {
	logger := log.New("loveludo")
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "DEBUG":
		logger.SetLevel(log.DEBUG)
	case "INFO":
		logger.SetLevel(log.INFO)
	case "WARN":
		logger.SetLevel(log.WARN)
	case "ERROR":
		logger.SetLevel(log.ERROR)
	case "OFF":
		logger.SetLevel(log.OFF)
	default:
		logger.SetLevel(log.INFO)
	}
	logger.SetHeader("${time_rfc3339} ${level} ${short_file}:${line} -")
	return logger
}
