package common

import (
	logging "github.com/inconshreveable/log15"
)

var log logging.Logger = logging.New("module", "common")

func init() {
	SetLogging(log, DefaultLogLevel, DefaultLogHandler)
}

// NopLogger discards every record.
func NopLogger() logging.Logger {
	l := logging.New()
	l.SetHandler(logging.DiscardHandler())
	return l
}
