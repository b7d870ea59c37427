package test

import (
	"os"

	logging "github.com/inconshreveable/log15"
)

// LogHandler picks the handler for test runs from `TOKENPOLL_LOG_HANDLER`;
// "null" silences the logs.
func LogHandler() logging.Handler {
	handlers := map[string]func() logging.Handler{
		"null": func() logging.Handler {
			return logging.DiscardHandler()
		},
		"stdout": func() logging.Handler {
			return logging.CallerStackHandler("%+v", logging.StdoutHandler)
		},
	}

	handler := handlers["null"]
	if h, ok := handlers[os.Getenv("TOKENPOLL_LOG_HANDLER")]; ok {
		handler = h
	}

	return handler()
}
