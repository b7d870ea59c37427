package common

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// PostAndJSONMatcher rejects POST requests which do not send JSON.
func PostAndJSONMatcher(r *http.Request, rm *mux.RouteMatch) bool {
	if r.Method == "POST" {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			return false
		}
	}

	return true
}
