package httputils

import (
	"encoding/json"
	"net/http"

	"github.com/nvellon/hal"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeHALJSON = "application/hal+json"
	ContentTypeProblem = "application/problem+json"
)

type HALResource interface {
	Resource() *hal.Resource
}

// WriteJSON writes the value v to the http response as json encoding. HAL
// resources are rendered as `application/hal+json` and errors as problems.
func WriteJSON(w http.ResponseWriter, code int, v interface{}) error {
	if h, ok := v.(HALResource); ok {
		w.Header().Set("Content-Type", ContentTypeHALJSON)
		v = h.Resource()
	} else if e, ok := v.(error); ok {
		w.Header().Set("Content-Type", ContentTypeProblem)
		v = NewErrorProblem(e, code)
	} else if _, ok := v.(Problem); ok {
		w.Header().Set("Content-Type", ContentTypeProblem)
	} else {
		w.Header().Set("Content-Type", ContentTypeJSON)
	}

	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.WriteHeader(code)
	if _, err := w.Write(bs); err != nil {
		return err
	}

	return nil
}

func WriteJSONError(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusCode(err), err)
}
