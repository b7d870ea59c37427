package httputils

import (
	"fmt"
	"net/http"

	"boscoin.io/tokenpoll/lib/errors"
)

const (
	ProblemDefaultType = "about:blank"
	ProblemTypePrefix  = "https://boscoin.io/tokenpoll/problem/"
)

// Problem is the error body of the API, following RFC 7807.
type Problem struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status,omitempty"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Code     uint                   `json:"code,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

func NewStatusProblem(status int) Problem {
	return Problem{
		Type:   ProblemDefaultType,
		Title:  http.StatusText(status),
		Status: status,
	}
}

func NewDetailedStatusProblem(status int, detail string) Problem {
	p := NewStatusProblem(status)
	p.Detail = detail
	return p
}

// NewErrorProblem renders err. A coded `*errors.Error` keeps its code and
// data; any other error becomes an untyped problem with the message as title.
func NewErrorProblem(err error, status int) Problem {
	if e, ok := err.(*errors.Error); ok {
		return Problem{
			Type:   fmt.Sprintf("%s%d", ProblemTypePrefix, e.Code),
			Title:  e.Message,
			Status: status,
			Code:   e.Code,
			Data:   e.Data,
		}
	}

	return Problem{
		Type:   ProblemDefaultType,
		Title:  err.Error(),
		Status: status,
	}
}

func (p Problem) SetInstance(instance string) Problem {
	p.Instance = instance
	return p
}
