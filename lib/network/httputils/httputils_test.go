package httputils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nvellon/hal"
	"github.com/stretchr/testify/require"

	"boscoin.io/tokenpoll/lib/errors"
)

func TestStatusCode(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, StatusCode(errors.PollClosed))
	require.Equal(t, http.StatusBadRequest, StatusCode(errors.InvalidCandidate.Clone().SetData("index", 9)))
	require.Equal(t, http.StatusForbidden, StatusCode(errors.PollOwnerMismatch))
	require.Equal(t, http.StatusNotFound, StatusCode(errors.PollDoesNotExist))
	require.Equal(t, http.StatusConflict, StatusCode(errors.TransactionAlreadyExists))
	require.Equal(t, http.StatusTooManyRequests, StatusCode(errors.TooManyRequests))
	require.Equal(t, http.StatusInternalServerError, StatusCode(fmt.Errorf("boom")))
}

func TestProblem(t *testing.T) {
	{
		p := NewStatusProblem(http.StatusBadRequest)
		require.Equal(t, ProblemDefaultType, p.Type)
		require.Equal(t, "Bad Request", p.Title)
		require.Empty(t, p.Detail)
	}

	{
		p := NewDetailedStatusProblem(http.StatusBadRequest, "parameters are not enough").
			SetInstance("http://boscoin.io/httperror/details/1")
		require.Equal(t, "parameters are not enough", p.Detail)
		require.Equal(t, "http://boscoin.io/httperror/details/1", p.Instance)
	}

	{
		err := errors.WrongMint.Clone().SetData("mint", "M")
		p := NewErrorProblem(err, http.StatusBadRequest)
		require.Equal(t, fmt.Sprintf("%s%d", ProblemTypePrefix, errors.WrongMint.Code), p.Type)
		require.Equal(t, errors.WrongMint.Message, p.Title)
		require.Equal(t, errors.WrongMint.Code, p.Code)
		require.Equal(t, "M", p.Data["mint"])
	}
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, errors.PollClosed)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, ContentTypeProblem, w.Header().Get("Content-Type"))

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	require.Equal(t, errors.PollClosed.Message, m["title"])
	require.Equal(t, float64(errors.PollClosed.Code), m["code"])
	require.Equal(t, float64(http.StatusBadRequest), m["status"])
}

type testResource struct {
	Name string
}

func (r testResource) GetMap() hal.Entry {
	return hal.Entry{"name": r.Name}
}

func (r testResource) Resource() *hal.Resource {
	return hal.NewResource(r, "/self")
}

func TestWriteJSONHAL(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteJSON(w, http.StatusOK, testResource{Name: "lunch"}))

	require.Equal(t, ContentTypeHALJSON, w.Header().Get("Content-Type"))

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	require.Equal(t, "lunch", m["name"])
	require.Contains(t, m, "_links")
}
