package common

import (
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func TestPostAndJSONMatcher(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	require.False(t, PostAndJSONMatcher(r, &mux.RouteMatch{}))

	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	require.True(t, PostAndJSONMatcher(r, &mux.RouteMatch{}))

	r = httptest.NewRequest("GET", "/", nil)
	require.True(t, PostAndJSONMatcher(r, &mux.RouteMatch{}))
}
