package storage

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaultListOptionsFromQuery(t *testing.T) {
	o, err := NewDefaultListOptionsFromQuery(url.Values{})
	require.NoError(t, err)
	require.False(t, o.Reverse())
	require.Nil(t, o.Cursor())
	require.Equal(t, DefaultMaxLimitListOptions, o.Limit())

	o, err = NewDefaultListOptionsFromQuery(url.Values{
		"reverse": []string{"yes"},
		"cursor":  []string{"abc"},
		"limit":   []string{"5"},
	})
	require.NoError(t, err)
	require.True(t, o.Reverse())
	require.Equal(t, []byte("abc"), o.Cursor())
	require.Equal(t, uint64(5), o.Limit())

	o, err = NewDefaultListOptionsFromQuery(url.Values{"limit": []string{"100000"}})
	require.NoError(t, err)
	require.Equal(t, DefaultMaxLimitListOptions, o.Limit())

	_, err = NewDefaultListOptionsFromQuery(url.Values{"limit": []string{"-1"}})
	require.Error(t, err)
	_, err = NewDefaultListOptionsFromQuery(url.Values{"reverse": []string{"maybe"}})
	require.Error(t, err)
}

func TestDefaultListOptionsEncode(t *testing.T) {
	o := NewDefaultListOptions(true, []byte("abc"), 10)
	require.Equal(t, "cursor=abc&limit=10&reverse=true", o.Encode())
}
