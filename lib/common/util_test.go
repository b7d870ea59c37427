package common

import (
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUniqueIDFromUUID(t *testing.T) {
	var ids []string
	for i := 0; i < 10000; i++ {
		ids = append(ids, GetUniqueIDFromUUID())
	}

	seen := map[string]bool{}
	for _, id := range ids {
		require.False(t, seen[id])
		seen[id] = true
	}

	require.True(t, sort.StringsAreSorted(ids))
}

func TestGetENVValue(t *testing.T) {
	os.Setenv("TOKENPOLL_TEST_ENV", "found")
	defer os.Unsetenv("TOKENPOLL_TEST_ENV")

	require.Equal(t, "found", GetENVValue("TOKENPOLL_TEST_ENV", "default"))
	require.Equal(t, "default", GetENVValue("TOKENPOLL_TEST_ENV_MISSING", "default"))
}

func TestInStringArray(t *testing.T) {
	index, found := InStringArray([]string{"a", "b"}, "b")
	require.True(t, found)
	require.Equal(t, 1, index)

	index, found = InStringArray([]string{"a", "b"}, "c")
	require.False(t, found)
	require.Equal(t, -1, index)
}

func TestParseBoolQueryString(t *testing.T) {
	for _, v := range []string{"true", "YES", "1"} {
		yes, err := ParseBoolQueryString(v)
		require.NoError(t, err)
		require.True(t, yes)
	}
	for _, v := range []string{"false", "No", "0"} {
		yes, err := ParseBoolQueryString(v)
		require.NoError(t, err)
		require.False(t, yes)
	}

	_, err := ParseBoolQueryString("maybe")
	require.Error(t, err)
}
