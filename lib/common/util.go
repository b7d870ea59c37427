package common

import (
	"encoding/json"
	"os"
	"strings"

	uuid "github.com/satori/go.uuid"

	"boscoin.io/tokenpoll/lib/errors"
)

var (
	TrueQueryStringValue  []string = []string{"true", "yes", "1"}
	FalseQueryStringValue []string = []string{"false", "no", "0"}
)

// GetUniqueIDFromUUID returns a time based id. The time fields of the uuid1
// are written most significant first, so ids sort in creation order.
func GetUniqueIDFromUUID() string {
	f := strings.Split(uuid.Must(uuid.NewV1(), nil).String(), "-")
	return f[2] + f[1] + "-" + f[0] + "-" + f[3] + "-" + f[4]
}

func GetENVValue(key, defaultValue string) (v string) {
	var found bool
	if v, found = os.LookupEnv(key); !found {
		return defaultValue
	}

	return
}

func InStringArray(a []string, s string) (index int, found bool) {
	var h string
	for index, h = range a {
		found = h == s
		if found {
			return
		}
	}

	index = -1
	return
}

// ParseBoolQueryString accepts 'true', 'yes', '1' and 'false', 'no', '0'.
func ParseBoolQueryString(v string) (yesno bool, err error) {
	if _, yesno = InStringArray(TrueQueryStringValue, strings.ToLower(v)); yesno {
		return
	}
	if _, ok := InStringArray(FalseQueryStringValue, strings.ToLower(v)); ok {
		yesno = false
		return
	}

	err = errors.BadRequestParameter.Clone().SetData("value", v)
	return
}

// MustUnmarshalJSON is only for data this node wrote itself.
func MustUnmarshalJSON(data []byte, v interface{}) {
	if err := json.Unmarshal(data, v); err != nil {
		panic(err)
	}
}

func MustMarshalJSON(o interface{}) []byte {
	b, _ := json.Marshal(o)
	return b
}

func JSONMarshalIndent(o interface{}) ([]byte, error) {
	return json.MarshalIndent(o, "", "  ")
}

func IsExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
