package common

import (
	"encoding/json"
)

// Serializable is implemented by values with their own storage encoding.
type Serializable interface {
	Serialize() ([]byte, error)
}

// Deserializable is the counterpart of `Serializable`.
type Deserializable interface {
	Deserialize([]byte) error
}

func EncodeJSONValue(i interface{}) ([]byte, error) {
	return json.Marshal(i)
}

func DecodeJSONValue(b []byte, v interface{}) error {
	return json.Unmarshal(b, v)
}
