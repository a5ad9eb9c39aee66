package jsonutil

import (
	"bytes"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

var jsonConfig = jsoniter.ConfigCompatibleWithStandardLibrary

// Unmarshal decodes data into v with the standard library compatible json-iterator config.
func Unmarshal(data []byte, v interface{}) error {
	return jsonConfig.Unmarshal(data, v)
}

// Marshal encodes v with the standard library compatible json-iterator config.
func Marshal(v interface{}) ([]byte, error) {
	return jsonConfig.Marshal(v)
}

// IsEmpty reports whether raw holds no JSON value, or only null or an empty object.
func IsEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	return bytes.Equal(bytes.Join(bytes.Fields(trimmed), nil), []byte("{}"))
}
