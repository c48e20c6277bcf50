package jsonrs

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

// jsoniterJSON is the JSON implementation of github.com/json-iterator/go, configured to behave
// like encoding/json.
type jsoniterJSON struct{}

func (*jsoniterJSON) Marshal(v any) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
}

func (*jsoniterJSON) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, prefix, indent)
}

func (*jsoniterJSON) Unmarshal(data []byte, v any) error {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, v)
}

func (*jsoniterJSON) MarshalToString(v any) (string, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(v)
}

func (*jsoniterJSON) NewDecoder(r io.Reader) Decoder {
	return jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(r)
}

func (*jsoniterJSON) NewEncoder(w io.Writer) Encoder {
	return jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
}
