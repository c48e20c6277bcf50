// Package jsonrs is the JSON codec used for every document the purifier writes or reads as JSON.
package jsonrs

import "io"

// JSON is a JSON codec compatible with encoding/json semantics.
type JSON interface {
	Marshal(v any) ([]byte, error)
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
	Unmarshal(data []byte, v any) error
	MarshalToString(v any) (string, error)
	NewDecoder(r io.Reader) Decoder
	NewEncoder(w io.Writer) Encoder
}

type Decoder interface {
	Buffered() io.Reader
	Decode(v any) error
	DisallowUnknownFields()
	More() bool
	UseNumber()
}

type Encoder interface {
	Encode(v any) error
	SetEscapeHTML(on bool)
	SetIndent(prefix, indent string)
}

var Default JSON = &jsoniterJSON{}

func Marshal(v any) ([]byte, error) {
	return Default.Marshal(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return Default.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v any) error {
	return Default.Unmarshal(data, v)
}

func MarshalToString(v any) (string, error) {
	return Default.MarshalToString(v)
}

func NewDecoder(r io.Reader) Decoder {
	return Default.NewDecoder(r)
}

func NewEncoder(w io.Writer) Encoder {
	return Default.NewEncoder(w)
}
