package ast

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const byteStringPrefix = `\x`

// FormatBytes renders b as a byte-string literal: `\x` followed by lowercase hex digits.
func FormatBytes(b []byte) string {
	return byteStringPrefix + hex.EncodeToString(b)
}

// ParseBytes is the inverse of FormatBytes.
func ParseBytes(s string) ([]byte, error) {
	if !strings.HasPrefix(s, byteStringPrefix) {
		return nil, fmt.Errorf("byte string literal must start with %s", byteStringPrefix)
	}
	b, err := hex.DecodeString(s[len(byteStringPrefix):])
	if err != nil {
		return nil, fmt.Errorf("decoding byte string literal: %w", err)
	}
	return b, nil
}
