package accounts

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// concealPrefix marks a concealed value in an accounts file. Concealment is
// an obscuring encoding, not encryption: it keeps secrets out of casual view
// (shoulder surfing, accidental grep) while the file-level encryption
// provides the real protection.
const concealPrefix = "conceal:"

// Conceal encodes a plaintext value into its obscured on-file form.
func Conceal(value string) string {
	return concealPrefix + base64.StdEncoding.EncodeToString([]byte(value))
}

// IsConcealed reports whether a stored value carries the conceal marker.
func IsConcealed(value string) bool {
	return strings.HasPrefix(value, concealPrefix)
}

// Reveal decodes an obscured value. Values without the marker are returned
// unchanged, so callers can pass any stored field through it.
func Reveal(value string) (string, error) {
	if !IsConcealed(value) {
		return value, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, concealPrefix))
	if err != nil {
		return "", fmt.Errorf("malformed concealed value: %w", err)
	}
	return string(decoded), nil
}
