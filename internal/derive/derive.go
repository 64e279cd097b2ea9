package derive

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Character sets available to generated fields.
var charsets = map[string]string{
	"letters":      "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"lowercase":    "abcdefghijklmnopqrstuvwxyz",
	"digits":       "0123456789",
	"alphanumeric": "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
	// Printable ASCII punctuation minus double quote, so generated values
	// can always be written as a quoted TOML string.
	"printable": "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" +
		"!#$%&'()*+,-./:;<=>?@[\\]^_`{|}~",
}

// Charset returns the named character set.
func Charset(name string) (string, error) {
	cs, ok := charsets[name]
	if !ok {
		return "", fmt.Errorf("unknown charset %q", name)
	}
	return cs, nil
}

// Secret deterministically derives a secret of the given length from the
// master seed. The account and field names salt the derivation, so every
// field of every account yields an independent value while remaining
// reproducible from the seed alone.
func Secret(seed, account, field, charsetName string, length int) (string, error) {
	if seed == "" {
		return "", fmt.Errorf("no master seed configured")
	}
	if length <= 0 {
		return "", fmt.Errorf("invalid generated field length %d", length)
	}
	charset, err := Charset(charsetName)
	if err != nil {
		return "", err
	}

	kdf := hkdf.New(sha256.New, []byte(seed), []byte(account), []byte(field))

	// Rejection sampling keeps the charset distribution uniform.
	limit := 256 - (256 % len(charset))
	out := make([]byte, 0, length)
	buf := make([]byte, 1)
	for len(out) < length {
		if _, err := io.ReadFull(kdf, buf); err != nil {
			return "", fmt.Errorf("deriving secret: %w", err)
		}
		if int(buf[0]) >= limit {
			continue
		}
		out = append(out, charset[int(buf[0])%len(charset)])
	}
	return string(out), nil
}
