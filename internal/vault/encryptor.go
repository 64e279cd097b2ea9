package vault

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"filippo.io/age"

	qerrors "github.com/quillsafe/quill/internal/errors"
)

// ageHeader starts every binary age file; its presence decides whether a
// source needs decryption on read.
const ageHeader = "age-encryption.org/v1"

// Encryptor turns plaintext into a recipient-encrypted form and back.
// Encryption policy (which recipients) is supplied by the caller on every
// Encrypt; the encryptor itself only holds the decryption identity.
type Encryptor interface {
	Encrypt(plaintext []byte, recipients []string) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// IsEncrypted reports whether data carries the age header.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte(ageHeader))
}

// AgeEncryptor implements Encryptor with age X25519 recipients. The
// identity file is read lazily on first decryption.
type AgeEncryptor struct {
	IdentityFile string

	identities []age.Identity
}

func (e *AgeEncryptor) Encrypt(plaintext []byte, recipients []string) ([]byte, error) {
	parsed := make([]age.Recipient, 0, len(recipients))
	for _, r := range recipients {
		recipient, err := age.ParseX25519Recipient(r)
		if err != nil {
			return nil, fmt.Errorf("invalid recipient %q: %w", r, err)
		}
		parsed = append(parsed, recipient)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, parsed...)
	if err != nil {
		return nil, fmt.Errorf("starting encryption: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("encrypting: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *AgeEncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	identities, err := e.loadIdentities()
	if err != nil {
		return nil, err
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted content: %w", err)
	}
	return plaintext, nil
}

func (e *AgeEncryptor) loadIdentities() ([]age.Identity, error) {
	if e.identities != nil {
		return e.identities, nil
	}
	if e.IdentityFile == "" {
		return nil, qerrors.ErrNoIdentity
	}

	f, err := os.Open(e.IdentityFile)
	if err != nil {
		return nil, fmt.Errorf("opening identity file: %w", err)
	}
	defer f.Close()

	identities, err := age.ParseIdentities(f)
	if err != nil {
		return nil, fmt.Errorf("parsing identity file %s: %w", e.IdentityFile, err)
	}
	e.identities = identities
	return identities, nil
}
