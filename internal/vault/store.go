package vault

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/quillsafe/quill/internal/accounts"
	qerrors "github.com/quillsafe/quill/internal/errors"
)

// Source identifies one accounts file on disk.
type Source struct {
	Path string
}

// Store reads and writes account definition files. Reads decrypt when the
// file carries an age header; writes encrypt when recipients are given.
type Store struct {
	enc Encryptor
}

func NewStore(enc Encryptor) *Store {
	return &Store{enc: enc}
}

// ReadText returns the decrypted text of a source. I/O failures surface
// as StorageError.
func (s *Store) ReadText(src Source) (string, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return "", &qerrors.StorageError{Op: "read", Path: src.Path, Err: err}
	}

	if IsEncrypted(data) {
		plaintext, err := s.enc.Decrypt(data)
		if err != nil {
			return "", &qerrors.StorageError{Op: "decrypt", Path: src.Path, Err: err}
		}
		return string(plaintext), nil
	}
	return string(data), nil
}

// IsEncryptedSource reports whether the file at src carries the age
// header. An unreadable file reports false.
func (s *Store) IsEncryptedSource(src Source) bool {
	data, err := os.ReadFile(src.Path)
	return err == nil && IsEncrypted(data)
}

// Read decrypts and parses a source into a record set. Malformed content
// surfaces as ParseError, I/O failures as StorageError.
func (s *Store) Read(src Source) (*accounts.RecordSet, error) {
	text, err := s.ReadText(src)
	if err != nil {
		return nil, err
	}

	rs, err := accounts.Parse(text)
	if err != nil {
		return nil, &qerrors.ParseError{Path: src.Path, Err: err}
	}
	return rs, nil
}

// Save encrypts text for the recipients (empty list means plaintext) and
// replaces the source's content. The write goes to a staging file in the
// same directory followed by a rename, so a failure never leaves a
// half-written accounts file visible.
func (s *Store) Save(src Source, text string, recipients []string) error {
	payload := []byte(text)
	if len(recipients) > 0 {
		encrypted, err := s.enc.Encrypt(payload, recipients)
		if err != nil {
			return &qerrors.StorageError{Op: "encrypt", Path: src.Path, Err: err}
		}
		payload = encrypted
	}

	if err := os.MkdirAll(filepath.Dir(src.Path), 0700); err != nil {
		return &qerrors.StorageError{Op: "create directory", Path: filepath.Dir(src.Path), Err: err}
	}

	staging := fmt.Sprintf("%s.tmp.%s", src.Path, uuid.New().String()[:8])
	if err := os.WriteFile(staging, payload, 0600); err != nil {
		return &qerrors.StorageError{Op: "write", Path: staging, Err: err}
	}
	if err := os.Rename(staging, src.Path); err != nil {
		_ = os.Remove(staging)
		return &qerrors.StorageError{Op: "replace", Path: src.Path, Err: err}
	}
	return nil
}
