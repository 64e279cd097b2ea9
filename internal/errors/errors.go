package errors

import (
	"errors"
	"fmt"
)

// Account lookup errors.
var (
	// ErrAccountNotFound indicates no account matches the requested name.
	ErrAccountNotFound = errors.New("account not found")

	// ErrFieldNotFound indicates the account has no field with the requested name.
	ErrFieldNotFound = errors.New("field not found")

	// ErrNoAccountsFile indicates no accounts files are configured or present.
	ErrNoAccountsFile = errors.New("no accounts files found")

	// ErrNoCredentials indicates an account has neither an identifier nor a
	// secret field suitable for the credentials command.
	ErrNoCredentials = errors.New("credentials not found")
)

// Vault errors.
var (
	// ErrNoIdentity indicates no age identity is available for decryption.
	ErrNoIdentity = errors.New("no decryption identity configured")
)

// ParseError indicates candidate account text failed to parse or validate.
// It is recoverable: the edit workflow offers a retry rather than rolling
// back immediately.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid account definitions: %v", e.Err)
	}
	return fmt.Sprintf("%s: invalid account definitions: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError indicates an I/O failure on a file, clipboard, or keyboard
// sink. It aborts the current operation; edit workflows roll back without a
// retry prompt.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ScriptError indicates a malformed autotype command or an unresolvable
// field reference. It aborts the whole autotype operation. It does not
// cover single unmappable characters, which are reported and skipped.
type ScriptError struct {
	Token  string
	Reason string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("autotype script error at %q: %s", e.Token, e.Reason)
}

// IsParseError reports whether err is or wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsStorageError reports whether err is or wraps a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
