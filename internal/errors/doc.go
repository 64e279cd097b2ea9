// Package errors provides typed error values for quill.
//
// Sentinel errors allow callers to handle specific conditions with
// errors.Is() rather than string matching. Three error types carry extra
// context and drive recovery decisions:
//
//   - ParseError: account text failed validation; the edit loop offers a
//     retry because these are usually typos the user can fix.
//   - StorageError: an I/O failure on a file or output sink; never
//     retried, edit workflows roll back immediately.
//   - ScriptError: a malformed autotype script; aborts the disclosure.
//
// User cancellation during a timed wait is deliberately not an error:
// interrupting a secure display shortcut means "clear now", and the
// operation still completes successfully.
//
// Wrap errors with additional context at call sites:
//
//	return fmt.Errorf("reading accounts file %s: %w", path, err)
package errors
