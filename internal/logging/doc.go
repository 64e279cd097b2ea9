// Package logger provides leveled logging for quill commands.
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows all messages including debug details
//
// Warnings and errors are always shown.
//
// Secret values must never be passed to any log method. Disclosure and
// autotype operations log only field labels and redacted transcripts; the
// writer and autotype packages are responsible for redaction before any
// value reaches this package.
//
// Commands typically create a logger in their PersistentPreRun and pass it
// to internal functions.
package logger
