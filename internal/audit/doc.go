// Package audit appends operation records to a JSON Lines log.
//
// The log answers "what was disclosed, when, through which channel"
// without ever being able to answer "what was the value": entries carry
// field labels and redacted transcripts only. Audit failures never fail
// the operation being audited.
package audit
