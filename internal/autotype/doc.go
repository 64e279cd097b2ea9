// Package autotype simulates typing account values into the focused
// window.
//
// A script is a string of literal text and single-brace commands:
//
//	{username}{tab}{passcode}{return}
//	{checking}: {sleep 0.5}{pin}
//
// {tab} and {return} emit the corresponding key, {sleep N} flushes
// buffered keystrokes and pauses, and any other braced token resolves an
// account field. Execution builds two parallel streams: the keystroke
// buffer, which reaches only the keyboard sink, and the transcript, where
// every secret field is replaced by a <name> placeholder. The transcript
// is the only representation of the run that may be logged.
package autotype
