// Package ui provides semantic text formatting for command output.
//
// Formatters degrade gracefully when color is unavailable: each carries a
// plain-text decoration used instead, so output stays readable in pipes
// and dumb terminals. NO_COLOR is respected.
package ui
