// Package writer discloses resolved account values to the user.
//
// Four channels exist: the terminal (value shown then overwritten after a
// timeout), the clipboard (set, visible countdown, cleared), raw stdout
// (no protection, explicit opt-in only), and the virtual keyboard
// (autotype). The secure channels share two guarantees: the medium is
// cleared no later than the configured display time, and a user interrupt
// clears immediately instead of waiting the window out. Interruption is
// not a failure; the operation still reports success.
package writer
