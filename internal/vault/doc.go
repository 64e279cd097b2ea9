// Package vault stores account definition files.
//
// A source file is either plaintext TOML or the same TOML encrypted with
// age for a set of X25519 recipients; reads sniff the age header and
// decrypt transparently. Writes always go through a staging file and a
// rename, so an interrupted save never corrupts the original.
//
// Before any mutation the caller takes a Backup, a byte-level duplicate
// next to the source. Restore puts those bytes back and is a no-op when
// the backup was already consumed, which lets failure paths restore
// unconditionally.
package vault
