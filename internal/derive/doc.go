// Package derive generates deterministic secrets from a master seed.
//
// A generated field never stores its value; it is recomputed on demand
// from (seed, account, field), so the accounts file stays small and the
// same seed reproduces every secret on a fresh machine. HKDF-SHA256
// provides the expansion; rejection sampling maps the output uniformly
// onto the requested character set.
package derive
