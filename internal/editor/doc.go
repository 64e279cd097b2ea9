// Package editor runs transactional edit sessions on account files.
//
// Every mutation follows the same protocol: back up the source, stage the
// working text into a temp file, hand the temp file to the external
// editor, post-process and validate the result end-to-end, then commit or
// roll back. Parse failures offer an unbounded retry loop so typos never
// cost the user their work; on a declined retry the source is restored
// from its backup and the temp file is kept for manual recovery.
package editor
