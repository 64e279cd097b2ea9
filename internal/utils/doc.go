// Package utils provides terminal helpers shared across quill.
//
// Secret display writes go to /dev/tty directly rather than stdout, so a
// redirected or piped invocation never captures secret text, and timed
// waits are preemptible by SIGINT so the user can cut a display window
// short.
package utils
