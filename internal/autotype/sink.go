package autotype

import (
	"os/exec"

	qerrors "github.com/quillsafe/quill/internal/errors"
)

// KeyboardSink types a sequence of keysyms into the currently focused
// window.
type KeyboardSink interface {
	Type(keysyms []string) error
}

// XdotoolSink drives the configured xdotool executable. The executable
// path comes from configuration; users who do not trust PATH resolution
// should configure an absolute path.
type XdotoolSink struct {
	Executable string
}

func (s XdotoolSink) Type(syms []string) error {
	if len(syms) == 0 {
		return nil
	}

	args := append([]string{"key", "--clearmodifiers"}, syms...)
	cmd := exec.Command(s.Executable, args...)
	if err := cmd.Run(); err != nil {
		return &qerrors.StorageError{Op: "send keystrokes via", Path: s.Executable, Err: err}
	}
	return nil
}
