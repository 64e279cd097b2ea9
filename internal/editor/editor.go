package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Editor opens a path in an external editing program and blocks until the
// editing session ends. Nothing about the session outcome is interpreted
// beyond "the user is done".
type Editor interface {
	Open(path string) error
}

// ExecEditor launches the configured editor command with the terminal
// attached. The command may carry arguments ("vim -u NONE").
type ExecEditor struct {
	Command string
}

func (e ExecEditor) Open(path string) error {
	parts := strings.Fields(e.Command)
	if len(parts) == 0 {
		return fmt.Errorf("no editor configured")
	}

	args := append(parts[1:], path)
	cmd := exec.Command(parts[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", parts[0], err)
	}
	return nil
}
