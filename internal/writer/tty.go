package writer

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/quillsafe/quill/internal/accounts"
	logger "github.com/quillsafe/quill/internal/logging"
	"github.com/quillsafe/quill/internal/utils"
)

// TTYWriter shows a value on the user's terminal. Secret values are
// written directly to the TTY, held for the display window, then
// overwritten; non-secret values print normally and persist.
type TTYWriter struct {
	Log         logger.Logger
	DisplayTime time.Duration
	Indent      string

	// Wait and the TTY hooks are injectable for tests.
	Wait      func(time.Duration) bool
	WriteTTY  func(string) error
	ClearLine func() error
}

func (w *TTYWriter) Display(secret accounts.Secret) error {
	value := strings.TrimSpace(secret.Value)
	label := strings.ToUpper(secret.Label)
	w.Log.Infof("Writing %s to TTY", secret.Label)

	sep := " "
	if strings.Contains(value, "\n") {
		if secret.IsSecret {
			w.Log.WarnfAlways("%s: secret contains newlines, will not be fully concealed", secret.Label)
		} else {
			value = w.Indent + strings.ReplaceAll(value, "\n", "\n"+w.Indent)
			sep = "\n"
		}
	}

	text := color.MagentaString(label+":") + sep + value

	if !secret.IsSecret {
		fmt.Println(text)
		return nil
	}

	writeTTY := w.WriteTTY
	if writeTTY == nil {
		writeTTY = utils.WriteToTTY
	}
	clearLine := w.ClearLine
	if clearLine == nil {
		clearLine = utils.ClearTTYLine
	}

	if err := writeTTY(text + " "); err != nil {
		return err
	}
	wait(w.Wait, w.DisplayTime)
	return clearLine()
}
