package writer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/quillsafe/quill/internal/accounts"
)

// StdoutWriter prints the value verbatim: no label, no timing, no
// clearing. It exists for deliberate programmatic piping (`--stdout`) and
// explicitly forgoes every disclosure protection; it must never be the
// default channel.
type StdoutWriter struct {
	Out io.Writer
}

func (w *StdoutWriter) Display(secret accounts.Secret) error {
	out := w.Out
	if out == nil {
		out = os.Stdout
	}
	_, err := fmt.Fprintln(out, strings.TrimSpace(secret.Value))
	return err
}
