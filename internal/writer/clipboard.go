package writer

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/quillsafe/quill/internal/accounts"
	qerrors "github.com/quillsafe/quill/internal/errors"
	logger "github.com/quillsafe/quill/internal/logging"
	"github.com/quillsafe/quill/internal/utils"
)

// ClipboardSink abstracts the system clipboard.
type ClipboardSink interface {
	Set(text string) error
	Clear() error
}

// SystemClipboard is the production sink.
type SystemClipboard struct{}

func (SystemClipboard) Set(text string) error { return clipboard.WriteAll(text) }
func (SystemClipboard) Clear() error          { return clipboard.WriteAll("") }

// ClipboardWriter places a value on the clipboard. Secret values trigger
// a visible per-second countdown, after which the clipboard is cleared;
// an interrupt cuts the countdown short and clears immediately.
type ClipboardWriter struct {
	Sink        ClipboardSink
	Log         logger.Logger
	DisplayTime time.Duration

	// Wait and the TTY hooks are injectable for tests.
	Wait      func(time.Duration) bool
	WriteTTY  func(string) error
	ClearLine func() error
}

func (w *ClipboardWriter) Display(secret accounts.Secret) error {
	value := strings.TrimSpace(secret.Value)
	w.Log.Infof("Writing %s to clipboard", secret.Label)

	if secret.IsSecret && strings.Contains(value, "\n") {
		w.Log.WarnfAlways("%s: secret contains newlines, will not be fully concealed", secret.Label)
	}

	if err := w.Sink.Set(value); err != nil {
		return &qerrors.StorageError{Op: "set clipboard", Err: err}
	}

	if !secret.IsSecret {
		return nil
	}

	w.countdown()

	if err := w.Sink.Clear(); err != nil {
		return &qerrors.StorageError{Op: "clear clipboard", Err: err}
	}
	return nil
}

// countdown ticks once per second on a single rewritten terminal line.
// Interruption just ends it early; the caller clears the clipboard either
// way.
func (w *ClipboardWriter) countdown() {
	writeTTY := w.WriteTTY
	if writeTTY == nil {
		writeTTY = utils.WriteToTTY
	}
	clearLine := w.ClearLine
	if clearLine == nil {
		clearLine = utils.ClearTTYLine
	}

	for remaining := int(w.DisplayTime / time.Second); remaining >= 0; remaining-- {
		_ = writeTTY(fmt.Sprintf("%d", remaining))
		interrupted := wait(w.Wait, time.Second)
		_ = clearLine()
		if interrupted {
			return
		}
	}
}
