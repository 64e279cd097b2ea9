package writer

import (
	"github.com/quillsafe/quill/internal/accounts"
	"github.com/quillsafe/quill/internal/autotype"
	"github.com/quillsafe/quill/internal/configs"
	logger "github.com/quillsafe/quill/internal/logging"
)

// KeyboardWriter discloses values by typing them into the focused window
// through the autotype interpreter.
type KeyboardWriter struct {
	Interp *autotype.Interpreter
}

// NewKeyboardWriter wires the interpreter to the configured xdotool sink.
func NewKeyboardWriter(cfg *configs.Config, log logger.Logger) *KeyboardWriter {
	return &KeyboardWriter{
		Interp: &autotype.Interpreter{
			Sink:         autotype.XdotoolSink{Executable: cfg.Xdotool},
			Log:          log,
			InitialDelay: cfg.InitialDelay(),
		},
	}
}

// RunScript executes an autotype script and returns its redacted
// transcript. An empty script types the given default field followed by
// return.
func (w *KeyboardWriter) RunScript(account *accounts.Account, script, defaultField string) (string, error) {
	if script == "" {
		script = autotype.DefaultScript(defaultField)
	}
	return w.Interp.Run(account, script)
}
