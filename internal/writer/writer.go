package writer

import (
	"fmt"
	"time"

	"github.com/quillsafe/quill/internal/accounts"
	"github.com/quillsafe/quill/internal/configs"
	logger "github.com/quillsafe/quill/internal/logging"
	"github.com/quillsafe/quill/internal/utils"
)

// Writer discloses one resolved field value to the user through a single
// sink. Secure implementations clear their medium no later than the
// configured timeout, or immediately on user interrupt.
type Writer interface {
	Display(secret accounts.Secret) error
}

// Channel identifies a disclosure channel.
type Channel string

const (
	// ChannelTTY shows the value on the terminal, overwriting it after
	// the display window.
	ChannelTTY Channel = "tty"

	// ChannelClipboard places the value on the system clipboard and
	// clears it after a visible countdown.
	ChannelClipboard Channel = "clipboard"

	// ChannelStdout prints the value verbatim with no protection. Only
	// for explicit opt-in, typically when piping into another command.
	ChannelStdout Channel = "stdout"
)

// ForChannel builds the writer for a channel. The mapping is a fixed
// table assembled here; channels are never discovered dynamically.
func ForChannel(ch Channel, cfg *configs.Config, log logger.Logger) (Writer, error) {
	switch ch {
	case ChannelTTY:
		return &TTYWriter{
			Log:         log,
			DisplayTime: cfg.DisplayTime(),
			Indent:      "    ",
		}, nil
	case ChannelClipboard:
		return &ClipboardWriter{
			Sink:        SystemClipboard{},
			Log:         log,
			DisplayTime: cfg.DisplayTime(),
		}, nil
	case ChannelStdout:
		return &StdoutWriter{}, nil
	default:
		return nil, fmt.Errorf("unknown disclosure channel %q", ch)
	}
}

// wait falls back to the interruptible wait helper when no override is
// injected.
func wait(override func(time.Duration) bool, d time.Duration) bool {
	if override != nil {
		return override(d)
	}
	return utils.Wait(d)
}
