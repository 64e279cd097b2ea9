package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quillsafe/quill/internal/utils"
	"github.com/quillsafe/quill/internal/workflows"
	"github.com/quillsafe/quill/internal/writer"
)

var (
	valueClipboard bool
	valueStdout    bool
	valueAutotype  bool
)

func init() {
	valueCmd.Flags().BoolVarP(&valueClipboard, "clipboard", "c", false, "copy the value to the clipboard, cleared after the display window")
	valueCmd.Flags().BoolVarP(&valueStdout, "stdout", "s", false, "print the value raw with no protection (for piping)")
	valueCmd.Flags().BoolVar(&valueAutotype, "autotype", false, "type the value into the focused window instead of displaying it")
}

// resetValueCommandState resets the value command's flag state for testing.
func resetValueCommandState() {
	valueClipboard = false
	valueStdout = false
	valueAutotype = false
}

var valueCmd = &cobra.Command{
	Use:   "value <account> [field]",
	Short: "Show one account value",
	Long: `Shows a field of an account. Secret values are protected: on the
terminal they are overwritten after the display window, on the clipboard
they are cleared after a countdown. Ctrl-C cuts the window short and
clears immediately.

The field may be a name ("passcode"), a member of a composite field
("questions.0"), or a display script ("{username}: {passcode}"). With no
field, the account's default field is shown.

With --stdout the value is printed verbatim and nothing is cleared; use
it only when piping into another command.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		field := ""
		if len(args) > 1 {
			field = args[1]
		}

		channel := writer.ChannelTTY
		if valueClipboard {
			channel = writer.ChannelClipboard
		}
		if valueStdout {
			channel = writer.ChannelStdout
		}

		if channel == writer.ChannelTTY && !valueAutotype && !utils.IsTerminal() {
			return Logger.ErrorfAndReturn("not connected to a terminal; use --stdout to pipe the value")
		}

		_, err = workflows.Value(cmd.Context(), env, workflows.ValueOptions{
			Account:  args[0],
			Field:    field,
			Channel:  channel,
			Autotype: valueAutotype,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}
		return nil
	},
}
