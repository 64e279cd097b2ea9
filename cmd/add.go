package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillsafe/quill/internal/editor"
	"github.com/quillsafe/quill/internal/ui"
	"github.com/quillsafe/quill/internal/workflows"
)

var addFile string

func init() {
	addCmd.Flags().StringVarP(&addFile, "file", "f", "", "add the account to the accounts file matching this prefix")
}

// resetAddCommandState resets the add command's flag state for testing.
func resetAddCommandState() {
	addFile = ""
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new account through your editor",
	Long: `Opens a fresh account template in your editor. When you save and
quit, the new account is appended to the accounts file and the combined
file is validated before it replaces the original. Values wrapped in
<<double angle brackets>> are concealed on save.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		result, err := workflows.Add(cmd.Context(), env, workflows.AddOptions{File: addFile})
		if err != nil {
			if result != nil && result.Outcome == editor.RolledBack {
				reportRollback(result.File, result.TempPath, err)
				return err
			}
			return Logger.ErrorfAndReturn("add failed: %v", err)
		}

		switch result.Outcome {
		case editor.NoChange:
			fmt.Println(ui.Info.Sprint("→") + " Unchanged, and so ignored")
		default:
			fmt.Println(ui.Success.Sprint("✓") + " Account added to " + ui.Path.Sprint(result.File))
		}
		return nil
	},
}

// reportRollback tells the user the original file was restored and where
// their unsaved edits live.
func reportRollback(file, tempPath string, cause error) {
	Logger.Errorf("%v", cause)
	fmt.Println(ui.Error.Sprint("✗") + " Giving up, restored " + ui.Path.Sprint(file))
	if tempPath != "" {
		fmt.Println(ui.Info.Sprint("→") + " What you entered is in " + ui.Path.Sprint(tempPath))
		fmt.Println(ui.Info.Sprint("→") + " Delete it when you are done with it")
	}
}
