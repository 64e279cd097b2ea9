package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillsafe/quill/internal/editor"
	"github.com/quillsafe/quill/internal/ui"
	"github.com/quillsafe/quill/internal/workflows"
)

var editCmd = &cobra.Command{
	Use:   "edit <account>",
	Short: "Edit the accounts file that defines an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		result, err := workflows.Edit(cmd.Context(), env, workflows.EditOptions{Account: args[0]})
		if err != nil {
			if result != nil && result.Outcome == editor.RolledBack {
				reportRollback(result.File, result.TempPath, err)
				return err
			}
			return Logger.ErrorfAndReturn("edit failed: %v", err)
		}

		switch result.Outcome {
		case editor.NoChange:
			fmt.Println(ui.Info.Sprint("→") + " Unchanged, and so ignored")
		default:
			fmt.Println(ui.Success.Sprint("✓") + " Saved " + ui.Path.Sprint(result.File))
		}
		return nil
	},
}
