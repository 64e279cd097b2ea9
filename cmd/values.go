package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillsafe/quill/internal/ui"
	"github.com/quillsafe/quill/internal/workflows"
)

var valuesCmd = &cobra.Command{
	Use:   "values <account>",
	Short: "List an account's fields with secrets redacted",
	Long: `Lists every field of the account. Secret values are shown as
placeholders, so the output is safe to leave on screen.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		result, err := workflows.Values(cmd.Context(), env, workflows.ValuesOptions{Account: args[0]})
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		fmt.Println(ui.Highlight.Sprint(result.Account))
		for _, line := range result.Lines {
			fmt.Println("  " + line)
		}
		return nil
	},
}
