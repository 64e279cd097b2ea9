package cmd

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/quillsafe/quill/internal/ui"
	"github.com/quillsafe/quill/internal/workflows"
)

var initPlaintext bool

func init() {
	initCmd.Flags().BoolVar(&initPlaintext, "plaintext", false, "store account files unencrypted (not recommended)")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up quill: encryption identity, master seed, and a starter accounts file",
	RunE: func(cmd *cobra.Command, args []string) error {
		figure.NewFigure("quill", "", true).Print()

		s, cleanup := startSpinner("Generating identity and master seed...")
		result, err := workflows.Init(cmd.Context(), Logger, workflows.InitOptions{
			Plaintext: initPlaintext,
		})
		if err != nil {
			cleanup()
			return Logger.ErrorfAndReturn("init failed: %v", err)
		}
		s.FinalMSG = ui.Success.Sprint("✓") + " Created " + ui.Path.Sprint(result.AccountsPath)
		cleanup()

		Logger.Infof("Wrote %s", result.ConfigPath)
		if result.IdentityPath != "" {
			fmt.Println(ui.Success.Sprint("✓") + " Created " + ui.Path.Sprint(result.IdentityPath))
			fmt.Println(ui.Info.Sprint("→") + " Back up your identity file; without it your accounts cannot be decrypted")
		}
		fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("quill add") + " to create your first account")
		return nil
	},
}
