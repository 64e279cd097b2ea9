package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quillsafe/quill/internal/workflows"
)

var credentialsCmd = &cobra.Command{
	Use:     "credentials <account>",
	Aliases: []string{"login"},
	Short:   "Show an account's login credentials",
	Long: `Shows the account's identifier and secret, one at a time. Each
secret is visible for the display window; Ctrl-C moves on early. The
fields come from the account's credentials setting, or the configured
candidates (username/email, then passcode/password/passphrase).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		_, err = workflows.Credentials(cmd.Context(), env, workflows.CredentialsOptions{Account: args[0]})
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}
		return nil
	},
}
