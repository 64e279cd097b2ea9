package cmd

import (
	logger "github.com/quillsafe/quill/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "quill",
		Short: "Quill - a personal credential manager",
		Long: `Quill stores account credentials in encrypted TOML files and
discloses them safely: on the terminal for a bounded time, through the
clipboard with an automatic clear, or typed directly into the focused
window. Account files are edited transactionally, so a broken edit can
always be rolled back.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing quill with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(editCmd)
	RootCmd.AddCommand(valueCmd)
	RootCmd.AddCommand(credentialsCmd)
	RootCmd.AddCommand(valuesCmd)
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	SetLogger(logger.Logger{})
	resetValueCommandState()
	resetAddCommandState()
	if RootCmd != nil && RootCmd.Flags() != nil {
		RootCmd.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
