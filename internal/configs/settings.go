package configs

import "time"

// Display and autotype timing defaults. DisplaySeconds bounds how long a
// secret stays visible on the terminal or clipboard before it is cleared.
const (
	DefaultDisplaySeconds = 60
	DefaultInitialDelay   = 250 * time.Millisecond
)

// Default field names, matching common account layouts. The default field
// is disclosed when the user names no field; the credential candidates are
// tried in order by the credentials command.
var (
	DefaultField             = "passcode"
	DefaultCredentialIDs     = []string{"username", "email"}
	DefaultCredentialSecrets = []string{"passcode", "password", "passphrase"}
)

// DefaultAccountsFileName is the accounts file created by quill init.
const DefaultAccountsFileName = "accounts.toml"

// DefaultEditor is used when neither the config nor $EDITOR names one.
const DefaultEditor = "vi"

// DefaultXdotool is the virtual keyboard executable. An absolute path is
// not forced here; users concerned about PATH substitution should set an
// absolute path in their config.
const DefaultXdotool = "xdotool"
