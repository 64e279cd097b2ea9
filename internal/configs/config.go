package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds every tunable quill reads. It is loaded once by the command
// layer and passed explicitly into each component at construction; nothing
// reads it through package globals.
type Config struct {
	// AccountsFiles lists the account definition files, as literal paths
	// or glob patterns relative to the config directory.
	AccountsFiles []string `toml:"accounts_files"`

	// Recipients are the age public keys account files are encrypted for.
	// Empty means account files are stored unencrypted.
	Recipients []string `toml:"recipients"`

	// IdentityFile is the age identity used to decrypt account files.
	IdentityFile string `toml:"identity_file"`

	// DefaultField is disclosed when no field is named on the command line.
	DefaultField string `toml:"default_field"`

	// CredentialIDs and CredentialSecrets are tried in order by the
	// credentials command when the account declares no explicit list.
	CredentialIDs     []string `toml:"credential_ids"`
	CredentialSecrets []string `toml:"credential_secrets"`

	// DisplaySeconds bounds how long a secret is visible before clearing.
	DisplaySeconds int `toml:"display_time"`

	// InitialDelayMS is the pause before autotype sends its first
	// keystroke, giving the target window time to take focus.
	InitialDelayMS int `toml:"initial_autotype_delay_ms"`

	// Editor is the command used for add/edit sessions. Empty means
	// fall back to $EDITOR, then vi.
	Editor string `toml:"editor"`

	// Xdotool is the virtual keyboard executable used for autotype.
	Xdotool string `toml:"xdotool_executable"`
}

// Dir returns the quill configuration directory.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(configDir, "quill"), nil
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		AccountsFiles:     []string{DefaultAccountsFileName},
		DefaultField:      DefaultField,
		CredentialIDs:     append([]string(nil), DefaultCredentialIDs...),
		CredentialSecrets: append([]string(nil), DefaultCredentialSecrets...),
		DisplaySeconds:    DefaultDisplaySeconds,
		InitialDelayMS:    int(DefaultInitialDelay / time.Millisecond),
		Xdotool:           DefaultXdotool,
	}
}

// Load reads config.toml from dir, overlaying it on the defaults. A missing
// file is not an error; the defaults are returned unchanged.
func Load(dir string) (*Config, error) {
	config := Default()

	configPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.DisplaySeconds <= 0 {
		config.DisplaySeconds = DefaultDisplaySeconds
	}
	if config.DefaultField == "" {
		config.DefaultField = DefaultField
	}

	return config, nil
}

// Save writes the configuration to config.toml in dir.
func Save(dir string, config *Config) error {
	configPath := filepath.Join(dir, "config.toml")

	if err := SaveTOML(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// EditorCommand resolves the editor to invoke: the configured editor if
// one is set (even when it names the fallback), then $EDITOR, then vi.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return DefaultEditor
}

// DisplayTime returns the secure display window as a duration.
func (c *Config) DisplayTime() time.Duration {
	return time.Duration(c.DisplaySeconds) * time.Second
}

// InitialDelay returns the autotype focus-settle delay as a duration.
func (c *Config) InitialDelay() time.Duration {
	return time.Duration(c.InitialDelayMS) * time.Millisecond
}
