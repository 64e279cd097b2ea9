// Package configs manages quill's configuration.
//
// Configuration is stored as TOML at ~/.config/quill/config.toml and
// covers accounts file locations, encryption recipients, disclosure
// timing, and the external editor and keyboard executables.
//
// The command layer loads the configuration once at startup and passes it
// into each component at construction. Components never reach for ambient
// global settings; this keeps construction explicit and tests hermetic.
package configs
