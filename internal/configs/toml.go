package configs

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SaveTOML encodes v into a TOML file at path, creating the quill config
// directory on first use. Only config.toml goes through here; accounts
// files are written by the vault, which controls encryption and atomic
// replacement.
func SaveTOML(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(v)
}

// LoadTOML decodes the TOML file at path into v. The config is a single
// flat file, so there is no merging or migration step.
func LoadTOML(path string, v interface{}) error {
	_, err := toml.DecodeFile(path, v)
	return err
}
