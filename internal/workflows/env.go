package workflows

import (
	"fmt"
	"path/filepath"

	"github.com/quillsafe/quill/internal/accounts"
	"github.com/quillsafe/quill/internal/configs"
	qerrors "github.com/quillsafe/quill/internal/errors"
	logger "github.com/quillsafe/quill/internal/logging"
	"github.com/quillsafe/quill/internal/vault"
)

// Env bundles the dependencies every workflow needs: the loaded
// configuration, the vault store built from it, and the logger. The
// command layer constructs one Env per invocation and passes it down;
// workflows never consult ambient global state.
type Env struct {
	Config    *configs.Config
	ConfigDir string
	Store     *vault.Store
	Log       logger.Logger
}

// NewEnv builds the workflow environment from a loaded configuration.
func NewEnv(cfg *configs.Config, configDir string, log logger.Logger) *Env {
	identity := cfg.IdentityFile
	if identity != "" && !filepath.IsAbs(identity) {
		identity = filepath.Join(configDir, identity)
	}

	return &Env{
		Config:    cfg,
		ConfigDir: configDir,
		Store:     vault.NewStore(&vault.AgeEncryptor{IdentityFile: identity}),
		Log:       log,
	}
}

// Sources resolves the configured accounts file entries into vault
// sources, in configuration order.
func (e *Env) Sources() ([]vault.Source, error) {
	files, err := vault.ResolveAccountsFiles(e.Config.AccountsFiles, e.ConfigDir)
	if err != nil {
		return nil, err
	}

	sources := make([]vault.Source, len(files))
	for i, f := range files {
		sources[i] = vault.Source{Path: f}
	}
	return sources, nil
}

// FindAccount locates an account by exact name across the accounts files,
// returning the account together with the source that defines it.
func (e *Env) FindAccount(name string) (*accounts.Account, vault.Source, error) {
	if name == "" {
		return nil, vault.Source{}, fmt.Errorf("no account specified")
	}

	sources, err := e.Sources()
	if err != nil {
		return nil, vault.Source{}, err
	}

	for _, src := range sources {
		rs, err := e.Store.Read(src)
		if err != nil {
			return nil, vault.Source{}, err
		}
		if account, ok := rs.Accounts[name]; ok {
			return account, src, nil
		}
	}
	return nil, vault.Source{}, fmt.Errorf("%s: %w", name, qerrors.ErrAccountNotFound)
}
