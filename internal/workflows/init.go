package workflows

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"filippo.io/age"

	"github.com/quillsafe/quill/internal/accounts"
	"github.com/quillsafe/quill/internal/configs"
	"github.com/quillsafe/quill/internal/derive"
	logger "github.com/quillsafe/quill/internal/logging"
	"github.com/quillsafe/quill/internal/vault"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// ConfigDir overrides the configuration directory, for tests.
	ConfigDir string

	// Plaintext skips identity generation and leaves the accounts file
	// unencrypted.
	Plaintext bool
}

// InitResult describes what init created.
type InitResult struct {
	ConfigPath   string
	AccountsPath string
	IdentityPath string
	Recipient    string
}

const initialAccountsTemplate = `# quill accounts file
%s
[accounts.example]
username = "your-login"
url = "https://example.com"

[accounts.example.generated.passcode]
length = 20
charset = "printable"
`

// Init creates the configuration directory, an age identity, a master
// seed, and an initial accounts file encrypted for the new identity.
func Init(ctx context.Context, log logger.Logger, opts InitOptions) (*InitResult, error) {
	_ = ctx

	dir := opts.ConfigDir
	if dir == "" {
		var err error
		dir, err = configs.Dir()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	accountsPath := filepath.Join(dir, configs.DefaultAccountsFileName)
	if _, err := os.Stat(accountsPath); err == nil {
		return nil, fmt.Errorf("already initialized: %s exists", accountsPath)
	}

	cfg := configs.Default()
	result := &InitResult{
		ConfigPath:   filepath.Join(dir, "config.toml"),
		AccountsPath: accountsPath,
	}

	var recipients []string
	if !opts.Plaintext {
		identity, err := age.GenerateX25519Identity()
		if err != nil {
			return nil, fmt.Errorf("generating identity: %w", err)
		}

		identityPath := filepath.Join(dir, "identity.txt")
		content := fmt.Sprintf("# public key: %s\n%s\n", identity.Recipient(), identity)
		if err := os.WriteFile(identityPath, []byte(content), 0600); err != nil {
			return nil, fmt.Errorf("writing identity file: %w", err)
		}

		cfg.IdentityFile = "identity.txt"
		cfg.Recipients = []string{identity.Recipient().String()}
		recipients = cfg.Recipients
		result.IdentityPath = identityPath
		result.Recipient = identity.Recipient().String()
	}

	if err := configs.Save(dir, cfg); err != nil {
		return nil, err
	}

	seed, err := randomSeed(64)
	if err != nil {
		return nil, err
	}

	header := fmt.Sprintf("master_seed = %q\n", accounts.Conceal(seed))
	text := fmt.Sprintf(initialAccountsTemplate, header)

	// Sanity-check the template before writing it.
	if _, err := accounts.Parse(text); err != nil {
		return nil, fmt.Errorf("initial accounts file is invalid: %w", err)
	}

	env := NewEnv(cfg, dir, log)
	if err := env.Store.Save(vault.Source{Path: accountsPath}, text, recipients); err != nil {
		return nil, err
	}

	log.Infof("Initialized quill in %s", dir)
	return result, nil
}

// randomSeed draws a random string from the printable charset. The seed
// is the root of every generated secret, so it uses the system CSPRNG
// rather than the deterministic derivation path.
func randomSeed(length int) (string, error) {
	charset, err := derive.Charset("printable")
	if err != nil {
		return "", err
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generating master seed: %w", err)
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}
