package workflows

import (
	"context"

	"github.com/quillsafe/quill/internal/audit"
	qerrors "github.com/quillsafe/quill/internal/errors"
	"github.com/quillsafe/quill/internal/writer"
)

// CredentialsOptions configures the credentials workflow.
type CredentialsOptions struct {
	Account string

	// Writer overrides the channel writer, for tests.
	Writer writer.Writer
}

// CredentialsResult lists the field labels that were disclosed.
type CredentialsResult struct {
	Account string
	Fields  []string
}

// Credentials discloses an account's login pair: its identifier and its
// secret. The account's explicit credentials list wins; otherwise the
// configured candidate fields are tried in order. Values are shown one
// at a time on the terminal, each secret for its own display window.
func Credentials(ctx context.Context, env *Env, opts CredentialsOptions) (*CredentialsResult, error) {
	_ = ctx

	account, _, err := env.FindAccount(opts.Account)
	if err != nil {
		return nil, err
	}

	fields := account.Credentials
	if len(fields) == 0 {
		for _, candidate := range env.Config.CredentialIDs {
			if account.HasField(candidate) {
				fields = append(fields, candidate)
				break
			}
		}
		for _, candidate := range env.Config.CredentialSecrets {
			if account.HasField(candidate) {
				fields = append(fields, candidate)
				break
			}
		}
	}
	if len(fields) == 0 {
		return nil, qerrors.ErrNoCredentials
	}

	w := opts.Writer
	if w == nil {
		w, err = writer.ForChannel(writer.ChannelTTY, env.Config, env.Log)
		if err != nil {
			return nil, err
		}
	}

	disclosed := make([]string, 0, len(fields))
	for _, field := range fields {
		secret, err := account.GetField(field)
		if err != nil {
			return nil, err
		}
		if err := w.Display(secret); err != nil {
			return nil, err
		}
		disclosed = append(disclosed, secret.Label)
	}

	audit.Log(env.ConfigDir, audit.Entry{
		Operation: "credentials",
		Account:   account.Name,
		Channel:   string(writer.ChannelTTY),
	})
	return &CredentialsResult{Account: account.Name, Fields: disclosed}, nil
}
