package workflows

import (
	"context"
	"strings"

	"github.com/quillsafe/quill/internal/accounts"
	"github.com/quillsafe/quill/internal/audit"
	"github.com/quillsafe/quill/internal/writer"
)

// ValueOptions configures the value workflow.
type ValueOptions struct {
	// Account names the account to disclose from.
	Account string

	// Field is a field reference ("passcode", "questions.0"), a display
	// script ("{username}: {passcode}"), or empty for the account's
	// default field.
	Field string

	// Channel selects the disclosure channel. The TTY channel is the
	// default; stdout must be an explicit opt-in.
	Channel writer.Channel

	// Autotype types the value into the focused window instead of
	// displaying it. Field is then interpreted as an autotype script.
	Autotype bool

	// Writer overrides the channel writer, for tests.
	Writer writer.Writer

	// Keyboard overrides the autotype writer, for tests.
	Keyboard *writer.KeyboardWriter
}

// ValueResult reports what was disclosed (labels only, never values).
type ValueResult struct {
	Account    string
	Label      string
	Channel    string
	Transcript string
}

// Value resolves a field on an account and discloses it through the
// selected channel.
func Value(ctx context.Context, env *Env, opts ValueOptions) (*ValueResult, error) {
	_ = ctx

	account, _, err := env.FindAccount(opts.Account)
	if err != nil {
		return nil, err
	}

	defaultField := account.DefaultField(env.Config.CredentialSecrets, env.Config.DefaultField)

	if opts.Autotype {
		kw := opts.Keyboard
		if kw == nil {
			kw = writer.NewKeyboardWriter(env.Config, env.Log)
		}
		transcript, err := kw.RunScript(account, opts.Field, defaultField)
		if err != nil {
			return nil, err
		}
		result := &ValueResult{Account: account.Name, Channel: "keyboard", Transcript: transcript}
		audit.Log(env.ConfigDir, audit.Entry{
			Operation:  "value",
			Account:    account.Name,
			Channel:    result.Channel,
			Transcript: transcript,
		})
		return result, nil
	}

	field := opts.Field
	if field == "" {
		field = defaultField
	}

	var secret accounts.Secret
	if strings.Contains(field, "{") {
		secret, err = accounts.ResolveScript(account, field)
	} else {
		secret, err = account.GetField(field)
	}
	if err != nil {
		return nil, err
	}

	ch := opts.Channel
	if ch == "" {
		ch = writer.ChannelTTY
	}

	w := opts.Writer
	if w == nil {
		w, err = writer.ForChannel(ch, env.Config, env.Log)
		if err != nil {
			return nil, err
		}
	}

	if err := w.Display(secret); err != nil {
		return nil, err
	}

	audit.Log(env.ConfigDir, audit.Entry{
		Operation: "value",
		Account:   account.Name,
		Field:     secret.Label,
		Channel:   string(ch),
	})
	return &ValueResult{Account: account.Name, Label: secret.Label, Channel: string(ch)}, nil
}
