package workflows

import (
	"context"

	"github.com/quillsafe/quill/internal/audit"
	"github.com/quillsafe/quill/internal/editor"
)

// EditOptions configures the edit workflow.
type EditOptions struct {
	// Account names the account whose file is edited.
	Account string

	// Editor overrides the external editor, for tests.
	Editor editor.Editor

	// Prompt overrides the retry question, for tests.
	Prompt func(string) bool
}

// EditResult reports the outcome of an edit transaction.
type EditResult struct {
	Outcome  editor.Outcome
	File     string
	TempPath string
}

// Edit opens the accounts file defining the named account in the external
// editor and commits the result only if it validates. A declined retry
// restores the pre-edit bytes and keeps the temp file with the user's
// edits.
func Edit(ctx context.Context, env *Env, opts EditOptions) (*EditResult, error) {
	_ = ctx

	account, src, err := env.FindAccount(opts.Account)
	if err != nil {
		return nil, err
	}

	rs, err := env.Store.Read(src)
	if err != nil {
		return nil, err
	}
	recipients := rs.Recipients
	if len(recipients) == 0 {
		recipients = env.Config.Recipients
	}

	seed, err := env.Store.ReadText(src)
	if err != nil {
		return nil, err
	}

	// An encrypted source stays encrypted in the editable temp file.
	var staging []string
	if env.Store.IsEncryptedSource(src) {
		staging = recipients
	}

	tx := &editor.Transaction{
		Store:  env.Store,
		Editor: opts.Editor,
		Log:    env.Log,
		Prompt: opts.Prompt,
	}
	if tx.Editor == nil {
		tx.Editor = editor.ExecEditor{Command: env.Config.EditorCommand()}
	}

	result := tx.Run(editor.Request{
		Source:     src,
		Seed:       seed,
		Recipients: staging,
		Validate:   makeValidate(env, src, recipients),
	})

	audit.Log(env.ConfigDir, audit.Entry{
		Operation: "edit",
		Account:   account.Name,
		File:      src.Path,
		Outcome:   outcomeName(result.Outcome),
	})

	res := &EditResult{Outcome: result.Outcome, File: src.Path, TempPath: result.TempPath}
	if result.Err != nil {
		return res, result.Err
	}
	return res, nil
}
