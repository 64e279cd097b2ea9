package workflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/quillsafe/quill/internal/audit"
	"github.com/quillsafe/quill/internal/editor"
	"github.com/quillsafe/quill/internal/vault"
)

// AddOptions configures the add workflow.
type AddOptions struct {
	// File selects the target accounts file by prefix when more than one
	// is configured. Empty means the first configured file.
	File string

	// Template overrides the built-in account template text.
	Template string

	// Editor overrides the external editor, for tests.
	Editor editor.Editor

	// Prompt overrides the retry question, for tests.
	Prompt func(string) bool
}

// AddResult reports the outcome of an add transaction.
type AddResult struct {
	Outcome  editor.Outcome
	File     string
	TempPath string
}

const accountTemplate = `# quill: Fill in the fields below, then save and quit.
# quill: Replace _NAME_ with the account name. Delete fields you don't need.
# quill: Values wrapped in <<double angle brackets>> are concealed on save.
[accounts._NAME_]
username = "_USERNAME_"
url = "_URL_"

[accounts._NAME_.secrets]
passcode = "<<_PASSCODE_>>"
`

// Add appends a new account to an accounts file through a transactional
// edit: the template is staged into a temp file, edited, post-processed,
// appended to the existing content, and the combined text must validate
// end-to-end before it replaces the original.
func Add(ctx context.Context, env *Env, opts AddOptions) (*AddResult, error) {
	_ = ctx

	src, err := selectSource(env, opts.File)
	if err != nil {
		return nil, err
	}

	// The original must parse before we extend it; its recipient list
	// also governs how the new version is encrypted.
	rs, err := env.Store.Read(src)
	if err != nil {
		return nil, err
	}
	recipients := rs.Recipients
	if len(recipients) == 0 {
		recipients = env.Config.Recipients
	}

	origText, err := env.Store.ReadText(src)
	if err != nil {
		return nil, err
	}
	origText = strings.TrimRight(origText, "\n")

	template := opts.Template
	if template == "" {
		template = accountTemplate
	}

	// An encrypted source keeps its template staged encrypted too: the
	// edited text carries secrets before they are concealed.
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
		Seed:       template,
		Recipients: staging,
		Compose: func(edited string) string {
			return origText + "\n\n" + edited
		},
		Validate: makeValidate(env, src, recipients),
	})

	audit.Log(env.ConfigDir, audit.Entry{
		Operation: "add",
		File:      src.Path,
		Outcome:   outcomeName(result.Outcome),
	})

	if result.Err != nil {
		return &AddResult{Outcome: result.Outcome, File: src.Path, TempPath: result.TempPath}, result.Err
	}
	return &AddResult{Outcome: result.Outcome, File: src.Path, TempPath: result.TempPath}, nil
}

// selectSource picks the accounts file to mutate: the only one, the first
// one, or the unique prefix match when a prefix is given.
func selectSource(env *Env, prefix string) (vault.Source, error) {
	sources, err := env.Sources()
	if err != nil {
		return vault.Source{}, err
	}

	if prefix == "" {
		return sources[0], nil
	}

	var matches []vault.Source
	for _, src := range sources {
		if strings.HasPrefix(src.Path, prefix) || strings.Contains(src.Path, "/"+prefix) {
			matches = append(matches, src)
		}
	}
	switch len(matches) {
	case 0:
		return vault.Source{}, fmt.Errorf("no accounts file matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Path
		}
		return vault.Source{}, fmt.Errorf("%q is ambiguous, matches %s", prefix, strings.Join(names, ", "))
	}
}

func outcomeName(o editor.Outcome) string {
	switch o {
	case editor.Committed:
		return "committed"
	case editor.NoChange:
		return "no-change"
	default:
		return "rolled-back"
	}
}
