package editor

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	qerrors "github.com/quillsafe/quill/internal/errors"
	logger "github.com/quillsafe/quill/internal/logging"
	"github.com/quillsafe/quill/internal/vault"
)

// Outcome classifies how an edit transaction ended.
type Outcome int

const (
	// Committed: the candidate validated and replaced the source.
	Committed Outcome = iota

	// NoChange: the user left the text empty or unchanged; nothing was
	// mutated, so neither commit nor rollback happened.
	NoChange

	// RolledBack: validation failed terminally and the source was
	// restored from its backup. The temp file with the user's edits is
	// retained and its path reported.
	RolledBack
)

// ValidateResult is the explicit outcome of one validation attempt.
// Exactly one pointer is set on failure; both nil means success.
type ValidateResult struct {
	Parse   *qerrors.ParseError
	Storage *qerrors.StorageError
}

func (r ValidateResult) OK() bool {
	return r.Parse == nil && r.Storage == nil
}

// ValidateFunc persists a candidate text end-to-end (save, then re-read)
// and reports the outcome.
type ValidateFunc func(candidate string) ValidateResult

// Request describes one edit transaction.
type Request struct {
	Source vault.Source

	// Seed is the initial text staged into the editable temp file.
	Seed string

	// Recipients, when non-empty, keeps the staged temp file encrypted
	// for the same recipients as the source, so decrypted account text
	// never sits in the temp directory in the clear. Empty stages
	// plaintext.
	Recipients []string

	// Compose maps the post-processed temp text to the full candidate
	// file content. Identity for whole-file edits; the add workflow
	// appends the new account to the existing file text here.
	Compose func(edited string) string

	// PostProcess transforms raw edited text before composition. Nil
	// means the standard strip-and-conceal pipeline.
	PostProcess func(string) string

	Validate ValidateFunc
}

// Result reports how the transaction ended. TempPath is set on rollback,
// pointing at the retained file holding the user's unsaved edits.
type Result struct {
	Outcome  Outcome
	TempPath string
	Err      error
}

// Transaction runs backup/edit/validate/commit-or-rollback cycles against
// account sources.
type Transaction struct {
	Store  *vault.Store
	Editor Editor
	Log    logger.Logger

	// Prompt asks the user a yes/no question, used for the validation
	// retry decision. Nil reads from stdin.
	Prompt func(question string) bool

	// TempDir overrides the staging directory, for tests.
	TempDir string
}

// Run executes one edit transaction. The retry loop is unbounded: parse
// failures are usually typos and the user's work must not be thrown away
// by an attempt limit. Only an explicit decline, or a storage failure,
// ends the loop without a commit.
func (t *Transaction) Run(req Request) Result {
	backup, err := t.Store.Backup(req.Source, vault.BackupSuffix)
	if err != nil {
		return Result{Outcome: RolledBack, Err: err}
	}

	tempPath, err := t.stageTempFile(req.Seed, req.Recipients)
	if err != nil {
		return Result{Outcome: RolledBack, Err: err}
	}
	tempSrc := vault.Source{Path: tempPath}

	compose := req.Compose
	if compose == nil {
		compose = func(s string) string { return s }
	}
	postProcess := req.PostProcess
	if postProcess == nil {
		postProcess = PostProcess
	}

	attempted := false
	for {
		if err := t.Editor.Open(tempPath); err != nil {
			return t.rollback(backup, tempPath, &qerrors.StorageError{Op: "open editor", Path: tempPath, Err: err})
		}

		text, err := t.Store.ReadText(tempSrc)
		if err != nil {
			return t.rollback(backup, tempPath, err)
		}

		// The no-op exit only exists before anything has been validated:
		// once a candidate has been persisted and rejected, "unchanged"
		// means the bad candidate is still on disk, so it must go back
		// through validation (and, failing that, the retry prompt).
		if !attempted && (strings.TrimSpace(text) == "" || text == req.Seed) {
			t.Log.Infof("Edit left %s unchanged", req.Source.Path)
			_ = os.Remove(tempPath)
			return Result{Outcome: NoChange}
		}

		candidate := compose(postProcess(text))

		result := req.Validate(candidate)
		attempted = true
		switch {
		case result.OK():
			_ = os.Remove(tempPath)
			if err := backup.Discard(); err != nil {
				t.Log.Warnf("Could not remove backup %s: %v", backup.Path, err)
			}
			return Result{Outcome: Committed}

		case result.Storage != nil:
			// Infrastructure failures are not fixed by retyping the
			// same edit; roll back without asking.
			return t.rollback(backup, tempPath, result.Storage)

		default:
			t.Log.Errorf("%v", result.Parse)
			if t.ask("Try again?") {
				continue
			}
			return t.rollback(backup, tempPath, result.Parse)
		}
	}
}

// rollback restores the source and deliberately keeps the temp file, so a
// failed session never costs the user their edits.
func (t *Transaction) rollback(backup *vault.Backup, tempPath string, cause error) Result {
	if err := t.Store.Restore(backup); err != nil {
		t.Log.Errorf("Restore failed: %v", err)
	}
	return Result{Outcome: RolledBack, TempPath: tempPath, Err: cause}
}

// stageTempFile writes the seed into the editable temp file, encrypted
// when the source's recipients are given so account text never lands in
// the temp directory unprotected.
func (t *Transaction) stageTempFile(seed string, recipients []string) (string, error) {
	dir := t.TempDir
	if dir == "" {
		dir = os.TempDir()
	}

	name := fmt.Sprintf("quill-%s.toml", uuid.New().String()[:8])
	if len(recipients) > 0 {
		name += ".age"
	}

	path := filepath.Join(dir, name)
	if err := t.Store.Save(vault.Source{Path: path}, seed, recipients); err != nil {
		return "", err
	}
	return path, nil
}

func (t *Transaction) ask(question string) bool {
	if t.Prompt != nil {
		return t.Prompt(question)
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
