package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filippo.io/age"

	"github.com/quillsafe/quill/internal/accounts"
	qerrors "github.com/quillsafe/quill/internal/errors"
	logger "github.com/quillsafe/quill/internal/logging"
	"github.com/quillsafe/quill/internal/vault"
)

// scriptedEditor plays back a fixed sequence of edits, one per Open call.
type scriptedEditor struct {
	edits []string
	calls int
}

func (e *scriptedEditor) Open(path string) error {
	if e.calls >= len(e.edits) {
		return nil // leave the file as-is
	}
	text := e.edits[e.calls]
	e.calls++
	if text == "" {
		return nil
	}
	return os.WriteFile(path, []byte(text), 0600)
}

const validAccounts = `[accounts.bank]
username = "alice"

[accounts.bank.secrets]
passcode = "hunter2"
`

const brokenAccounts = `[accounts.bank
username = oops
`

func newTestTransaction(t *testing.T, edits ...string) (*Transaction, vault.Source, *scriptedEditor) {
	t.Helper()
	dir := t.TempDir()
	src := vault.Source{Path: filepath.Join(dir, "accounts.toml")}
	if err := os.WriteFile(src.Path, []byte(validAccounts), 0600); err != nil {
		t.Fatalf("Failed to create accounts file: %v", err)
	}

	ed := &scriptedEditor{edits: edits}
	tx := &Transaction{
		Store:   vault.NewStore(nil),
		Editor:  ed,
		Log:     logger.Logger{},
		Prompt:  func(string) bool { return false },
		TempDir: t.TempDir(),
	}
	return tx, src, ed
}

// saveAndParse mirrors the production validation pipeline: persist the
// candidate first, then check it parses. A parse failure therefore leaves
// the bad bytes on disk, which is exactly what rollback must undo.
func saveAndParse(store *vault.Store, src vault.Source, recipients []string) ValidateFunc {
	return func(candidate string) ValidateResult {
		if err := store.Save(src, candidate, recipients); err != nil {
			return ValidateResult{Storage: err.(*qerrors.StorageError)}
		}
		if _, err := accounts.Parse(candidate); err != nil {
			return ValidateResult{Parse: &qerrors.ParseError{Path: src.Path, Err: err}}
		}
		return ValidateResult{}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func tempFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "quill-*.toml"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	return matches
}

func TestTransactionCommit(t *testing.T) {
	edited := validAccounts + `
[accounts.email.secrets]
passcode = "s3cret"
`
	tx, src, _ := newTestTransaction(t, edited)

	result := tx.Run(Request{
		Source:   src,
		Seed:     validAccounts,
		Validate: saveAndParse(tx.Store, src, nil),
	})

	if result.Outcome != Committed {
		t.Fatalf("Expected Committed, got %v (err: %v)", result.Outcome, result.Err)
	}
	if got := readFile(t, src.Path); got != edited {
		t.Errorf("Expected committed content on disk, got:\n%s", got)
	}
	if _, err := os.Stat(src.Path + vault.BackupSuffix); !os.IsNotExist(err) {
		t.Error("Expected backup to be discarded after commit")
	}
	if left := tempFiles(t, tx.TempDir); len(left) != 0 {
		t.Errorf("Expected temp file to be removed after commit, found %v", left)
	}
}

func TestTransactionRollbackRestoresOriginalBytes(t *testing.T) {
	tx, src, _ := newTestTransaction(t, brokenAccounts)

	result := tx.Run(Request{
		Source:   src,
		Seed:     validAccounts,
		Validate: saveAndParse(tx.Store, src, nil),
	})

	if result.Outcome != RolledBack {
		t.Fatalf("Expected RolledBack, got %v", result.Outcome)
	}
	if !qerrors.IsParseError(result.Err) {
		t.Errorf("Expected ParseError cause, got %v", result.Err)
	}

	// The source must be byte-identical to its pre-edit state.
	if got := readFile(t, src.Path); got != validAccounts {
		t.Errorf("Expected original bytes restored, got:\n%s", got)
	}
	if _, err := os.Stat(src.Path + vault.BackupSuffix); !os.IsNotExist(err) {
		t.Error("Expected backup to be consumed by restore")
	}

	// The user's edits survive in the retained temp file.
	if result.TempPath == "" {
		t.Fatal("Expected TempPath to be reported on rollback")
	}
	if got := readFile(t, result.TempPath); got != brokenAccounts {
		t.Errorf("Expected temp file to hold the rejected edit, got:\n%s", got)
	}
}

func TestTransactionRetryThenCommit(t *testing.T) {
	tx, src, ed := newTestTransaction(t, brokenAccounts, validAccounts+`color = "blue"`+"\n")

	prompts := 0
	tx.Prompt = func(string) bool {
		prompts++
		return true
	}

	result := tx.Run(Request{
		Source:   src,
		Seed:     validAccounts,
		Validate: saveAndParse(tx.Store, src, nil),
	})

	if result.Outcome != Committed {
		t.Fatalf("Expected Committed after retry, got %v (err: %v)", result.Outcome, result.Err)
	}
	if prompts != 1 {
		t.Errorf("Expected 1 retry prompt, got %d", prompts)
	}
	if ed.calls != 2 {
		t.Errorf("Expected editor to be opened twice, got %d", ed.calls)
	}
}

func TestTransactionStorageErrorSkipsPrompt(t *testing.T) {
	tx, src, _ := newTestTransaction(t, brokenAccounts)

	prompted := false
	tx.Prompt = func(string) bool {
		prompted = true
		return true
	}

	result := tx.Run(Request{
		Source: src,
		Seed:   validAccounts,
		Validate: func(string) ValidateResult {
			return ValidateResult{Storage: &qerrors.StorageError{Op: "write", Path: src.Path, Err: os.ErrPermission}}
		},
	})

	if result.Outcome != RolledBack {
		t.Fatalf("Expected RolledBack, got %v", result.Outcome)
	}
	if prompted {
		t.Error("Expected no retry prompt on a storage failure")
	}
	if got := readFile(t, src.Path); got != validAccounts {
		t.Errorf("Expected original bytes restored, got:\n%s", got)
	}
}

func TestTransactionUnchangedEditTouchesNothing(t *testing.T) {
	tx, src, _ := newTestTransaction(t) // editor leaves the seed alone

	validated := false
	result := tx.Run(Request{
		Source: src,
		Seed:   validAccounts,
		Validate: func(string) ValidateResult {
			validated = true
			return ValidateResult{}
		},
	})

	if result.Outcome != NoChange {
		t.Fatalf("Expected NoChange, got %v", result.Outcome)
	}
	if validated {
		t.Error("Expected no validation for an unchanged edit")
	}
	if got := readFile(t, src.Path); got != validAccounts {
		t.Errorf("Expected source untouched, got:\n%s", got)
	}
	if left := tempFiles(t, tx.TempDir); len(left) != 0 {
		t.Errorf("Expected temp file to be removed, found %v", left)
	}
}

func TestTransactionEmptyEditIsNoChange(t *testing.T) {
	tx, src, _ := newTestTransaction(t, "\n\n   \n")

	result := tx.Run(Request{
		Source: src,
		Seed:   validAccounts,
		Validate: func(string) ValidateResult {
			t.Fatal("Validation must not run for an emptied edit")
			return ValidateResult{}
		},
	})

	if result.Outcome != NoChange {
		t.Fatalf("Expected NoChange, got %v", result.Outcome)
	}
	if got := readFile(t, src.Path); got != validAccounts {
		t.Errorf("Expected source untouched, got:\n%s", got)
	}
}

func TestTransactionRetryThenQuitUnchangedRevalidates(t *testing.T) {
	// One broken edit, then the editor is quit without further changes.
	tx, src, _ := newTestTransaction(t, brokenAccounts)

	prompts := 0
	tx.Prompt = func(string) bool {
		prompts++
		return prompts == 1
	}

	validations := 0
	underlying := saveAndParse(tx.Store, src, nil)
	result := tx.Run(Request{
		Source: src,
		Seed:   validAccounts,
		Validate: func(candidate string) ValidateResult {
			validations++
			return underlying(candidate)
		},
	})

	// Quitting without changes after a failed validation is not a no-op:
	// the rejected candidate is still on disk, so it must be re-validated
	// and, once the retry is declined, rolled back.
	if result.Outcome != RolledBack {
		t.Fatalf("Expected RolledBack, got %v (err: %v)", result.Outcome, result.Err)
	}
	if validations != 2 {
		t.Errorf("Expected unchanged text to be re-validated, got %d validations", validations)
	}
	if prompts != 2 {
		t.Errorf("Expected a second retry prompt, got %d", prompts)
	}
	if got := readFile(t, src.Path); got != validAccounts {
		t.Errorf("Expected original bytes restored, got:\n%s", got)
	}
	if result.TempPath == "" {
		t.Fatal("Expected TempPath to be reported on rollback")
	}
	if got := readFile(t, result.TempPath); got != brokenAccounts {
		t.Errorf("Expected temp file to hold the rejected edit, got:\n%s", got)
	}
}

func TestTransactionDeclineKeepsLatestCandidate(t *testing.T) {
	secondBroken := "[accounts.bank]]\nstill = broken\n"
	tx, src, _ := newTestTransaction(t, brokenAccounts, secondBroken)

	prompts := 0
	tx.Prompt = func(string) bool {
		prompts++
		return prompts == 1
	}

	result := tx.Run(Request{
		Source:   src,
		Seed:     validAccounts,
		Validate: saveAndParse(tx.Store, src, nil),
	})

	if result.Outcome != RolledBack {
		t.Fatalf("Expected RolledBack, got %v", result.Outcome)
	}
	if got := readFile(t, src.Path); got != validAccounts {
		t.Errorf("Expected original bytes restored, got:\n%s", got)
	}
	// The retained temp file holds the user's most recent attempt, not
	// the first one.
	if got := readFile(t, result.TempPath); got != secondBroken {
		t.Errorf("Expected latest candidate in temp file, got:\n%s", got)
	}
}

// encryptingEditor captures the staged bytes as the editor would see them,
// then writes its edit back in the source's encrypted form.
type encryptingEditor struct {
	store      *vault.Store
	recipients []string
	edit       string
	staged     []byte
}

func (e *encryptingEditor) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	e.staged = data
	if e.edit == "" {
		return nil
	}
	return e.store.Save(vault.Source{Path: path}, e.edit, e.recipients)
}

func TestTransactionStagesEncryptedTemp(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("Failed to generate identity: %v", err)
	}
	identityPath := filepath.Join(t.TempDir(), "identity.txt")
	if err := os.WriteFile(identityPath, []byte(identity.String()+"\n"), 0600); err != nil {
		t.Fatalf("Failed to write identity file: %v", err)
	}
	recipients := []string{identity.Recipient().String()}

	store := vault.NewStore(&vault.AgeEncryptor{IdentityFile: identityPath})
	src := vault.Source{Path: filepath.Join(t.TempDir(), "accounts.toml")}
	if err := store.Save(src, validAccounts, recipients); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	edited := validAccounts + `url = "https://bank.example"` + "\n"
	ed := &encryptingEditor{store: store, recipients: recipients, edit: edited}
	tx := &Transaction{
		Store:   store,
		Editor:  ed,
		Log:     logger.Logger{},
		Prompt:  func(string) bool { return false },
		TempDir: t.TempDir(),
	}

	result := tx.Run(Request{
		Source:     src,
		Seed:       validAccounts,
		Recipients: recipients,
		Validate:   saveAndParse(store, src, recipients),
	})

	if result.Outcome != Committed {
		t.Fatalf("Expected Committed, got %v (err: %v)", result.Outcome, result.Err)
	}

	// The editable temp file must never expose the decrypted text.
	if !vault.IsEncrypted(ed.staged) {
		t.Error("Expected the staged temp file to carry the age header")
	}
	if strings.Contains(string(ed.staged), "hunter2") {
		t.Errorf("Staged temp file leaked a secret:\n%s", ed.staged)
	}

	text, err := store.ReadText(src)
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if text != edited {
		t.Errorf("Expected committed edit, got:\n%s", text)
	}
}

func TestTransactionComposeReceivesPostProcessedText(t *testing.T) {
	edited := "# quill: instructions to strip\n" + `[accounts.extra.secrets]
passcode = <<visible>>
`
	tx, src, _ := newTestTransaction(t, edited)

	var composed string
	result := tx.Run(Request{
		Source: src,
		Seed:   "seed",
		Compose: func(text string) string {
			composed = text
			return validAccounts
		},
		Validate: saveAndParse(tx.Store, src, nil),
	})

	if result.Outcome != Committed {
		t.Fatalf("Expected Committed, got %v (err: %v)", result.Outcome, result.Err)
	}
	if composed == "" {
		t.Fatal("Expected Compose to be called")
	}
	if want := "passcode = " + accounts.Conceal("visible") + "\n"; composed != "[accounts.extra.secrets]\n"+want {
		t.Errorf("Expected instructions stripped and span concealed, got:\n%s", composed)
	}
}
