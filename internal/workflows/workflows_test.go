package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"filippo.io/age"

	"github.com/quillsafe/quill/internal/accounts"
	"github.com/quillsafe/quill/internal/audit"
	"github.com/quillsafe/quill/internal/autotype"
	"github.com/quillsafe/quill/internal/configs"
	"github.com/quillsafe/quill/internal/editor"
	qerrors "github.com/quillsafe/quill/internal/errors"
	logger "github.com/quillsafe/quill/internal/logging"
	"github.com/quillsafe/quill/internal/vault"
	"github.com/quillsafe/quill/internal/writer"
)

const testAccountsFile = `[accounts.bank]
username = "alice"

[accounts.bank.secrets]
passcode = "hunter2"

[accounts.email]
email = "alice@example.com"

[accounts.email.secrets]
password = "letmein"
`

// fakeEditor plays back one scripted edit per Open call.
type fakeEditor struct {
	edits []string
	calls int
}

func (e *fakeEditor) Open(path string) error {
	if e.calls >= len(e.edits) {
		return nil
	}
	text := e.edits[e.calls]
	e.calls++
	if text == "" {
		return nil
	}
	return os.WriteFile(path, []byte(text), 0600)
}

// recordingSink captures autotyped keysyms instead of sending them.
type recordingSink struct {
	keysyms []string
}

func (s *recordingSink) Type(syms []string) error {
	s.keysyms = append(s.keysyms, syms...)
	return nil
}

func newTestKeyboard(sink *recordingSink) *writer.KeyboardWriter {
	return &writer.KeyboardWriter{
		Interp: &autotype.Interpreter{
			Sink:  sink,
			Log:   logger.Logger{},
			Sleep: func(time.Duration) {},
		},
	}
}

// captureWriter records every disclosed secret instead of displaying it.
type captureWriter struct {
	secrets []accounts.Secret
}

func (w *captureWriter) Display(s accounts.Secret) error {
	w.secrets = append(w.secrets, s)
	return nil
}

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "accounts.toml"), []byte(testAccountsFile), 0600); err != nil {
		t.Fatalf("Failed to write accounts file: %v", err)
	}

	return NewEnv(configs.Default(), dir, logger.Logger{})
}

func accountsPath(env *Env) string {
	return filepath.Join(env.ConfigDir, "accounts.toml")
}

func TestInitCreatesEncryptedSetup(t *testing.T) {
	dir := t.TempDir()
	log := logger.Logger{}

	result, err := Init(context.Background(), log, InitOptions{ConfigDir: dir})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if result.Recipient == "" || !strings.HasPrefix(result.Recipient, "age1") {
		t.Errorf("Expected an age recipient, got %q", result.Recipient)
	}
	for _, path := range []string{result.ConfigPath, result.AccountsPath, result.IdentityPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected %s to exist: %v", path, err)
		}
	}

	// The accounts file must be encrypted on disk but readable through
	// the configured identity.
	data, err := os.ReadFile(result.AccountsPath)
	if err != nil {
		t.Fatalf("Failed to read accounts file: %v", err)
	}
	if !strings.HasPrefix(string(data), "age-encryption.org/v1") {
		t.Error("Expected accounts file to carry the age header")
	}

	cfg, err := configs.Load(dir)
	if err != nil {
		t.Fatalf("Load config failed: %v", err)
	}
	env := NewEnv(cfg, dir, log)
	account, _, err := env.FindAccount("example")
	if err != nil {
		t.Fatalf("FindAccount failed: %v", err)
	}

	// The template's generated passcode resolves against the new seed.
	secret, err := account.GetField("passcode")
	if err != nil {
		t.Fatalf("GetField failed: %v", err)
	}
	if len(secret.Value) != 20 || !secret.IsSecret {
		t.Errorf("Expected a 20-character generated secret, got %q", secret.Value)
	}
}

func TestInitPlaintext(t *testing.T) {
	dir := t.TempDir()

	result, err := Init(context.Background(), logger.Logger{}, InitOptions{ConfigDir: dir, Plaintext: true})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if result.IdentityPath != "" || result.Recipient != "" {
		t.Errorf("Expected no identity in plaintext mode, got %+v", result)
	}

	data, err := os.ReadFile(result.AccountsPath)
	if err != nil {
		t.Fatalf("Failed to read accounts file: %v", err)
	}
	if !strings.Contains(string(data), "[accounts.example]") {
		t.Error("Expected plaintext accounts file on disk")
	}
}

func TestInitRefusesSecondRun(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(context.Background(), logger.Logger{}, InitOptions{ConfigDir: dir, Plaintext: true}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := Init(context.Background(), logger.Logger{}, InitOptions{ConfigDir: dir, Plaintext: true}); err == nil {
		t.Fatal("Expected second init to refuse")
	}
}

func TestAddCommitsNewAccount(t *testing.T) {
	env := newTestEnv(t)

	edited := `# quill: leftover instructions are stripped
[accounts.forum]
username = "alice"

[accounts.forum.secrets]
passcode = "<<tr0ub4dor>>"
`
	result, err := Add(context.Background(), env, AddOptions{
		Editor: &fakeEditor{edits: []string{edited}},
		Prompt: func(string) bool { return false },
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if result.Outcome != editor.Committed {
		t.Fatalf("Expected Committed, got %v", result.Outcome)
	}

	data, err := os.ReadFile(accountsPath(env))
	if err != nil {
		t.Fatalf("Failed to read accounts file: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, "[accounts.bank]") {
		t.Error("Expected existing accounts preserved")
	}
	if !strings.Contains(text, "[accounts.forum]") {
		t.Error("Expected new account appended")
	}
	if strings.Contains(text, "tr0ub4dor") {
		t.Error("Expected the marked secret concealed on disk")
	}
	if strings.Contains(text, "# quill:") {
		t.Error("Expected template instructions stripped")
	}

	// The concealed value still resolves.
	account, _, err := env.FindAccount("forum")
	if err != nil {
		t.Fatalf("FindAccount failed: %v", err)
	}
	secret, err := account.GetField("passcode")
	if err != nil {
		t.Fatalf("GetField failed: %v", err)
	}
	if secret.Value != "tr0ub4dor" {
		t.Errorf("Expected revealed secret, got %q", secret.Value)
	}
}

func TestAddRollbackRestoresFileAndKeepsEdits(t *testing.T) {
	env := newTestEnv(t)

	broken := "[accounts.broken\nusername = oops\n"
	result, err := Add(context.Background(), env, AddOptions{
		Editor: &fakeEditor{edits: []string{broken}},
		Prompt: func(string) bool { return false },
	})
	if err == nil {
		t.Fatal("Expected add to fail")
	}
	if result.Outcome != editor.RolledBack {
		t.Fatalf("Expected RolledBack, got %v", result.Outcome)
	}

	data, readErr := os.ReadFile(accountsPath(env))
	if readErr != nil {
		t.Fatalf("Failed to read accounts file: %v", readErr)
	}
	if string(data) != testAccountsFile {
		t.Errorf("Expected original bytes restored, got:\n%s", data)
	}

	if result.TempPath == "" {
		t.Fatal("Expected retained temp path")
	}
	saved, readErr := os.ReadFile(result.TempPath)
	if readErr != nil {
		t.Fatalf("Failed to read temp file: %v", readErr)
	}
	if string(saved) != broken {
		t.Errorf("Expected user's edits retained, got:\n%s", saved)
	}
}

func TestEditRetryThenCommit(t *testing.T) {
	env := newTestEnv(t)

	broken := "[accounts.bank\n"
	fixed := strings.Replace(testAccountsFile, `username = "alice"`, `username = "alice2"`, 1)

	prompts := 0
	result, err := Edit(context.Background(), env, EditOptions{
		Account: "bank",
		Editor:  &fakeEditor{edits: []string{broken, fixed}},
		Prompt: func(string) bool {
			prompts++
			return true
		},
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if result.Outcome != editor.Committed {
		t.Fatalf("Expected Committed, got %v", result.Outcome)
	}
	if prompts != 1 {
		t.Errorf("Expected one retry prompt, got %d", prompts)
	}

	account, _, err := env.FindAccount("bank")
	if err != nil {
		t.Fatalf("FindAccount failed: %v", err)
	}
	s, err := account.GetField("username")
	if err != nil {
		t.Fatalf("GetField failed: %v", err)
	}
	if s.Value != "alice2" {
		t.Errorf("Expected committed edit, got username %q", s.Value)
	}
}

// spyEditor records the staged file's raw bytes and leaves it unchanged.
type spyEditor struct {
	path   string
	staged []byte
}

func (e *spyEditor) Open(path string) error {
	e.path = path
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	e.staged = data
	return nil
}

func newEncryptedEnv(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("Failed to generate identity: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "identity.txt"), []byte(identity.String()+"\n"), 0600); err != nil {
		t.Fatalf("Failed to write identity file: %v", err)
	}

	cfg := configs.Default()
	cfg.IdentityFile = "identity.txt"
	cfg.Recipients = []string{identity.Recipient().String()}

	env := NewEnv(cfg, dir, logger.Logger{})
	src := vault.Source{Path: filepath.Join(dir, "accounts.toml")}
	if err := env.Store.Save(src, testAccountsFile, cfg.Recipients); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return env
}

func TestEditEncryptedSourceStagesEncryptedTemp(t *testing.T) {
	env := newEncryptedEnv(t)
	spy := &spyEditor{}

	result, err := Edit(context.Background(), env, EditOptions{
		Account: "bank",
		Editor:  spy,
		Prompt:  func(string) bool { return false },
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if result.Outcome != editor.NoChange {
		t.Fatalf("Expected NoChange, got %v", result.Outcome)
	}

	if !strings.HasSuffix(spy.path, ".age") {
		t.Errorf("Expected an encrypted temp file name, got %s", spy.path)
	}
	if !strings.HasPrefix(string(spy.staged), "age-encryption.org/v1") {
		t.Error("Expected the staged temp file to carry the age header")
	}
	if strings.Contains(string(spy.staged), "hunter2") {
		t.Errorf("Staged temp file leaked a secret:\n%s", spy.staged)
	}
}

func TestEditPlaintextSourceStagesPlaintext(t *testing.T) {
	env := newTestEnv(t)
	spy := &spyEditor{}

	result, err := Edit(context.Background(), env, EditOptions{
		Account: "bank",
		Editor:  spy,
		Prompt:  func(string) bool { return false },
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if result.Outcome != editor.NoChange {
		t.Fatalf("Expected NoChange, got %v", result.Outcome)
	}
	if strings.HasSuffix(spy.path, ".age") {
		t.Errorf("Expected a plaintext temp file for a plaintext source, got %s", spy.path)
	}
	if string(spy.staged) != testAccountsFile {
		t.Errorf("Expected the source text staged verbatim, got:\n%s", spy.staged)
	}
}

func TestEditUnknownAccount(t *testing.T) {
	env := newTestEnv(t)

	_, err := Edit(context.Background(), env, EditOptions{
		Account: "nonsense",
		Editor:  &fakeEditor{},
	})
	if !errors.Is(err, qerrors.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestValueDefaultField(t *testing.T) {
	env := newTestEnv(t)
	capture := &captureWriter{}

	result, err := Value(context.Background(), env, ValueOptions{
		Account: "bank",
		Writer:  capture,
	})
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	if len(capture.secrets) != 1 || capture.secrets[0].Value != "hunter2" {
		t.Fatalf("Expected passcode disclosed, got %v", capture.secrets)
	}
	if result.Label != "passcode" {
		t.Errorf("Expected label passcode, got %q", result.Label)
	}
}

func TestValueScriptField(t *testing.T) {
	env := newTestEnv(t)
	capture := &captureWriter{}

	result, err := Value(context.Background(), env, ValueOptions{
		Account: "bank",
		Field:   "{username}: {passcode}",
		Writer:  capture,
	})
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	if len(capture.secrets) != 1 || capture.secrets[0].Value != "alice: hunter2" {
		t.Fatalf("Expected resolved script disclosed, got %v", capture.secrets)
	}
	if !capture.secrets[0].IsSecret {
		t.Error("Expected script referencing a secret to be secret")
	}
	if strings.Contains(result.Label, "hunter2") {
		t.Errorf("Result label leaked the secret: %q", result.Label)
	}
}

func TestValueAuditNeverHoldsSecrets(t *testing.T) {
	env := newTestEnv(t)
	capture := &captureWriter{}

	if _, err := Value(context.Background(), env, ValueOptions{Account: "bank", Writer: capture}); err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	entries, err := audit.ReadEntries(env.ConfigDir)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected one audit entry, got %d", len(entries))
	}
	if entries[0].Field != "passcode" {
		t.Errorf("Expected field label in audit entry, got %+v", entries[0])
	}

	raw, err := os.ReadFile(filepath.Join(env.ConfigDir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	if strings.Contains(string(raw), "hunter2") {
		t.Errorf("Audit log leaked a secret value:\n%s", raw)
	}
}

func TestValueAutotypeRedactedTranscript(t *testing.T) {
	env := newTestEnv(t)
	sink := &recordingSink{}

	result, err := Value(context.Background(), env, ValueOptions{
		Account:  "bank",
		Field:    "{username}: {passcode}{return}",
		Autotype: true,
		Keyboard: newTestKeyboard(sink),
	})
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	if result.Transcript != "alice: <passcode>\n" {
		t.Errorf("Expected redacted transcript, got %q", result.Transcript)
	}
	if len(sink.keysyms) == 0 {
		t.Error("Expected keystrokes to be sent")
	}

	raw, err := os.ReadFile(filepath.Join(env.ConfigDir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	if strings.Contains(string(raw), "hunter2") {
		t.Errorf("Audit log leaked the typed secret:\n%s", raw)
	}
	if !strings.Contains(string(raw), "<passcode>") {
		t.Errorf("Expected redacted transcript in the audit log:\n%s", raw)
	}
}

func TestValueAutotypeDefaultScript(t *testing.T) {
	env := newTestEnv(t)
	sink := &recordingSink{}

	result, err := Value(context.Background(), env, ValueOptions{
		Account:  "bank",
		Autotype: true,
		Keyboard: newTestKeyboard(sink),
	})
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if result.Transcript != "<passcode>\n" {
		t.Errorf("Expected default script transcript, got %q", result.Transcript)
	}
}

func TestCredentialsTriesCandidatesInOrder(t *testing.T) {
	env := newTestEnv(t)
	capture := &captureWriter{}

	result, err := Credentials(context.Background(), env, CredentialsOptions{
		Account: "bank",
		Writer:  capture,
	})
	if err != nil {
		t.Fatalf("Credentials failed: %v", err)
	}

	if len(result.Fields) != 2 || result.Fields[0] != "username" || result.Fields[1] != "passcode" {
		t.Fatalf("Expected [username passcode], got %v", result.Fields)
	}
	if capture.secrets[0].Value != "alice" || capture.secrets[1].Value != "hunter2" {
		t.Errorf("Unexpected disclosed values: %v", capture.secrets)
	}
}

func TestCredentialsEmailFallback(t *testing.T) {
	env := newTestEnv(t)
	capture := &captureWriter{}

	result, err := Credentials(context.Background(), env, CredentialsOptions{
		Account: "email",
		Writer:  capture,
	})
	if err != nil {
		t.Fatalf("Credentials failed: %v", err)
	}
	if len(result.Fields) != 2 || result.Fields[0] != "email" || result.Fields[1] != "password" {
		t.Errorf("Expected [email password], got %v", result.Fields)
	}
}

func TestCredentialsNoneFound(t *testing.T) {
	dir := t.TempDir()
	content := "[accounts.odd]\nnote = \"nothing login-like here\"\n"
	if err := os.WriteFile(filepath.Join(dir, "accounts.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write accounts file: %v", err)
	}
	env := NewEnv(configs.Default(), dir, logger.Logger{})

	_, err := Credentials(context.Background(), env, CredentialsOptions{Account: "odd", Writer: &captureWriter{}})
	if !errors.Is(err, qerrors.ErrNoCredentials) {
		t.Errorf("Expected ErrNoCredentials, got %v", err)
	}
}

func TestValuesRedactsSecrets(t *testing.T) {
	env := newTestEnv(t)

	result, err := Values(context.Background(), env, ValuesOptions{Account: "bank"})
	if err != nil {
		t.Fatalf("Values failed: %v", err)
	}

	joined := strings.Join(result.Lines, "\n")
	if strings.Contains(joined, "hunter2") {
		t.Errorf("Values leaked a secret:\n%s", joined)
	}
	if !strings.Contains(joined, "passcode: <passcode>") {
		t.Errorf("Expected redacted passcode line, got:\n%s", joined)
	}
}
