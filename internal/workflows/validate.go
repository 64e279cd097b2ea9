package workflows

import (
	"errors"

	"github.com/quillsafe/quill/internal/editor"
	qerrors "github.com/quillsafe/quill/internal/errors"
	"github.com/quillsafe/quill/internal/vault"
)

// makeValidate builds the end-to-end validation used by edit
// transactions: persist the candidate, then re-read and re-parse it, so
// that what the user committed is exactly what the next invocation will
// load.
func makeValidate(env *Env, src vault.Source, recipients []string) editor.ValidateFunc {
	return func(candidate string) editor.ValidateResult {
		if err := env.Store.Save(src, candidate, recipients); err != nil {
			return classify(err)
		}
		if _, err := env.Store.Read(src); err != nil {
			return classify(err)
		}
		return editor.ValidateResult{}
	}
}

func classify(err error) editor.ValidateResult {
	var parseErr *qerrors.ParseError
	if errors.As(err, &parseErr) {
		return editor.ValidateResult{Parse: parseErr}
	}
	var storageErr *qerrors.StorageError
	if errors.As(err, &storageErr) {
		return editor.ValidateResult{Storage: storageErr}
	}
	// Anything unclassified is infrastructure trouble; treat it as
	// storage so the transaction rolls back rather than looping.
	return editor.ValidateResult{Storage: &qerrors.StorageError{Op: "validate", Err: err}}
}
