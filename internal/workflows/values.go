package workflows

import (
	"context"
)

// ValuesOptions configures the values workflow.
type ValuesOptions struct {
	Account string
}

// ValuesResult holds the redacted field listing: secrets appear as
// <name> placeholders, so the result is safe to print and to log.
type ValuesResult struct {
	Account string
	Lines   []string
}

// Values summarizes every field of an account with secrets redacted.
func Values(ctx context.Context, env *Env, opts ValuesOptions) (*ValuesResult, error) {
	_ = ctx

	account, _, err := env.FindAccount(opts.Account)
	if err != nil {
		return nil, err
	}

	return &ValuesResult{Account: account.Name, Lines: account.Summary()}, nil
}
