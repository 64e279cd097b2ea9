// Package workflows implements quill's operations independent of the
// CLI.
//
// Each workflow takes a context, the shared Env (configuration, vault
// store, logger), and an Options struct, and returns a Result struct
// describing what happened. Mutation workflows (add, edit) run through
// the transactional editor; disclosure workflows (value, credentials,
// values) resolve fields and hand them to a disclosure channel. Every
// operation appends a redacted entry to the audit log.
package workflows
