package vault

import (
	"os"

	qerrors "github.com/quillsafe/quill/internal/errors"
)

// BackupSuffix tags the point-in-time copy taken before a mutation.
const BackupSuffix = ".saved"

// Backup is a byte-for-byte duplicate of a source taken before any write.
// It is consumed either by Restore (failed edit) or Discard (committed
// edit). A stale backup from a previous run is overwritten, keeping at
// most one per source.
type Backup struct {
	Source Source
	Path   string
}

// Backup duplicates the source's current bytes to path+suffix. An empty
// suffix uses the default.
func (s *Store) Backup(src Source, suffix string) (*Backup, error) {
	if suffix == "" {
		suffix = BackupSuffix
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, &qerrors.StorageError{Op: "read for backup", Path: src.Path, Err: err}
	}

	backupPath := src.Path + suffix
	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		return nil, &qerrors.StorageError{Op: "write backup", Path: backupPath, Err: err}
	}

	return &Backup{Source: src, Path: backupPath}, nil
}

// Restore copies the backup's bytes back over the source and removes the
// backup. Restoring a backup that no longer exists is a no-op, so callers
// can restore unconditionally on their failure paths.
func (s *Store) Restore(b *Backup) error {
	data, err := os.ReadFile(b.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &qerrors.StorageError{Op: "read backup", Path: b.Path, Err: err}
	}

	if err := os.WriteFile(b.Source.Path, data, 0600); err != nil {
		return &qerrors.StorageError{Op: "restore", Path: b.Source.Path, Err: err}
	}
	_ = os.Remove(b.Path)
	return nil
}

// Discard removes the backup after a committed edit.
func (b *Backup) Discard() error {
	err := os.Remove(b.Path)
	if err != nil && !os.IsNotExist(err) {
		return &qerrors.StorageError{Op: "discard backup", Path: b.Path, Err: err}
	}
	return nil
}
