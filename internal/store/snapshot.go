// Package store implements the durable JSON snapshot stores behind the
// relay: the append-only message log, the group catalog and the keyed OTP
// entry set. Each store owns one file under the data directory, loads it
// whole at construction and rewrites it whole on every mutation. A store
// serializes its own mutations through a single mutex so concurrent callers
// observe linearizable read-modify-write semantics; stores are independent
// of one another.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// writeSnapshot marshals v and atomically replaces the file at path. The
// write-then-rename keeps a crash from leaving a half-written snapshot
// behind.
func writeSnapshot(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating snapshot temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing snapshot temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// loadSnapshot reads the file at path into v. A missing file is not an
// error; it reports whether a snapshot was found.
func loadSnapshot(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading snapshot: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding snapshot %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
