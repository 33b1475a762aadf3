// Package atomicfile replaces files through a temporary file and a rename,
// so readers never observe a partial write.
package atomicfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

// WriteJSON writes v as indented JSON to path, atomically.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return oops.
			Code("OUTPUT_WRITE_ERROR").
			With("path", path).
			Wrapf(err, "encoding %s", filepath.Base(path))
	}
	return WriteFile(path, append(data, '\n'))
}

// WriteFile replaces path with data through a temporary file in the same
// directory, creating the directory if needed.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return oops.
			Code("OUTPUT_WRITE_ERROR").
			With("path", dir).
			Wrapf(err, "creating output directory")
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return oops.
			Code("OUTPUT_WRITE_ERROR").
			With("path", dir).
			Wrapf(err, "creating temporary file")
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, writeErr := tempFile.Write(data); writeErr != nil {
		_ = tempFile.Close()
		return oops.
			Code("OUTPUT_WRITE_ERROR").
			With("path", tempPath).
			Wrapf(writeErr, "writing temporary file")
	}

	if closeErr := tempFile.Close(); closeErr != nil {
		return oops.
			Code("OUTPUT_WRITE_ERROR").
			With("path", tempPath).
			Wrapf(closeErr, "closing temporary file")
	}

	if renameErr := os.Rename(tempPath, path); renameErr != nil {
		return oops.
			Code("OUTPUT_WRITE_ERROR").
			With("from", tempPath).
			With("to", path).
			Wrapf(renameErr, "replacing %s", filepath.Base(path))
	}

	return nil
}
