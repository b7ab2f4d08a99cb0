package plan

import (
	"fmt"
	"os"
	"path/filepath"
)

// Marshaler is satisfied by both plan document types.
type Marshaler interface {
	Marshal() ([]byte, error)
}

// WriteFile atomically writes the argument document to path: the rendered
// bytes go to a temp file in the target directory which is then renamed
// into place, so a plan file is never observed half-written.
func WriteFile(path string, doc Marshaler) error {
	contents, err := doc.Marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temp plan file in %s: %v", dir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(contents); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}
