// Package dir holds small filesystem helpers shared by the key-management
// code and its tests.
package dir

import (
	"errors"
	"os"
)

// RemoveFile removes path, treating a missing file as success.
func RemoveFile(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
