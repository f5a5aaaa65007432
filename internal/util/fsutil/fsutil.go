// Package fsutil holds small file system helpers shared by the writers of
// the output tree.
package fsutil

import "os"

// TempSuffix is appended to the target name while a file is being written.
const TempSuffix = ".tmp"

// WriteFileAtomic writes data to a sibling temporary file and renames it
// over path, so readers see either the old or the new content. The
// temporary file is removed when the rename fails.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + TempSuffix
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
