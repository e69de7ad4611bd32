package site

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/venlacy0/venblog/internal/foundation/errors"
)

// VendorDir holds third-party assets copied next to the generated site.
const VendorDir = "vendor"

// Clean removes generated output below root: posts/*.html, index.html and
// the vendor directory. It returns the removed paths relative to root.
// Missing files are skipped.
func Clean(root string) ([]string, error) {
	var removed []string
	remove := func(rel string, all bool) error {
		abs := filepath.Join(root, rel)
		if _, err := os.Lstat(abs); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		var err error
		if all {
			err = os.RemoveAll(abs)
		} else {
			err = os.Remove(abs)
		}
		if err != nil {
			return err
		}
		removed = append(removed, filepath.ToSlash(rel))
		return nil
	}

	entries, err := os.ReadDir(filepath.Join(root, PostsDir))
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return removed, errors.FileSystemError("cannot read posts directory").WithCause(err).Build()
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".html") {
			continue
		}
		if err := remove(filepath.Join(PostsDir, e.Name()), false); err != nil {
			return removed, errors.FileSystemError("cannot remove generated page").WithCause(err).Build()
		}
	}

	if err := remove(IndexFile, false); err != nil {
		return removed, errors.FileSystemError("cannot remove index page").WithCause(err).Build()
	}
	if err := remove(VendorDir, true); err != nil {
		return removed, errors.FileSystemError("cannot remove vendor directory").WithCause(err).Build()
	}
	return removed, nil
}
