package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-pdftour/internal/fileutil"
)

// WriteSamples writes every sample of l and every generated image into dir,
// creating it if needed. Existing files are kept unless overwrite is set.
// It returns the paths written.
func WriteSamples(dir string, l Loader, overwrite bool) ([]string, error) {
	names, err := l.Names()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, fileutil.DirPerm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}

	var written []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		if !overwrite && fileutil.FileExists(path) {
			continue
		}
		content, err := l.Load(name)
		if err != nil {
			return written, err
		}
		if err := writeFile(path, content); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	for _, spec := range Images {
		path := filepath.Join(dir, filepath.FromSlash(spec.Name))
		if !overwrite && fileutil.FileExists(path) {
			continue
		}
		if err := writeImage(path, spec); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// EnsureImage returns the path of the named image under dir, generating the
// file first when it is missing.
func EnsureImage(dir, name string) (string, error) {
	spec, ok := LookupImage(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrSampleNotFound, name)
	}
	path := filepath.Join(dir, filepath.FromSlash(spec.Name))
	if fileutil.FileExists(path) {
		return path, nil
	}
	return path, writeImage(path, spec)
}

func writeImage(path string, spec ImageSpec) error {
	data, err := spec.Render()
	if err != nil {
		return err
	}
	if err := fileutil.EnsureParentDir(path); err != nil {
		return fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	// #nosec G306 -- samples are meant to be readable
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}
	return nil
}
