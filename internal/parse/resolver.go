package parse

import (
	"os"
	"path/filepath"
)

// FileResolver is the external collaborator that turns an <include>
// element's filename attribute into file content (§6 FileResolver.resolve).
type FileResolver interface {
	// Resolve reads the document referenced by path and returns its raw
	// content plus the resolved path used as the included document's
	// source id for diagnostics.
	Resolve(path string) (content []byte, resolvedPath string, err error)
}

// OSResolver is the default FileResolver: relative paths are resolved
// against BaseDir (typically the directory of the document being loaded)
// and read from the local filesystem.
type OSResolver struct {
	BaseDir string
}

// Resolve implements FileResolver.
func (r *OSResolver) Resolve(path string) ([]byte, string, error) {
	full := path
	if !filepath.IsAbs(path) && r.BaseDir != "" {
		full = filepath.Join(r.BaseDir, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, full, err
	}
	return data, full, nil
}
