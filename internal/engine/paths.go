package engine

import (
	"path/filepath"
	"strings"
)

// defaultFilename builds the conventional "{appName}.{format}" file name.
func defaultFilename(appName, format string) string {
	return appName + "." + format
}

// resolvePath joins a relative path onto basePath. Absolute paths are
// returned cleaned but otherwise untouched.
func resolvePath(path, basePath string) string {
	if filepath.IsAbs(path) || basePath == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(basePath, path)
}

// fileExtension returns the lower-cased extension of path without the dot,
// or "" when there is none. Dot-files such as ".json" have no extension.
func fileExtension(path string) string {
	base := filepath.Base(path)
	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 || dot == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[dot+1:])
}
