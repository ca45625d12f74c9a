package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath expands a leading "~" and any "${HOME}", then returns the
// absolute, cleaned path. "~user" forms are left alone. A blank path is
// returned unchanged.
//
//	"~/data"           -> "/home/me/data"
//	"../backup"        -> "/home/me/backup" (run from /home/me/project)
//	"/tmp/a/b/../../c" -> "/tmp/c"
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return path, nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") || strings.Contains(path, "${HOME}") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate home directory: %w", err)
		}
		if strings.HasPrefix(path, "~") {
			path = home + path[1:]
		} else {
			path = strings.ReplaceAll(path, "${HOME}", home)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return abs, nil
}
