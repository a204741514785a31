// Package security keeps rendered output inside the directory it was
// asked for.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxNameLen bounds file names built from deck identifiers.
const maxNameLen = 128

// WithinDir returns an error unless path resolves inside dir. Symlinks are
// resolved on the longest existing prefix of path, so a link pointing out of
// dir is caught even when the final file does not exist yet.
func WithinDir(path, dir string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	realDir, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	realPath := resolveExisting(absPath)
	rel, err := filepath.Rel(realDir, realPath)
	if err != nil {
		return fmt.Errorf("%s is outside %s: %w", path, dir, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("path traversal detected: %s escapes %s", path, dir)
	}
	return nil
}

// resolveExisting evaluates symlinks on the deepest ancestor of p that
// exists and re-appends the rest.
func resolveExisting(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	for dir := filepath.Dir(p); ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			rest, _ := filepath.Rel(dir, p)
			return filepath.Join(resolved, rest)
		}
		if parent := filepath.Dir(dir); parent == dir {
			return p
		}
	}
}

// SanitizeName turns a cell or assembly name into a file name: anything
// other than ASCII letters, digits, dot, underscore or dash becomes a single
// underscore.
func SanitizeName(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxNameLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
			lastUnderscore = r == '_'
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unnamed"
	}
	return out
}

// OutputPath joins dir with the sanitised name and ext and checks the
// result stays in dir.
func OutputPath(dir, name, ext string) (string, error) {
	p := filepath.Join(dir, SanitizeName(name)+ext)
	if err := WithinDir(p, dir); err != nil {
		return "", err
	}
	return p, nil
}
