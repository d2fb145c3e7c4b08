// Package paths turns configured folder names into verified absolute
// paths. Side effects are limited to directory creation; no file
// content is ever touched here.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptySegment marks a missing or blank path segment in the
// configuration.
var ErrEmptySegment = errors.New("empty path segment")

// ErrNotFound marks a folder that is required but absent.
var ErrNotFound = errors.New("folder not found")

// Resolve joins the root folder with any relative segments and
// returns an absolute, cleaned path. A leading "~" or "~/" in the
// root expands to the user home directory. Segments are joined as
// given, never rewritten; any empty segment is a configuration error.
func Resolve(root string, segments ...string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", fmt.Errorf("root folder: %w", ErrEmptySegment)
	}
	if root == "~" || strings.HasPrefix(root, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand home: %w", err)
		}
		root = filepath.Join(home, strings.TrimPrefix(root, "~"))
	}
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, root)
	for i, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			return "", fmt.Errorf("segment %d: %w", i+1, ErrEmptySegment)
		}
		parts = append(parts, seg)
	}
	abs, err := filepath.Abs(filepath.Join(parts...))
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}
	return abs, nil
}

// VerifyOptions controls how Verify treats a missing directory.
type VerifyOptions struct {
	// CreateIfMissing creates the directory (and parents) when absent.
	CreateIfMissing bool
	// RaiseOnMissing returns an error instead of false when the
	// directory is absent and creation is disabled.
	RaiseOnMissing bool
}

// Verify reports whether path is an existing directory. A missing
// directory is created when opts.CreateIfMissing is set (idempotent,
// parents included); otherwise Verify returns false, or an error
// wrapping ErrNotFound when opts.RaiseOnMissing is set.
func Verify(path string, opts VerifyOptions) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return false, fmt.Errorf("%s exists but is not a directory", path)
		}
		return true, nil
	case os.IsNotExist(err):
		if opts.CreateIfMissing {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return false, fmt.Errorf("create %s: %w", path, err)
			}
			return true, nil
		}
		if opts.RaiseOnMissing {
			return false, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
