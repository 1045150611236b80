package model

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde expands a leading ~ to the user's home directory
func ExpandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			return home
		}
	}
	return path
}

// PackageName returns the package a keymap file belongs to: the name of
// the directory holding it.
func PackageName(path string) string {
	// Accept both separators, memfs and osfs paths can differ.
	path = strings.ReplaceAll(path, "\\", "/")
	dir := path
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		dir = dir[:i]
	} else {
		return ""
	}
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		dir = dir[i+1:]
	}
	return dir
}

// IsKeymapFile reports whether name is a keymap file for the given platform.
// Matching is case-insensitive: "Default.sublime-keymap" applies to every
// platform, "Default (Linux).sublime-keymap" only to linux.
func IsKeymapFile(name, platform string) bool {
	n := strings.ToLower(name)
	if n == "default.sublime-keymap" {
		return true
	}
	return n == "default ("+strings.ToLower(platform)+").sublime-keymap"
}

// ShortenHome replaces the home directory prefix with ~ for display.
func ShortenHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}
