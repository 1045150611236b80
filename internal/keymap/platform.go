package keymap

import "strings"

// Platform names as they appear in keymap file names,
// e.g. "Default (Linux).sublime-keymap".
const (
	PlatformLinux   = "linux"
	PlatformOSX     = "osx"
	PlatformWindows = "windows"
)

// DetectPlatform maps a GOOS value onto the editor's platform name.
func DetectPlatform(goos string) string {
	switch goos {
	case "darwin":
		return PlatformOSX
	case "windows":
		return PlatformWindows
	default:
		// Everything else (linux, *bsd, ...) loads the Linux keymaps.
		return PlatformLinux
	}
}

// ValidPlatform reports whether p names a known platform.
func ValidPlatform(p string) bool {
	switch strings.ToLower(p) {
	case PlatformLinux, PlatformOSX, PlatformWindows:
		return true
	}
	return false
}
