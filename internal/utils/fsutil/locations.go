package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigSearchDirs returns the per-user then system-wide configuration
// directories for appName. The user directory is omitted when it cannot be
// determined.
func ConfigSearchDirs(appName string) []string {
	var dirs []string
	if userDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userDir, appName))
	}

	switch runtime.GOOS {
	case "windows":
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		dirs = append(dirs, filepath.Join(programData, appName))
	case "darwin":
		dirs = append(dirs, filepath.Join("/Library", "Application Support", appName))
	default:
		dirs = append(dirs, filepath.Join("/etc", appName))
	}
	return dirs
}
