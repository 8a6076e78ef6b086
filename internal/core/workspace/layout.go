package workspace

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// Default directories for each command.
const (
	DefaultPushDir    = "dist"
	DefaultPullDir    = "packages"
	DefaultBackupDir  = "backup"
	DefaultRestoreDir = "backup"
)

// File suffixes recognised in each directory.
const (
	PushSuffix   = ".js"
	BackupSuffix = ".json"
)

var pushNamePattern = regexp.MustCompile(`homeyscript\.(.+)\.min\.js`)

// PushPath returns the bundled file pushed for the named script.
func PushPath(dir, name string) string {
	return filepath.Join(dir, fmt.Sprintf("homeyscript.%s.min.js", name))
}

// PullPath returns where a pulled script's code is written.
func PullPath(dir, name string) string {
	return filepath.Join(dir, name, "index.js")
}

// BackupPath returns the backup file of the named script.
func BackupPath(dir, name string) string {
	return filepath.Join(dir, name+BackupSuffix)
}

// ParsePushName recovers the script name from a bundled file path.
func ParsePushName(path string) (string, error) {
	m := pushNamePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", fmt.Errorf("Invalid script filename format: %s", path)
	}
	return m[1], nil
}
