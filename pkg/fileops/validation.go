package fileops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ValidateFilename checks that name is a single path element that stays inside
// whatever directory it is joined to. It does not touch the filesystem.
//
// Rejected:
//   - empty or whitespace-only names
//   - "." and ".." and any name containing a ".." sequence
//   - forward or backward slashes, the OS separator, and NUL bytes
//   - absolute paths and Windows volume names
//
// Usage example:
//
//	if err := fileops.ValidateFilename(language + "_style_guide.md"); err != nil {
//	    return err
//	}
func ValidateFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("filename contains null bytes")
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator) {
		return fmt.Errorf("filename contains path separators")
	}
	if strings.Contains(name, "..") || name == "." {
		return fmt.Errorf("path traversal not allowed")
	}
	if filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return fmt.Errorf("filename must be relative")
	}
	return nil
}

// ValidatePathSecurity performs static validation on a directory or file path.
// It rejects empty paths, ".." traversal (raw or after cleaning) and absolute
// paths that point at reserved system locations.
func ValidatePathSecurity(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if strings.Contains(path, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	if filepath.IsAbs(path) && IsReservedDirectory(cleanPath) {
		return fmt.Errorf("path traversal not allowed")
	}

	return nil
}

// ExpandPath expands a leading "~/" to the user's home directory. Other paths
// are returned unchanged.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ValidateStoragePath validates a directory path used as a template root or
// clone target. The path must be absolute (or "~/"-relative), free of
// traversal, must not resolve into a reserved directory, and its parent must
// exist.
func ValidateStoragePath(path string) error {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return fmt.Errorf("storage directory cannot be empty")
	}

	if err := ValidatePathSecurity(trimmedPath); err != nil {
		return err
	}

	expandedPath := ExpandPath(trimmedPath)

	if !filepath.IsAbs(expandedPath) {
		return fmt.Errorf("path must be absolute or relative to home directory (~)")
	}

	if resolved, err := filepath.EvalSymlinks(expandedPath); err == nil {
		if IsReservedDirectory(resolved) {
			return fmt.Errorf("path resolves to reserved directory")
		}
	}

	if IsReservedDirectory(expandedPath) {
		return fmt.Errorf("cannot use system or reserved directories")
	}

	parentDir := filepath.Dir(expandedPath)
	if _, err := os.Stat(parentDir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("parent directory does not exist: %s", parentDir)
		}
		return fmt.Errorf("cannot access parent directory: %w", err)
	}

	return nil
}

// IsDirEmpty reports whether dir has no entries.
func IsDirEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

// IsReservedDirectory reports whether path is, or lives under, a system
// directory that must never be used for application data. Paths that cannot
// be resolved are treated as reserved.
func IsReservedDirectory(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	absPath = filepath.Clean(absPath)

	if resolvedPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = filepath.Clean(resolvedPath)
	}

	if absPath == "/" || absPath == "\\" || strings.EqualFold(absPath, "C:\\") {
		return true
	}

	pathLower := strings.ToLower(absPath)
	for _, reserved := range reservedDirectories() {
		reservedAbs, err := filepath.Abs(reserved)
		if err != nil {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(reservedAbs); err == nil {
			reservedAbs = resolved
		}
		reservedAbs = filepath.Clean(reservedAbs)

		if strings.EqualFold(absPath, reservedAbs) {
			return true
		}

		prefix := strings.ToLower(reservedAbs) + string(os.PathSeparator)
		if strings.HasPrefix(pathLower, prefix) && !isUserTempDirectory(absPath) {
			return true
		}
	}

	return false
}

func reservedDirectories() []string {
	var dirs []string

	switch runtime.GOOS {
	case "windows":
		dirs = []string{
			"C:\\Windows",
			"C:\\Program Files",
			"C:\\Program Files (x86)",
			"C:\\ProgramData\\Microsoft",
		}
	case "darwin":
		dirs = []string{
			"/System",
			"/usr/bin",
			"/usr/sbin",
			"/bin",
			"/sbin",
			"/etc",
			"/var/log",
			"/var/db",
			"/var/root",
			"/Library/System",
			"/private/etc",
		}
	default:
		dirs = []string{
			"/bin",
			"/sbin",
			"/usr/bin",
			"/usr/sbin",
			"/etc",
			"/boot",
			"/dev",
			"/proc",
			"/sys",
			"/var/log",
			"/var/lib",
			"/var/cache",
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".ssh"),
			filepath.Join(home, ".gnupg"),
		)
	}

	return dirs
}

// isUserTempDirectory lets per-user temp directories through even when they
// sit under a reserved prefix (macOS /var/folders, for instance).
func isUserTempDirectory(path string) bool {
	if runtime.GOOS == "darwin" && strings.Contains(path, "/var/folders/") {
		return true
	}

	cleanPath := filepath.Clean(path)
	systemTemp := filepath.Clean(os.TempDir())
	if resolved, err := filepath.EvalSymlinks(systemTemp); err == nil {
		systemTemp = resolved
	}

	return cleanPath == systemTemp || strings.HasPrefix(cleanPath, systemTemp+string(os.PathSeparator))
}
