// Package fileops provides path validation shared by the template index,
// the configuration layer and the template sources.
//
// # Validation Layers
//
//  1. ValidateFilename: a lookup name must be a single path element. The
//     template index applies it before opening anything.
//  2. ValidatePathSecurity: static checks on a directory path (traversal,
//     reserved system locations).
//  3. ValidateStoragePath: ValidatePathSecurity plus the requirements for a
//     templates directory or clone target (absolute or "~/"-relative, parent
//     exists).
//
// Reads through the index are additionally confined with os.Root, so a name
// that passes these checks still cannot follow a symlink out of the
// templates directory.
//
// # Example
//
//	if err := fileops.ValidateStoragePath(dir); err != nil {
//	    return fmt.Errorf("invalid templates directory: %w", err)
//	}
//	dir = fileops.ExpandPath(dir)
package fileops
