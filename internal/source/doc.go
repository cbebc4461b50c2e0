// Package source resolves where template files come from.
//
// A LocalSource is a directory on disk used as is. A GitSource is a
// repository cloned into a local directory (shallow, one branch) and brought
// up to date on each Prepare:
//
//   - missing or empty directory: clone
//   - clean clone of the same remote: fetch and reset to origin/<branch>
//   - clone with local changes: left alone, cached content is used
//   - anything else: refused, never overwritten
//
// Remote access is tried anonymously first. When the remote refuses, the
// GitHub Personal Access Token stored in the OS keyring (service
// "guidebook") is used as HTTP basic auth.
//
// FromConfig selects the source for a run from the user configuration and
// the --dir / GUIDEBOOK_TEMPLATES_DIR override.
package source
