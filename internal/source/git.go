package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"guidebook/internal/logging"
	"guidebook/pkg/fileops"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/transport/http"
)

var (
	scpURLPattern     = regexp.MustCompile(`^git@([^:]+):([^/]+)/(.+?)(?:\.git)?$`)
	scpComparePattern = regexp.MustCompile(`^git@([^:]+):(.+)$`)
)

// DirectoryStatus is the state of a clone target.
type DirectoryStatus int

const (
	// DirectoryStatusEmpty: missing or empty, safe to clone.
	DirectoryStatusEmpty DirectoryStatus = iota
	// DirectoryStatusSameRepo: a clone of the configured remote, safe to fetch.
	DirectoryStatusSameRepo
	// DirectoryStatusDifferentRepo: a clone of some other remote.
	DirectoryStatusDifferentRepo
	// DirectoryStatusConflict: non-git content.
	DirectoryStatusConflict
	// DirectoryStatusError: the directory could not be inspected.
	DirectoryStatusError
)

func (ds DirectoryStatus) String() string {
	switch ds {
	case DirectoryStatusEmpty:
		return "empty or doesn't exist"
	case DirectoryStatusSameRepo:
		return "same git repository"
	case DirectoryStatusDifferentRepo:
		return "different git repository"
	case DirectoryStatusConflict:
		return "contains non-git content"
	case DirectoryStatusError:
		return "validation error"
	default:
		return "unknown status"
	}
}

// GitSource is a Git repository of templates, cloned into Path and kept in
// sync with the remote on every Prepare.
//
// Local changes are never discarded: a dirty working tree skips the sync and
// the cached content is served as is. A Path holding anything other than a
// clone of RemoteURL is refused rather than overwritten.
type GitSource struct {
	RemoteURL string // HTTPS or scp-style SSH (converted to HTTPS)
	Branch    string // empty means the remote's default branch
	Path      string // clone location

	// Credentials supplies the PAT used when public access is refused. Nil
	// uses the OS keyring.
	Credentials *CredentialManager
}

func NewGitSource(remoteURL, branch, localPath string) GitSource {
	return GitSource{
		RemoteURL: remoteURL,
		Branch:    branch,
		Path:      localPath,
	}
}

// Prepare clones the repository into Path, or fetches and fast-forwards an
// existing clean clone, and returns the absolute clone path.
func (gs GitSource) Prepare(ctx context.Context, logger *logging.AppLogger) (string, SyncInfo, error) {
	if logger == nil {
		logger = logging.GetDefault()
	}
	logger.Info("Preparing Git template source",
		"remote_url", gs.RemoteURL,
		"branch", gs.Branch,
		"path", gs.Path)

	if err := gs.validateInputs(); err != nil {
		return "", SyncInfo{}, err
	}

	remoteURL, err := NormalizeRemoteURL(gs.RemoteURL)
	if err != nil {
		return "", SyncInfo{}, fmt.Errorf("invalid remote URL: %w", err)
	}

	clonePath, err := gs.validateLocalPath()
	if err != nil {
		return "", SyncInfo{}, err
	}

	status, err := ValidateCloneDirectory(clonePath, remoteURL)
	switch status {
	case DirectoryStatusConflict, DirectoryStatusDifferentRepo:
		return "", SyncInfo{}, fmt.Errorf("directory conflict at %s (%s): remove or relocate it, or point templates_dir elsewhere",
			clonePath, status)
	case DirectoryStatusError:
		return "", SyncInfo{}, err
	}

	if err := ctx.Err(); err != nil {
		return "", SyncInfo{}, err
	}

	var info SyncInfo
	if status == DirectoryStatusEmpty {
		info, err = gs.cloneWithAuth(clonePath, remoteURL, logger)
	} else {
		info, err = gs.fetchWithAuth(clonePath, logger)
	}
	if err != nil {
		return "", SyncInfo{}, err
	}

	logger.Info("Git template source ready", "path", clonePath, "message", info.Message)
	return clonePath, info, nil
}

func (gs GitSource) validateInputs() error {
	if strings.TrimSpace(gs.RemoteURL) == "" {
		return fmt.Errorf("remote URL cannot be empty")
	}
	if strings.TrimSpace(gs.Path) == "" {
		return fmt.Errorf("clone path cannot be empty")
	}
	return nil
}

func (gs GitSource) validateLocalPath() (string, error) {
	clean := filepath.Clean(fileops.ExpandPath(strings.TrimSpace(gs.Path)))

	if err := fileops.ValidatePathSecurity(clean); err != nil {
		return "", fmt.Errorf("invalid clone path: %w", err)
	}
	if fileops.IsReservedDirectory(clean) {
		return "", fmt.Errorf("invalid clone path: cannot use system or reserved directories")
	}

	abs, err := filepath.Abs(clean)
	if err != nil {
		return "", fmt.Errorf("cannot resolve absolute path: %w", err)
	}
	return abs, nil
}

func (gs GitSource) credentials() *CredentialManager {
	if gs.Credentials != nil {
		return gs.Credentials
	}
	return NewCredentialManager()
}

// authentication returns PAT basic auth, or nil when no token is stored.
func (gs GitSource) authentication(logger *logging.AppLogger) (*http.BasicAuth, error) {
	cm := gs.credentials()
	if !cm.HasGitHubToken() {
		return nil, nil
	}

	token, err := cm.GetGitHubToken()
	if err != nil {
		return nil, err
	}

	logger.Debug("Using GitHub Personal Access Token for authentication")

	// GitHub accepts any username with a PAT as the password.
	return &http.BasicAuth{Username: "token", Password: token}, nil
}

// withAuth runs op without credentials first and retries with the stored PAT
// when the remote refuses anonymous access. Git errors go through translate.
func (gs GitSource) withAuth(logger *logging.AppLogger, translate func(error) error, op func(auth *http.BasicAuth) (SyncInfo, error)) (SyncInfo, error) {
	info, err := op(nil)
	if err == nil {
		return info, nil
	}
	if !IsAuthenticationError(err) {
		return SyncInfo{}, translate(err)
	}

	logger.Debug("Public access refused, retrying with token")

	auth, authErr := gs.authentication(logger)
	if authErr != nil {
		return SyncInfo{}, fmt.Errorf("GitHub authentication failed: %w", authErr)
	}
	if auth == nil {
		return SyncInfo{}, fmt.Errorf("GitHub authentication required - store a Personal Access Token with 'guidebook auth set'")
	}

	info, err = op(auth)
	if err != nil {
		return SyncInfo{}, translate(err)
	}
	return info, nil
}

func (gs GitSource) cloneWithAuth(localPath, remoteURL string, logger *logging.AppLogger) (SyncInfo, error) {
	return gs.withAuth(logger, gs.translateCloneError, func(auth *http.BasicAuth) (SyncInfo, error) {
		return gs.clone(localPath, remoteURL, auth, logger)
	})
}

func (gs GitSource) fetchWithAuth(localPath string, logger *logging.AppLogger) (SyncInfo, error) {
	return gs.withAuth(logger, gs.translateFetchError, func(auth *http.BasicAuth) (SyncInfo, error) {
		return gs.fetch(localPath, auth, logger)
	})
}

// clone performs a shallow clone of the configured branch.
func (gs GitSource) clone(localPath, remoteURL string, auth *http.BasicAuth, logger *logging.AppLogger) (SyncInfo, error) {
	logger.Info("Cloning template repository", "remote_url", remoteURL, "path", localPath)

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return SyncInfo{}, fmt.Errorf("failed to create parent directory: %w", err)
	}

	opts := &git.CloneOptions{
		URL:   remoteURL,
		Depth: 1,
	}
	if auth != nil {
		opts.Auth = auth
	}
	if gs.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(gs.Branch)
		opts.SingleBranch = true
	}

	if _, err := git.PlainClone(localPath, opts); err != nil {
		// A failed clone leaves a partial .git behind; the next run would
		// then see a conflict instead of retrying.
		os.RemoveAll(localPath)
		return SyncInfo{}, err
	}

	return SyncInfo{Cloned: true, Message: "Cloned " + remoteURL}, nil
}

// fetch updates a clean clone to the remote tip of its branch. A dirty tree is
// left untouched.
func (gs GitSource) fetch(localPath string, auth *http.BasicAuth, logger *logging.AppLogger) (SyncInfo, error) {
	logger.Info("Fetching template repository updates", "path", localPath)

	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return SyncInfo{}, fmt.Errorf("failed to open existing repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return SyncInfo{}, fmt.Errorf("failed to get working tree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return SyncInfo{}, fmt.Errorf("failed to get working tree status: %w", err)
	}
	if !status.IsClean() {
		logger.Warn("Working tree has uncommitted changes, skipping sync", "path", localPath)
		return SyncInfo{
			Dirty:   true,
			Message: "Local changes present, using cached templates without syncing",
		}, nil
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return SyncInfo{}, fmt.Errorf("failed to get origin remote: %w", err)
	}

	opts := &git.FetchOptions{
		Depth: 1,
		Force: true, // the remote may have been force-pushed
	}
	if auth != nil {
		opts.Auth = auth
	}

	err = remote.Fetch(opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		logger.Debug("Template repository already up to date")
		return SyncInfo{Message: "Already up to date"}, nil
	}
	if err != nil {
		return SyncInfo{}, err
	}

	if err := gs.resetToRemote(repo, worktree, logger); err != nil {
		return SyncInfo{}, err
	}

	return SyncInfo{Updated: true, Message: "Updated from remote"}, nil
}

// resetToRemote moves the working tree to origin/<branch>, where branch is
// the configured one or the currently checked out one.
func (gs GitSource) resetToRemote(repo *git.Repository, worktree *git.Worktree, logger *logging.AppLogger) error {
	branch := gs.Branch
	if branch == "" {
		head, err := repo.Head()
		if err != nil {
			return fmt.Errorf("failed to resolve current branch: %w", err)
		}
		branch = head.Name().Short()
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	if err != nil {
		return fmt.Errorf("branch '%s' does not exist on remote 'origin'", branch)
	}

	localRef := plumbing.NewBranchReferenceName(branch)
	if err := repo.Storer.SetReference(plumbing.NewHashReference(localRef, remoteRef.Hash())); err != nil {
		return fmt.Errorf("failed to update local branch: %w", err)
	}

	if err := worktree.Checkout(&git.CheckoutOptions{Branch: localRef}); err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branch, err)
	}

	if err := worktree.Reset(&git.ResetOptions{Commit: remoteRef.Hash(), Mode: git.HardReset}); err != nil {
		return fmt.Errorf("failed to reset to origin/%s: %w", branch, err)
	}

	logger.Debug("Reset working tree to remote", "branch", branch, "commit", remoteRef.Hash().String())
	return nil
}

// CheckRepositoryStatus reports whether the clone at repoPath has
// uncommitted changes.
func CheckRepositoryStatus(repoPath string) (bool, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return false, fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get working tree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get repository status: %w", err)
	}

	return !status.IsClean(), nil
}

var authErrorPatterns = []string{
	"authentication required",
	"401",
	"unauthorized",
	"403",
	"forbidden",
}

// IsAuthenticationError reports whether err looks like the remote refusing
// credentials (or their absence).
func IsAuthenticationError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range authErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func isNetworkError(msg string) bool {
	return strings.Contains(msg, "network") || strings.Contains(msg, "connection") || strings.Contains(msg, "timeout")
}

func (gs GitSource) translateCloneError(err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case IsAuthenticationError(err):
		if strings.Contains(msg, "403") || strings.Contains(msg, "forbidden") {
			return fmt.Errorf("GitHub token lacks required permissions - ensure the 'repo' scope is enabled, then run 'guidebook auth set'")
		}
		return fmt.Errorf("GitHub authentication failed - update your Personal Access Token with 'guidebook auth set'")
	case strings.Contains(msg, "404") || strings.Contains(msg, "not found"):
		return fmt.Errorf("repository not found - check the URL or ensure you have access: %s", gs.RemoteURL)
	case isNetworkError(msg):
		return fmt.Errorf("network error during clone - check your internet connection and try again: %w", err)
	}
	return fmt.Errorf("failed to clone repository: %w", err)
}

func (gs GitSource) translateFetchError(err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case IsAuthenticationError(err):
		return fmt.Errorf("GitHub token has expired or is invalid - update it with 'guidebook auth set'")
	case isNetworkError(msg):
		return fmt.Errorf("network error during fetch - cached templates are still usable: %w", err)
	}
	return fmt.Errorf("failed to fetch repository updates: %w", err)
}

// GitURLInfo holds the parts of a repository URL.
type GitURLInfo struct {
	Host  string
	Owner string
	Repo  string // without .git
}

// ParseGitURL accepts scp-style SSH (git@host:owner/repo.git) and URL forms
// (https://host/owner/repo.git).
func ParseGitURL(gitURL string) (GitURLInfo, error) {
	gitURL = strings.TrimSpace(gitURL)

	if m := scpURLPattern.FindStringSubmatch(gitURL); m != nil {
		return GitURLInfo{Host: m[1], Owner: m[2], Repo: m[3]}, nil
	}

	parsed, err := url.Parse(gitURL)
	if err != nil {
		return GitURLInfo{}, fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Host == "" {
		return GitURLInfo{}, fmt.Errorf("URL missing host component")
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 {
		return GitURLInfo{}, fmt.Errorf("URL path should contain owner/repo: %s", parsed.Path)
	}

	owner := parts[0]
	repo := strings.TrimSuffix(parts[1], ".git")
	if owner == "" || repo == "" {
		return GitURLInfo{}, fmt.Errorf("could not extract owner/repo from URL path: %s", parsed.Path)
	}

	return GitURLInfo{Host: parsed.Host, Owner: owner, Repo: repo}, nil
}

// NormalizeRemoteURL converts scp-style SSH URLs to HTTPS so PAT auth
// applies. Other URLs are validated and returned trimmed.
func NormalizeRemoteURL(remoteURL string) (string, error) {
	remoteURL = strings.TrimSpace(remoteURL)

	if m := scpURLPattern.FindStringSubmatch(remoteURL); m != nil {
		return fmt.Sprintf("https://%s/%s/%s.git", m[1], m[2], m[3]), nil
	}

	if _, err := ParseGitURL(remoteURL); err != nil {
		return "", fmt.Errorf("invalid Git URL format: %w", err)
	}
	return remoteURL, nil
}

// ValidateCloneDirectory checks whether clonePath can hold a clone of
// expectedRemoteURL. The error is non-nil for every status except
// DirectoryStatusEmpty and DirectoryStatusSameRepo.
func ValidateCloneDirectory(clonePath, expectedRemoteURL string) (DirectoryStatus, error) {
	info, err := os.Stat(clonePath)
	if os.IsNotExist(err) {
		return DirectoryStatusEmpty, nil
	}
	if err != nil {
		return DirectoryStatusError, fmt.Errorf("cannot access directory %s: %w", clonePath, err)
	}
	if !info.IsDir() {
		return DirectoryStatusError, fmt.Errorf("path exists but is not a directory: %s", clonePath)
	}

	empty, err := fileops.IsDirEmpty(clonePath)
	if err != nil {
		return DirectoryStatusError, fmt.Errorf("cannot check if directory is empty: %w", err)
	}
	if empty {
		return DirectoryStatusEmpty, nil
	}

	current, err := originURL(clonePath)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return DirectoryStatusConflict, fmt.Errorf("directory contains non-git content: %s", clonePath)
	}
	if err != nil {
		return DirectoryStatusError, fmt.Errorf("cannot get current git remote URL: %w", err)
	}

	if comparableURL(current) == comparableURL(expectedRemoteURL) {
		return DirectoryStatusSameRepo, nil
	}
	return DirectoryStatusDifferentRepo, fmt.Errorf("directory contains different git repository (current: %s, expected: %s)", current, expectedRemoteURL)
}

func originURL(repoPath string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("cannot get origin remote: %w", err)
	}

	cfg := remote.Config()
	if cfg == nil || len(cfg.URLs) == 0 {
		return "", fmt.Errorf("no URLs configured for origin remote")
	}
	return cfg.URLs[0], nil
}

// comparableURL maps SSH and HTTPS forms of one repository to the same
// string: git@github.com:o/r.git and https://github.com/o/r both become
// github.com/o/r.
func comparableURL(gitURL string) string {
	gitURL = strings.TrimSuffix(strings.TrimSpace(gitURL), ".git")

	if m := scpComparePattern.FindStringSubmatch(gitURL); m != nil {
		return m[1] + "/" + m[2]
	}
	if after, ok := strings.CutPrefix(gitURL, "https://"); ok {
		return after
	}
	if after, ok := strings.CutPrefix(gitURL, "http://"); ok {
		return after
	}
	return gitURL
}
