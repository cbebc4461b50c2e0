package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service name in the OS credential store
	credentialService = "guidebook"
	// Key for the GitHub Personal Access Token
	githubTokenKey = "github_pat"

	minTokenLength = 20
)

// GitHub token prefixes: classic, fine-grained, OAuth, user-to-server,
// server-to-server.
var tokenPrefixes = []string{"ghp_", "github_pat_", "gho_", "ghu_", "ghs_"}

// CredentialManager stores the GitHub PAT in the OS keyring.
type CredentialManager struct {
	service string
}

func NewCredentialManager() *CredentialManager {
	return &CredentialManager{service: credentialService}
}

// StoreGitHubToken validates and stores token, replacing any previous one.
func (cm *CredentialManager) StoreGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := validateTokenFormat(token); err != nil {
		return fmt.Errorf("invalid token format: %w", err)
	}

	if err := keyring.Set(cm.service, githubTokenKey, token); err != nil {
		return fmt.Errorf("failed to store token in credential store: %w", err)
	}
	return nil
}

// GetGitHubToken returns the stored token.
func (cm *CredentialManager) GetGitHubToken() (string, error) {
	token, err := keyring.Get(cm.service, githubTokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no GitHub token found - store one with 'guidebook auth set'")
		}
		return "", fmt.Errorf("failed to retrieve token from credential store: %w", err)
	}

	if strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("stored token is empty - store a new one with 'guidebook auth set'")
	}
	return token, nil
}

// DeleteGitHubToken removes the stored token. Deleting a missing token is not
// an error.
func (cm *CredentialManager) DeleteGitHubToken() error {
	err := keyring.Delete(cm.service, githubTokenKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from credential store: %w", err)
	}
	return nil
}

// HasGitHubToken reports whether a token is stored.
func (cm *CredentialManager) HasGitHubToken() bool {
	_, err := keyring.Get(cm.service, githubTokenKey)
	return err == nil
}

// MaskedToken returns the stored token with everything but its prefix and
// last four characters hidden, for display.
func (cm *CredentialManager) MaskedToken() (string, error) {
	token, err := cm.GetGitHubToken()
	if err != nil {
		return "", err
	}
	return MaskToken(token), nil
}

// MaskToken hides all but the known prefix and the last four characters.
func MaskToken(token string) string {
	prefix := ""
	for _, p := range tokenPrefixes {
		if strings.HasPrefix(token, p) {
			prefix = p
			break
		}
	}

	rest := token[len(prefix):]
	if len(rest) <= 4 {
		return prefix + strings.Repeat("*", len(rest))
	}
	return prefix + strings.Repeat("*", len(rest)-4) + rest[len(rest)-4:]
}

func validateTokenFormat(token string) error {
	token = strings.TrimSpace(token)

	if len(token) < minTokenLength {
		return fmt.Errorf("token too short (minimum %d characters)", minTokenLength)
	}

	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(token, prefix) {
			return nil
		}
	}

	return fmt.Errorf("token does not match expected GitHub PAT format (should start with ghp_ or github_pat_)")
}
