// Package fetch retrieves the target codebase from a remote git repository.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog/log"
)

// FetchError is returned when the remote repository cannot be retrieved.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher places the content of a repository at a local path.
type Fetcher interface {
	Fetch(ctx context.Context, repoURL, destination string) error
}

// GitFetcher clones repositories with go-git.
type GitFetcher struct {
	depth      int
	allowLocal bool
}

// NewGitFetcher creates a fetcher cloning with the given depth; 0 clones the
// full history. Only remote URLs are accepted.
func NewGitFetcher(depth int) *GitFetcher {
	return &GitFetcher{depth: depth}
}

// AllowLocal makes the fetcher accept file:// URLs as well.
func (f *GitFetcher) AllowLocal() *GitFetcher {
	f.allowLocal = true
	return f
}

func (f *GitFetcher) Fetch(ctx context.Context, repoURL, destination string) error {
	if err := validateURL(repoURL, f.allowLocal); err != nil {
		return &FetchError{URL: repoURL, Err: err}
	}

	if entries, err := os.ReadDir(destination); err == nil && len(entries) > 0 {
		return &FetchError{URL: repoURL, Err: fmt.Errorf("destination %s is not empty", destination)}
	}

	log.Info().Str("repoUrl", repoURL).Str("destination", destination).Msg("Cloning repository")

	_, err := git.PlainCloneContext(ctx, destination, false, &git.CloneOptions{
		URL:          repoURL,
		Depth:        f.depth,
		SingleBranch: true,
	})
	if err != nil {
		return &FetchError{URL: repoURL, Err: err}
	}

	log.Info().Str("repoUrl", repoURL).Msg("Repository cloning completed")
	return nil
}

// ValidateURL accepts remote repositories: http(s), ssh and git URLs as well
// as scp-like "user@host:path" addresses.
func ValidateURL(repoURL string) error {
	return validateURL(repoURL, false)
}

// ValidateLocalURL is ValidateURL plus file:// URLs.
func ValidateLocalURL(repoURL string) error {
	return validateURL(repoURL, true)
}

func validateURL(repoURL string, allowLocal bool) error {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return errors.New("repository url is required")
	}

	if !strings.Contains(repoURL, "://") {
		at := strings.Index(repoURL, "@")
		colon := strings.Index(repoURL, ":")
		if at > 0 && colon > at+1 && colon < len(repoURL)-1 {
			return nil
		}
		return fmt.Errorf("unsupported repository url %q", repoURL)
	}

	parsed, err := url.Parse(repoURL)
	if err != nil {
		return fmt.Errorf("invalid repository url: %w", err)
	}
	switch parsed.Scheme {
	case "http", "https", "ssh", "git":
		if parsed.Host == "" {
			return fmt.Errorf("repository url %q has no host", repoURL)
		}
	case "file":
		if !allowLocal {
			return fmt.Errorf("local repository url %q is not allowed", repoURL)
		}
	default:
		return fmt.Errorf("unsupported repository url scheme %q", parsed.Scheme)
	}
	return nil
}
