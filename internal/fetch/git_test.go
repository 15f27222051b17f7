package fetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://github.com/user/repo.git",
		"http://example.com/repo",
		"ssh://git@example.com/repo.git",
		"git://example.com/repo.git",
		"git@github.com:user/repo.git",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		"not a url",
		"ftp://example.com/repo",
		"https:///repo",
		"git@github.com:",
		"file:///srv/repos/project",
	}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
		}
	}
}

func TestFetchRejectsInvalidURL(t *testing.T) {
	err := NewGitFetcher(1).Fetch(context.Background(), "ftp://example.com/x", t.TempDir())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.URL != "ftp://example.com/x" {
		t.Fatalf("URL = %q", fetchErr.URL)
	}
}

func TestFetchRejectsNonEmptyDestination(t *testing.T) {
	dest := t.TempDir()
	if err := os.WriteFile(filepath.Join(dest, "existing"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := NewGitFetcher(1).Fetch(context.Background(), "https://example.com/repo.git", dest)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}

func TestValidateLocalURL(t *testing.T) {
	if err := ValidateLocalURL("file:///srv/repos/project"); err != nil {
		t.Fatalf("ValidateLocalURL(file) = %v", err)
	}
	if err := ValidateLocalURL("https://github.com/user/repo.git"); err != nil {
		t.Fatalf("ValidateLocalURL(https) = %v", err)
	}
	if err := ValidateLocalURL("ftp://example.com/repo"); err == nil {
		t.Fatal("ValidateLocalURL(ftp) = nil, want error")
	}
}

func TestFetchLocalURLRequiresOptIn(t *testing.T) {
	dest := t.TempDir()
	if err := os.WriteFile(filepath.Join(dest, "existing"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	local := "file://" + t.TempDir()

	err := NewGitFetcher(1).Fetch(context.Background(), local, dest)
	if err == nil || !strings.Contains(err.Error(), "not allowed") {
		t.Fatalf("remote-only fetcher: got %v, want rejected local url", err)
	}

	// with local repositories allowed the url passes validation and the
	// non-empty destination is reported instead
	err = NewGitFetcher(1).AllowLocal().Fetch(context.Background(), local, dest)
	if err == nil || !strings.Contains(err.Error(), "not empty") {
		t.Fatalf("local fetcher: got %v, want non-empty destination error", err)
	}
}
