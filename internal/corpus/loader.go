// Package corpus walks a directory tree and turns every matching file into a
// token sequence.
package corpus

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/RishiKendai/aegis-origin/internal/plagiarism"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SourceFile is the raw content of one file.
type SourceFile struct {
	Path    string
	RawText string
}

// FileReadError records a file that was skipped because it could not be read.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// Result is the outcome of loading one directory.
type Result struct {
	Documents []plagiarism.Document
	Skipped   []*FileReadError
}

// Loader selects files whose name matches at least one pattern.
type Loader struct {
	patterns []*regexp.Regexp
}

func NewLoader(patterns []*regexp.Regexp) *Loader {
	return &Loader{patterns: patterns}
}

// Matches reports whether a file name is selected by the loader.
func (l *Loader) Matches(name string) bool {
	for _, pattern := range l.patterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// Load walks dir in lexical order and tokenizes every matching file.
// Unreadable files and directories are skipped with a warning; a missing
// root yields an empty result. Only context cancellation is returned as an error.
func (l *Loader) Load(ctx context.Context, dir string) (*Result, error) {
	result := &Result{Documents: make([]plagiarism.Document, 0)}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable path")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if !l.Matches(d.Name()) {
			return nil
		}

		source, readErr := ReadSource(path)
		if readErr != nil {
			fileErr := &FileReadError{Path: path, Err: readErr}
			log.Warn().Err(readErr).Str("path", path).Msg("Skipping file that could not be read")
			result.Skipped = append(result.Skipped, fileErr)
			return nil
		}

		result.Documents = append(result.Documents, plagiarism.Document{
			Path:   source.Path,
			Tokens: plagiarism.Tokenize(source.RawText),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("dir", dir).
		Int("files", len(result.Documents)).
		Int("skipped", len(result.Skipped)).
		Msg("Corpus loaded")

	return result, nil
}

// ReadSource reads a file as UTF-8 text. Malformed byte sequences are
// replaced with U+FFFD and a leading byte order mark is dropped.
func ReadSource(path string) (*SourceFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoded, err := io.ReadAll(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	if err != nil {
		return nil, err
	}

	return &SourceFile{Path: path, RawText: string(decoded)}, nil
}
