package corpus

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestLoader(patterns ...string) *Loader {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(`^(?:`+p+`)`))
	}
	return NewLoader(compiled)
}

func TestLoadFiltersAndOrders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.py"), "print(1)")
	writeFile(t, filepath.Join(root, "a.py"), "x = 1")
	writeFile(t, filepath.Join(root, "notes.md"), "ignored")
	writeFile(t, filepath.Join(root, "sub", "deep", "c.c"), "int main() { return 0; }")
	writeFile(t, filepath.Join(root, "py.bak"), "ignored")

	loader := newTestLoader(`.*\.(c|py)$`)
	result, err := loader.Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var got []string
	for _, d := range result.Documents {
		rel, _ := filepath.Rel(root, d.Path)
		got = append(got, rel)
	}
	want := []string{"a.py", "b.py", filepath.Join("sub", "deep", "c.c")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("loaded %v, want %v", got, want)
	}

	if tokens := result.Documents[2].Tokens; !reflect.DeepEqual(tokens, []string{"int", "main", "return", "0"}) {
		t.Fatalf("unexpected tokens %q", tokens)
	}
}

func TestLoadMatchesFilenameOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src.py", "readme"), "dir name matches, file does not")
	writeFile(t, filepath.Join(root, "src.py", "main.py"), "ok")

	result, err := newTestLoader(`.*\.py$`).Load(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Documents) != 1 || filepath.Base(result.Documents[0].Path) != "main.py" {
		t.Fatalf("unexpected documents %+v", result.Documents)
	}
}

func TestLoadPatternIsAnchoredAtStart(t *testing.T) {
	loader := newTestLoader(`test_`)
	if !loader.Matches("test_util.py") {
		t.Fatal("prefix should match")
	}
	if loader.Matches("my_test_util.py") {
		t.Fatal("pattern must match from the start of the name")
	}
}

func TestLoadSkipsUnreadableFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "good.txt"), "hello world")
	if err := os.Symlink(filepath.Join(root, "missing.txt"), filepath.Join(root, "dangling.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	result, err := newTestLoader(`.*\.txt$`).Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Documents) != 1 || filepath.Base(result.Documents[0].Path) != "good.txt" {
		t.Fatalf("unexpected documents %+v", result.Documents)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("Skipped = %d, want 1", len(result.Skipped))
	}
	skipped := result.Skipped[0]
	if filepath.Base(skipped.Path) != "dangling.txt" {
		t.Fatalf("skipped %s", skipped.Path)
	}
	if !errors.Is(skipped, fs.ErrNotExist) {
		t.Fatalf("expected not-exist cause, got %v", skipped.Err)
	}
}

func TestLoadInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "bin.txt")
	if err := os.WriteFile(path, []byte("abc \xff\xfe def"), 0o644); err != nil {
		t.Fatal(err)
	}

	source, err := ReadSource(path)
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if source.RawText != "abc \ufffd\ufffd def" {
		t.Fatalf("RawText = %q", source.RawText)
	}

	result, err := newTestLoader(`.*`).Load(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Documents[0].Tokens; !reflect.DeepEqual(got, []string{"abc", "def"}) {
		t.Fatalf("tokens %q", got)
	}
}

func TestReadSourceDropsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.txt")
	if err := os.WriteFile(path, []byte("\xef\xbb\xbfhello"), 0o644); err != nil {
		t.Fatal(err)
	}
	source, err := ReadSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if source.RawText != "hello" {
		t.Fatalf("RawText = %q", source.RawText)
	}
}

func TestLoadMissingRoot(t *testing.T) {
	result, err := newTestLoader(`.*`).Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Documents) != 0 {
		t.Fatalf("expected no documents, got %d", len(result.Documents))
	}
}

func TestLoadCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestLoader(`.*`).Load(ctx, root); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
