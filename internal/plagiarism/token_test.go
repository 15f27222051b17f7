package plagiarism

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"punctuation stripped", "Hello, World!", []string{"hello", "world"}},
		{"code", "int x = 3;\nreturn x+1;", []string{"int", "x", "3", "return", "x1"}},
		{"underscore kept", "MAX_SIZE = my_var", []string{"max_size", "my_var"}},
		{"whitespace runs", "  a\t\tb \n\n c  ", []string{"a", "b", "c"}},
		{"information separators", "a\x1cb\x1dc\x1ed\x1fe", []string{"a", "b", "c", "d", "e"}},
		{"unicode spaces", "x\u00a0y\u2003z", []string{"x", "y", "z"}},
		{"unicode letters", "Größe ÉTÉ", []string{"größe", "été"}},
		{"only punctuation", "!!! ??? ...", []string{}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tokenize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizeIsIdempotent(t *testing.T) {
	text := "def Foo(bar):\n    return bar * 2  # comment"
	first := Tokenize(text)
	second := Tokenize(strings.Join(first, " "))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("tokenizing joined tokens changed them: %q vs %q", first, second)
	}
}

func TestTokenizeProducesNoEmptyTokens(t *testing.T) {
	for _, token := range Tokenize("a -- b ;; ,, c\r\n") {
		if token == "" {
			t.Fatal("empty token produced")
		}
	}
}
