package plagiarism

import (
	"errors"
	"reflect"
	"testing"
)

func TestVocabularyFitAndTransform(t *testing.T) {
	v := NewVocabulary(1)
	if err := v.Fit([][]string{{"foo", "bar", "foo"}}); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if got, want := v.Terms(), []string{"bar", "foo"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Terms() = %v, want %v", got, want)
	}

	vector, err := v.Transform([]string{"foo", "bar", "foo"})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got, want := vector.Dense(v.Size()), []int{1, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Dense() = %v, want %v", got, want)
	}

	unknown, err := v.Transform([]string{"baz", "baz"})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(unknown) != 0 {
		t.Fatalf("unknown tokens should produce a zero vector, got %v", unknown)
	}
}

func TestVocabularyTransformBeforeFit(t *testing.T) {
	v := NewVocabulary(1)
	if _, err := v.Transform([]string{"a"}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if v.Fitted() {
		t.Fatal("vocabulary should not be fitted")
	}
}

func TestVocabularyFitTwice(t *testing.T) {
	v := NewVocabulary(1)
	if err := v.Fit([][]string{{"a"}}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if err := v.Fit([][]string{{"b"}}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on refit, got %v", err)
	}
	if _, ok := v.Index("b"); ok {
		t.Fatal("refit must not change the vocabulary")
	}
}

func TestVocabularyIndicesAreDenseAndStable(t *testing.T) {
	seqs := [][]string{{"zeta", "alpha"}, {"mid", "alpha", "beta"}}
	a := NewVocabulary(1)
	b := NewVocabulary(1)
	if err := a.Fit(seqs); err != nil {
		t.Fatal(err)
	}
	// same tokens in a different order
	if err := b.Fit([][]string{{"beta", "mid"}, {"alpha", "zeta"}}); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a.Terms(), b.Terms()) {
		t.Fatalf("vocabularies differ: %v vs %v", a.Terms(), b.Terms())
	}
	for i, term := range a.Terms() {
		idx, ok := a.Index(term)
		if !ok || idx != i {
			t.Fatalf("Index(%q) = %d, %v; want %d", term, idx, ok, i)
		}
	}
}

func TestVocabularyMinTokenLength(t *testing.T) {
	v := NewVocabulary(2)
	if err := v.Fit([][]string{{"a", "ab", "é", "éé"}}); err != nil {
		t.Fatal(err)
	}
	if got, want := v.Terms(), []string{"ab", "éé"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Terms() = %v, want %v", got, want)
	}
}

func TestVocabularyEmptyFit(t *testing.T) {
	v := NewVocabulary(1)
	if err := v.Fit([][]string{{}, nil}); err != nil {
		t.Fatal(err)
	}
	if v.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", v.Size())
	}
	vector, err := v.Transform([]string{"x"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vector) != 0 {
		t.Fatalf("expected zero vector, got %v", vector)
	}
}
